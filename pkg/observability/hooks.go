// Package observability lets a deployment observe the card pipeline and the
// HTTP service without this module depending on a metrics backend.
//
// Every event goes through a hook interface whose default is a no-op. A
// deployment installs its own implementation once, before serving:
//
//	observability.SetPipelineHooks(promHooks)
//	observability.SetHTTPHooks(promHooks)
//
// and the pipeline emits through the accessors:
//
//	observability.Pipeline().OnRenderComplete(ctx, "png", len(out), elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the card pipeline.
type PipelineHooks interface {
	// OnNormalize reports the input shape detected for each section.
	OnNormalize(ctx context.Context, identity, redistribution, settlement string)

	// OnLayoutComplete reports the number of cards produced and the time taken.
	OnLayoutComplete(ctx context.Context, cards int, duration time.Duration)

	// OnRenderStart and OnRenderComplete bracket one artifact; size is in bytes.
	OnRenderStart(ctx context.Context, format string, cards int)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response status of a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnNormalize(context.Context, string, string, string)                 {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration)                {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// registry holds the installed hooks. Setters ignore nil.
var registry = struct {
	sync.RWMutex
	pipeline PipelineHooks
	http     HTTPHooks
}{pipeline: NoopPipelineHooks{}, http: NoopHTTPHooks{}}

// SetPipelineHooks installs h for all subsequent pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.pipeline = h
	registry.Unlock()
}

// SetHTTPHooks installs h for all subsequent requests.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.http = h
	registry.Unlock()
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.pipeline
}

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.http
}

// Reset reinstalls the no-op hooks.
func Reset() {
	registry.Lock()
	registry.pipeline = NoopPipelineHooks{}
	registry.http = NoopHTTPHooks{}
	registry.Unlock()
}

package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// Runner encapsulates pipeline execution.
// Both CLI and service use this to avoid duplicating stage wiring.
//
// The Runner stores no per-run state; multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Engine   *card.Engine
	Renderer render.Renderer
	Logger   *log.Logger
}

// NewRunner creates a runner around engine and renderer.
// A nil renderer limits the runner to the html and json formats.
func NewRunner(engine *card.Engine, renderer render.Renderer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Engine:   engine,
		Renderer: renderer,
		Logger:   logger,
	}
}

// Execute runs the complete normalize → layout → render pipeline on a raw
// JSON payload.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r = r.applyLogger(opts)

	result := &Result{}

	// Stage 1: Normalize
	result.Shapes, result.Payload = r.Normalize(ctx, data)

	// Stage 2: Layout
	layoutStart := time.Now()
	result.Document = r.Layout(ctx, result.Payload)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Cards = len(result.Document.Cards)
	result.Stats.Segments = countSegments(result.Document)

	// Stage 3: Render
	renderStart := time.Now()
	artifact, err := r.Render(ctx, result.Document, opts)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	result.ContentType = render.ContentType(opts.Format)
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Bytes = len(artifact)

	r.Logger.Info("rendered cards",
		"format", opts.Format,
		"cards", result.Stats.Cards,
		"segments", result.Stats.Segments,
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.LayoutTime+result.Stats.RenderTime)

	return result, nil
}

// applyLogger returns a runner logging to opts.Logger when one is set.
func (r *Runner) applyLogger(opts Options) *Runner {
	if opts.Logger == nil || opts.Logger == r.Logger {
		return r
	}
	scoped := *r
	scoped.Logger = opts.Logger
	return &scoped
}

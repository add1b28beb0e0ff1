// Package pipeline provides the card pipeline shared by the CLI and the
// HTTP service.
//
// This package implements the complete normalize → layout → render pipeline
// so every entry point turns a payload into an image the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Normalize: Decode the payload and collapse each section's input shape
//     into the canonical [card.Payload]
//  2. Layout: Chunk and assemble the payload into a [card.Document]
//  3. Render: Produce the requested format (PNG through a [render.Renderer],
//     HTML markup, or the Document as JSON)
//
// Normalize and layout never fail; only rendering returns errors.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	engine, _ := card.NewEngine(card.DefaultChunkWidth)
//	runner := pipeline.NewRunner(engine, raster.New(logger), logger)
//	result, err := runner.Execute(ctx, body, pipeline.Options{Format: "png"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifact
//
// Run individual stages:
//
//	shapes, payload := runner.Normalize(ctx, body)
//	doc := runner.Layout(ctx, payload)
//	out, err := runner.Render(ctx, doc, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// DefaultFormat is the output format when none is requested.
const DefaultFormat = render.FormatPNG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the per-run configuration of the pipeline.
type Options struct {
	Format   string          `json:"format,omitempty"`
	Viewport render.Viewport `json:"viewport"`

	// Runtime options (not serialized)
	// Logger replaces the runner's logger for this run when set.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Shapes records which input shape fed each section.
	Shapes card.Shapes

	// Payload is the canonical form of the input.
	Payload card.Payload

	// Document is the laid-out card description.
	Document card.Document

	// Artifact is the rendered output in the requested format.
	Artifact []byte

	// ContentType is the MIME type of Artifact.
	ContentType string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cards      int
	Segments   int
	Bytes      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return apperrors.ValidateFormat(format, render.ValidFormats)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Viewport == (render.Viewport{}) {
		o.Viewport = render.DefaultViewport()
	}
	if err := o.Viewport.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// countSegments returns the number of table segments in doc.
func countSegments(doc card.Document) int {
	n := 0
	for _, c := range doc.Cards {
		for _, t := range c.Tables {
			n += len(t.Segments)
		}
	}
	return n
}

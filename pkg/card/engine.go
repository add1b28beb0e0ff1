package card

import (
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
)

// DefaultChunkWidth is the number of values per table segment that fits
// the default card width.
const DefaultChunkWidth = 6

// Engine lays out canonical payloads at a fixed chunk width. The width is
// deployment configuration, never payload data. An Engine holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	width int
}

// NewEngine returns an engine chunking rows to width values. It fails with a
// CONFIG_INVALID error when width is out of range.
func NewEngine(width int) (*Engine, error) {
	if err := apperrors.ValidateChunkWidth(width); err != nil {
		return nil, err
	}
	return &Engine{width: width}, nil
}

// Width returns the configured chunk width.
func (e *Engine) Width() int { return e.width }

// Layout turns a canonical payload into a Document.
func (e *Engine) Layout(p Payload) Document {
	return Assemble(p, e.width)
}

// Build normalizes raw JSON and lays it out in one step.
func (e *Engine) Build(data []byte) Document {
	return e.Layout(Normalize(data))
}

package render

import (
	"context"
	"errors"
	"math"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatHTML = "html"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatHTML: true,
	FormatJSON: true,
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "image/png"
	}
}

// Defaults match the viewport the service has always rendered with.
const (
	DefaultViewportWidth  = 900
	DefaultViewportHeight = 1600
	DefaultScale          = 2.0

	// WrapWidth is the width of the card column inside the viewport.
	WrapWidth = 720
	// PagePadding is the page margin around the card column.
	PagePadding = 28
)

// Viewport is the virtual screen a Document is rendered into. Width and
// Height are in CSS pixels; Scale is the device pixel ratio of the output.
type Viewport struct {
	Width  int     `json:"width" toml:"width" yaml:"width"`
	Height int     `json:"height" toml:"height" yaml:"height"`
	Scale  float64 `json:"scale" toml:"scale" yaml:"scale"`
}

// DefaultViewport returns the 900x1600 @2x viewport.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight, Scale: DefaultScale}
}

// Validate checks the viewport dimensions.
func (v Viewport) Validate() error {
	return apperrors.ValidateViewport(v.Width, v.Height, v.Scale)
}

// Renderer rasterizes a Document. Identical Documents and viewports must
// produce identical layouts. Implementations release every resource they
// acquire before returning, on success and on failure.
type Renderer interface {
	Render(ctx context.Context, doc card.Document, vp Viewport) ([]byte, error)
}

// CheckFit fails with RENDER_OVERFLOW when content reaching right and
// bottom (CSS pixels from the page origin) cannot be captured within the
// viewport.
func CheckFit(right, bottom float64, vp Viewport) error {
	if math.Ceil(right) > float64(vp.Width) {
		return apperrors.New(apperrors.ErrCodeRenderOverflow,
			"cards need %.0fpx of width but the viewport is %dpx wide", math.Ceil(right), vp.Width)
	}
	if math.Ceil(bottom) > float64(vp.Height) {
		return apperrors.New(apperrors.ErrCodeRenderOverflow,
			"cards need %.0fpx but the viewport is %dpx tall", math.Ceil(bottom), vp.Height)
	}
	return nil
}

// Interrupted maps a context error onto the render error family.
func Interrupted(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrCodeRenderTimeout, err, "render deadline exceeded")
	}
	return apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "render cancelled")
}

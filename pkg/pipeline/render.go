package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
	"github.com/akellamp2020-create/lamp-card-render/pkg/observability"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render/html"
)

// Render produces doc in the format named by opts.
func (r *Runner) Render(ctx context.Context, doc card.Document, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r = r.applyLogger(opts)

	observability.Pipeline().OnRenderStart(ctx, opts.Format, len(doc.Cards))
	start := time.Now()
	out, err := r.render(ctx, doc, opts)
	duration := time.Since(start)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, len(out), duration, err)

	if err != nil {
		r.Logger.Debug("render failed", "format", opts.Format, "code", apperrors.GetCode(err), "error", err)
		return nil, err
	}
	r.Logger.Debug("rendered output", "format", opts.Format, "bytes", len(out), "duration", duration)
	return out, nil
}

func (r *Runner) render(ctx context.Context, doc card.Document, opts Options) ([]byte, error) {
	switch opts.Format {
	case render.FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode document")
		}
		return data, nil
	case render.FormatHTML:
		data, err := html.Markup(doc)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "build card markup")
		}
		return data, nil
	default:
		if r.Renderer == nil {
			return nil, apperrors.New(apperrors.ErrCodeRenderUnavailable, "no image renderer configured")
		}
		return r.Renderer.Render(ctx, doc, opts.Viewport)
	}
}

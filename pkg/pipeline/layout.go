package pipeline

import (
	"context"
	"time"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	"github.com/akellamp2020-create/lamp-card-render/pkg/observability"
)

// Normalize decodes a raw payload and returns the input shape chosen for
// each section together with the canonical payload. Malformed input
// normalizes to an empty payload.
func (r *Runner) Normalize(ctx context.Context, data []byte) (card.Shapes, card.Payload) {
	env := card.Decode(data)
	shapes := env.Shapes()

	r.Logger.Debug("normalized payload",
		"identity", shapes.Identity,
		"rozmin", shapes.Redistribution,
		"rozrahunok", shapes.Settlement)
	r.Logger.Debug("raw payload", "body", string(data))
	observability.Pipeline().OnNormalize(ctx,
		string(shapes.Identity), string(shapes.Redistribution), string(shapes.Settlement))

	return shapes, env.Canonical()
}

// Layout chunks and assembles a canonical payload into a Document.
func (r *Runner) Layout(ctx context.Context, p card.Payload) card.Document {
	start := time.Now()
	doc := r.Engine.Layout(p)
	duration := time.Since(start)

	r.Logger.Debug("computed layout",
		"cards", len(doc.Cards),
		"columns", doc.Columns,
		"duration", duration)
	observability.Pipeline().OnLayoutComplete(ctx, len(doc.Cards), duration)

	return doc
}

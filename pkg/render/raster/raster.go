// Package raster draws a card Document in-process with the Go fonts.
//
// The geometry follows the stylesheet of the html package: a 720px card
// column, rounded bordered cards, 34px bold values, 26px labels and
// headers, 22px annotation lines. Output is the card column only, exactly
// what the chrome backend clips, scaled by the viewport's device pixel
// ratio. Identical Documents and viewports produce identical bytes.
package raster

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// Backend renders Documents without a browser. It is safe for concurrent
// use; each Render call owns its canvas and font faces.
type Backend struct {
	logger *log.Logger
}

// New returns a raster backend. A nil logger discards debug output.
func New(logger *log.Logger) *Backend {
	return &Backend{logger: logger}
}

// Render implements render.Renderer.
func (b *Backend) Render(ctx context.Context, doc card.Document, vp render.Viewport) ([]byte, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, render.Interrupted(err)
	}

	fonts, err := loadFonts()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderUnavailable, err, "load fonts")
	}

	height := Measure(doc)
	if err := render.CheckFit(render.PagePadding+render.WrapWidth, render.PagePadding+height, vp); err != nil {
		return nil, err
	}

	p := newPainter(fonts, vp.Scale, math.Max(height, 1))
	defer p.close()
	if err := p.document(doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "draw cards")
	}
	if err := ctx.Err(); err != nil {
		return nil, render.Interrupted(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.img); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "encode png")
	}
	if b.logger != nil {
		b.logger.Debug("rasterized cards", "cards", len(doc.Cards), "height", height, "bytes", buf.Len())
	}
	return buf.Bytes(), nil
}

// Measure returns the height in CSS pixels of the card column for doc.
func Measure(doc card.Document) float64 {
	p := &painter{dry: true, scale: 1}
	var h float64
	for i, c := range doc.Cards {
		if i > 0 {
			h += cardGap
		}
		h += p.card(c, h, doc.Columns)
	}
	return h
}

type fontSet struct {
	regular, medium, bold *opentype.Font
}

var (
	fontsOnce   sync.Once
	loadedFonts *fontSet
	fontsErr    error
)

func loadFonts() (*fontSet, error) {
	fontsOnce.Do(func() {
		var fs fontSet
		for _, f := range []struct {
			dst **opentype.Font
			ttf []byte
		}{
			{&fs.regular, goregular.TTF},
			{&fs.medium, gomedium.TTF},
			{&fs.bold, gobold.TTF},
		} {
			parsed, err := opentype.Parse(f.ttf)
			if err != nil {
				fontsErr = err
				return
			}
			*f.dst = parsed
		}
		loadedFonts = &fs
	})
	return loadedFonts, fontsErr
}

// newPainter allocates a white canvas for a card column of the given
// CSS-pixel height.
func newPainter(fs *fontSet, scale, height float64) *painter {
	w := int(math.Ceil(render.WrapWidth * scale))
	h := int(math.Ceil(height * scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	p := &painter{img: img, scale: scale, fonts: fs, faces: map[textStyle]*faceEntry{}}
	p.fill(0, 0, render.WrapWidth, height, colorBackground)
	return p
}

func (p *painter) document(doc card.Document) error {
	var y float64
	for i, c := range doc.Cards {
		if i > 0 {
			y += cardGap
		}
		y += p.card(c, y, doc.Columns)
		if p.err != nil {
			return p.err
		}
	}
	return nil
}

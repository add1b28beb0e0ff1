package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// Box metrics in CSS pixels, mirroring the html stylesheet.
const (
	cardGap     = 22.0
	cardPadding = 22.0
	cardBorder  = 1.0
	cardRadius  = 26.0

	titleGap    = 14.0
	rowPadding  = 18.0
	firstRowTop = 6.0
	labelGap    = 16.0

	tableGap    = 12.0
	cellPadding = 10.0
	timeTop     = 12.0
	timeBottom  = 6.0
	separator   = 1.0

	lineHeight = 1.2
)

var (
	colorBackground = rgb(0xffffff)
	colorBorder     = rgb(0xe9e9e9)
	colorSeparator  = rgb(0xf1f1f1)
	colorHeaderFill = rgb(0xfafafa)
	colorText       = rgb(0x111111)
	colorLabel      = rgb(0x444444)
	colorTime       = rgb(0x9a9a9a)
	colorPos        = rgb(0x0a7a2f)
	colorNeg        = rgb(0xb00020)
)

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func classColor(c card.DisplayClass) color.RGBA {
	switch c {
	case card.ClassFavorable:
		return colorPos
	case card.ClassUnfavorable:
		return colorNeg
	default:
		return colorText
	}
}

type weight int

const (
	weightRegular weight = iota
	weightMedium
	weightBold
)

type textStyle struct {
	size   float64
	weight weight
}

var (
	styleTitle  = textStyle{34, weightBold}
	styleLabel  = textStyle{26, weightRegular}
	styleValue  = textStyle{34, weightBold}
	styleHeader = textStyle{26, weightBold}
	styleTime   = textStyle{22, weightMedium}
)

func (s textStyle) line() float64 { return math.Round(s.size * lineHeight) }

type align int

const (
	alignLeft align = iota
	alignRight
)

type faceEntry struct {
	face            font.Face
	ascent, descent float64
}

// painter walks the card layout. With dry set it only measures; otherwise
// it draws onto img. Coordinates passed around are CSS pixels relative to
// the card column; scale converts them to device pixels at draw time.
type painter struct {
	dry   bool
	img   *image.RGBA
	scale float64
	fonts *fontSet
	faces map[textStyle]*faceEntry
	err   error
}

func (p *painter) close() {
	for _, f := range p.faces {
		f.face.Close()
	}
}

// card lays out one card with its top edge at top and returns its height.
func (p *painter) card(c card.Card, top float64, columns int) float64 {
	if !p.dry {
		h := (&painter{dry: true, scale: 1}).card(c, top, columns)
		p.roundedRect(0, top, render.WrapWidth, h, cardRadius, colorBorder)
		p.roundedRect(cardBorder, top+cardBorder, render.WrapWidth-2*cardBorder, h-2*cardBorder, cardRadius-cardBorder, colorBackground)
	}

	left := cardBorder + cardPadding
	width := render.WrapWidth - 2*left
	y := top + cardBorder + cardPadding

	p.text(c.Title, left, y, width, styleTitle, colorText, alignLeft)
	y += styleTitle.line() + titleGap

	for i, pair := range c.Pairs {
		pad := rowPadding
		if i == 0 {
			pad = firstRowTop
		} else {
			p.fill(left, y, width, separator, colorSeparator)
		}
		line := math.Max(styleLabel.line(), styleValue.line())
		rowTop := y + pad
		labelWidth := (width - labelGap) / 2
		p.text(pair.Label, left, rowTop+(line-styleLabel.line())/2, labelWidth, styleLabel, colorLabel, alignLeft)
		p.text(pair.Value, left+labelWidth+labelGap, rowTop+(line-styleValue.line())/2, labelWidth, styleValue, classColor(pair.Class), alignRight)
		y = rowTop + line + rowPadding
	}

	for _, t := range c.Tables {
		y = p.table(t, left, y, width, columns)
	}

	return y + cardPadding + cardBorder - top
}

// table lays out every segment of one chunked row and returns the bottom.
func (p *painter) table(t card.Table, left, y, width float64, columns int) float64 {
	col := width / float64(max(columns, 1))
	for i, seg := range t.Segments {
		y += tableGap
		if i == 0 {
			h := rowPadding + styleHeader.line() + rowPadding
			p.fill(left, y, width, h, colorHeaderFill)
			p.text(t.Header, left+cellPadding, y+rowPadding, col-2*cellPadding, styleHeader, colorText, alignLeft)
			y += h
		}

		p.fill(left, y, width, separator, colorSeparator)
		for j, cell := range seg.Cells {
			x := left + float64(j)*col + cellPadding
			p.text(cell.Text, x, y+rowPadding, col-2*cellPadding, styleValue, classColor(cell.Class), alignRight)
		}
		y += rowPadding + styleValue.line() + rowPadding

		if t.Annotated {
			p.fill(left, y, width, separator, colorSeparator)
			for j, a := range seg.Annotations {
				x := left + float64(j)*col + cellPadding
				p.text(a, x, y+timeTop, col-2*cellPadding, styleTime, colorTime, alignRight)
			}
			y += timeTop + styleTime.line() + timeBottom
		}
	}
	return y
}

func (p *painter) face(s textStyle) (*faceEntry, error) {
	if f, ok := p.faces[s]; ok {
		return f, nil
	}
	src := p.fonts.regular
	switch s.weight {
	case weightMedium:
		src = p.fonts.medium
	case weightBold:
		src = p.fonts.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    s.size * p.scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	f := &faceEntry{
		face:    face,
		ascent:  fromFixed(m.Ascent) / p.scale,
		descent: fromFixed(m.Descent) / p.scale,
	}
	p.faces[s] = f
	return f, nil
}

// text draws s inside the line box starting at (x, top) of the given width.
func (p *painter) text(s string, x, top, width float64, st textStyle, col color.Color, a align) {
	if p.dry || p.err != nil || s == "" {
		return
	}
	f, err := p.face(st)
	if err != nil {
		p.err = err
		return
	}
	baseline := top + (st.line()-(f.ascent+f.descent))/2 + f.ascent
	if a == alignRight {
		x += width - fromFixed(font.MeasureString(f.face, s))/p.scale
	}
	d := font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(col),
		Face: f.face,
		Dot:  fixed.Point26_6{X: toFixed(x * p.scale), Y: toFixed(baseline * p.scale)},
	}
	d.DrawString(s)
}

func (p *painter) fill(x, y, w, h float64, col color.RGBA) {
	if p.dry {
		return
	}
	r := p.rect(x, y, w, h)
	draw.Draw(p.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// roundedRect fills a rectangle with circular corners of radius r.
func (p *painter) roundedRect(x, y, w, h, r float64, col color.RGBA) {
	if p.dry {
		return
	}
	bounds := p.rect(x, y, w, h).Intersect(p.img.Bounds())
	x0, y0 := x*p.scale, y*p.scale
	x1, y1 := (x+w)*p.scale, (y+h)*p.scale
	rs := r * p.scale
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		cy := float64(py) + 0.5
		dy := math.Max(math.Max(y0+rs-cy, cy-(y1-rs)), 0)
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			cx := float64(px) + 0.5
			dx := math.Max(math.Max(x0+rs-cx, cx-(x1-rs)), 0)
			if dx*dx+dy*dy <= rs*rs {
				p.img.SetRGBA(px, py, col)
			}
		}
	}
}

func (p *painter) rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x*p.scale)), int(math.Round(y*p.scale)),
		int(math.Round((x+w)*p.scale)), int(math.Round((y+h)*p.scale)),
	)
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

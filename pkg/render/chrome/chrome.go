// Package chrome renders a card Document by screenshotting its HTML page
// in headless Chrome.
//
// Each Render call gets its own browser: either a freshly launched process
// or, when a ControlURL is configured, a new page in an already running
// browser. Everything acquired during the call is released before it
// returns, whatever the outcome.
package chrome

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/akellamp2020-create/lamp-card-render/pkg/card"
	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render/html"
)

// Options selects the browser a Backend drives.
type Options struct {
	// Bin is the Chrome executable. Empty lets the launcher locate one.
	Bin string
	// ControlURL points at a running browser's debugger endpoint. When set,
	// no browser is launched; each call closes its page and its connection.
	ControlURL string
	// NoSandbox disables the Chrome sandbox, needed in most containers.
	NoSandbox bool
}

// Backend is a render.Renderer backed by headless Chrome.
type Backend struct {
	opts   Options
	logger *log.Logger
}

// New returns a Chrome backend. A nil logger discards debug output.
func New(opts Options, logger *log.Logger) *Backend {
	return &Backend{opts: opts, logger: logger}
}

// Render implements render.Renderer.
func (b *Backend) Render(ctx context.Context, doc card.Document, vp render.Viewport) ([]byte, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	markup, err := html.Markup(doc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "build card markup")
	}

	browser, release, err := b.connect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, render.Interrupted(ctx.Err())
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderUnavailable, err, "start browser")
	}
	defer release()

	out, err := capture(browser, string(markup), vp)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, render.Interrupted(ctx.Err())
	case apperrors.GetCode(err) != "":
		return nil, err
	default:
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "capture cards")
	}

	b.debug("captured cards", "cards", len(doc.Cards), "bytes", len(out))
	return out, nil
}

// connect returns a browser bound to ctx and the function that releases it.
func (b *Backend) connect(ctx context.Context) (*rod.Browser, func(), error) {
	if b.opts.ControlURL != "" {
		u, err := launcher.ResolveURL(b.opts.ControlURL)
		if err != nil {
			return nil, nil, err
		}
		ws := &cdp.WebSocket{}
		if err := ws.Connect(ctx, u, nil); err != nil {
			return nil, nil, err
		}
		browser, release, err := b.attach(ctx, ws)
		if err != nil {
			return nil, nil, err
		}
		b.debug("connected to browser", "url", u)
		return browser, release, nil
	}

	l := launcher.New().Context(ctx).Headless(true).NoSandbox(b.opts.NoSandbox)
	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	}
	u, err := l.Launch()
	if err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, err
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	release := func() {
		if err := browser.Close(); err != nil {
			b.debug("close browser", "error", err)
		}
		l.Kill()
		l.Cleanup()
	}
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, err
	}
	b.debug("launched browser", "url", u)
	return browser, release, nil
}

// conn is a devtools connection this package can hang up.
type conn interface {
	cdp.WebSocketable
	Close() error
}

// attach drives a shared browser over ws. Releasing hangs up the connection
// and leaves the browser running.
func (b *Backend) attach(ctx context.Context, ws conn) (*rod.Browser, func(), error) {
	browser := rod.New().Client(cdp.New().Start(ws)).Context(ctx)
	release := func() {
		if err := ws.Close(); err != nil {
			b.debug("close devtools connection", "error", err)
		}
	}
	if err := browser.Connect(); err != nil {
		release()
		return nil, nil, err
	}
	return browser, release, nil
}

// capture loads markup into a fresh page and screenshots the card column.
func capture(browser *rod.Browser, markup string, vp render.Viewport) ([]byte, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: vp.Scale,
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, err
	}
	if err := page.SetDocumentContent(markup); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	wrap, err := page.Element(html.WrapSelector)
	if err != nil {
		return nil, err
	}
	shape, err := wrap.Shape()
	if err != nil {
		return nil, err
	}
	box := shape.Box()
	if box == nil {
		return nil, apperrors.New(apperrors.ErrCodeRenderFailed, "card column has no layout box")
	}
	if err := render.CheckFit(box.X+box.Width, box.Y+box.Height, vp); err != nil {
		return nil, err
	}

	return page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  1,
		},
	})
}

func (b *Backend) debug(msg string, keyvals ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, keyvals...)
	}
}

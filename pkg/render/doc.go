// Package render defines the contract between the card engine and the
// backends that turn a [card.Document] into pixels.
//
// # Overview
//
// A [Renderer] receives a fully laid-out Document and a [Viewport] and
// returns encoded image bytes. The Document already carries the wrapped
// table layout, so backends never reflow tables themselves.
//
// Backends:
//
//   - [chrome]: loads the [html] markup into headless Chrome and captures
//     the card column, as the service always has
//   - [raster]: draws the same card layout in-process with the Go fonts;
//     no browser required, byte-identical output for identical input
//
// Both backends must fail explicitly rather than truncate: a Document whose
// cards do not fit the viewport height fails with RENDER_OVERFLOW, see
// [CheckFit].
//
// # Formats
//
// [FormatPNG] is produced by a Renderer; [FormatHTML] and [FormatJSON] are
// produced directly from the Document by the pipeline.
//
// [chrome]: github.com/akellamp2020-create/lamp-card-render/pkg/render/chrome
// [raster]: github.com/akellamp2020-create/lamp-card-render/pkg/render/raster
// [html]: github.com/akellamp2020-create/lamp-card-render/pkg/render/html
package render

// Package pkg provides the core libraries for rendering LAMP settlement
// reports as image cards.
//
// # Overview
//
// A report arrives as loosely-typed JSON in one of several historical wire
// shapes. The pkg directory turns it into a PNG in three steps:
//
//  1. [card] - Domain logic (decoding, normalization, row chunking, layout)
//  2. [render] - Backends that draw a laid-out document (raster, chrome, html)
//  3. [pipeline] - Orchestration (normalize → layout → render)
//
// Around them sit the service and its support packages:
//
//   - [server] - HTTP surface (GET /, GET /health, POST /render)
//   - [config] - TOML/YAML file plus environment configuration
//   - [errors] - Coded errors shared by every layer
//   - [observability] - Pipeline and HTTP hooks
//   - [buildinfo] - Version information set at link time
//
// # Architecture
//
// The typical data flow:
//
//	POST /render body or payload file
//	         ↓
//	    [card] Decode (wire shape detection, never fails)
//	         ↓
//	    [card] Engine.Layout (payload → chunked Document)
//	         ↓
//	    [render] Renderer (Document → PNG) or [html] / JSON
//	         ↓
//	    image/png, text/html or application/json
//
// # Quick Start
//
//	engine, _ := card.NewEngine(card.DefaultChunkWidth)
//	runner := pipeline.NewRunner(engine, raster.New(logger), logger)
//	res, err := runner.Execute(ctx, payload, pipeline.Options{})
//	// res.Artifact holds the PNG bytes
//
// [card]: github.com/akellamp2020-create/lamp-card-render/pkg/card
// [render]: github.com/akellamp2020-create/lamp-card-render/pkg/render
// [html]: github.com/akellamp2020-create/lamp-card-render/pkg/render/html
// [pipeline]: github.com/akellamp2020-create/lamp-card-render/pkg/pipeline
// [server]: github.com/akellamp2020-create/lamp-card-render/pkg/server
// [config]: github.com/akellamp2020-create/lamp-card-render/pkg/config
// [errors]: github.com/akellamp2020-create/lamp-card-render/pkg/errors
// [observability]: github.com/akellamp2020-create/lamp-card-render/pkg/observability
// [buildinfo]: github.com/akellamp2020-create/lamp-card-render/pkg/buildinfo
package pkg

// Package card turns loosely structured settlement reports into render-ready
// card documents.
//
// # Overview
//
// A report arrives as untyped JSON in one of several historical shapes. The
// package runs it through four pure stages, each feeding the next:
//
//  1. Normalize: decode the wire shape and reconcile it into a [Payload]
//  2. Resolve: map each cell's semantic [Tag] to a [DisplayClass] under the
//     block's [Scheme]
//  3. Chunk: split long rows into bounded-width [Segment]s
//  4. Assemble: order the resolved cards into a [Document]
//
// The stages share no state and perform no I/O, so a single [Engine] may be
// used from any number of goroutines.
//
// # Input Shapes
//
// Each sub-entity of the report (the identity card and the two fixed table
// slots) is decoded independently, first match wins:
//
//   - Identity: structured blocks.result, else legacy scalars
//     (name, labelRozmin/valueRozmin, labelRozrah/valueRozrah, labelDebt/valueDebt),
//     present only when name or a label is set
//   - Redistribution slot: blocks.rozmin, else the pipe string detailsRozmin
//   - Settlement slot: blocks.rozrahunok, else detailsRozrah, else valueRozrah
//
// [Decode] exposes which [Shape] was chosen for each sub-entity via
// [Envelope.Shapes]; [Normalize] is the one-call form.
//
// Malformed input never fails. Wrong-typed fields degrade to empty strings,
// empty sequences and the [TagZero] tag.
//
// # Usage
//
//	engine, err := card.NewEngine(6)
//	if err != nil {
//	    return err // CONFIG_INVALID
//	}
//	doc := engine.Layout(card.Normalize(body))
package card

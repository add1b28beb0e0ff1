package card

// Assemble lays out a payload as a Document: the identity card first, when
// present, then one card per table block in payload order. Each row is
// chunked to width and its cells resolved under the block's scheme. Blocks
// left without rows are omitted, so the Document never holds an empty card.
func Assemble(p Payload, width int) Document {
	width = max(width, 1)
	doc := Document{Columns: width, Cards: []Card{}}

	if p.Identity != nil {
		doc.Cards = append(doc.Cards, identityCard(*p.Identity))
	}
	for _, b := range p.Tables {
		if c, ok := tableCard(b, width); ok {
			doc.Cards = append(doc.Cards, c)
		}
	}
	return doc
}

// identityCard renders the name first, then each entry. The identity card
// always resolves under SchemeNormal.
func identityCard(id IdentityCard) Card {
	pairs := make([]Pair, 0, len(id.Entries)+1)
	pairs = append(pairs, Pair{Label: NameLabel, Value: id.Name, Class: ClassNeutral})
	for _, e := range id.Entries {
		pairs = append(pairs, Pair{
			Label: e.Label,
			Value: e.Value,
			Class: Resolve(e.Tag, SchemeNormal),
		})
	}
	return Card{Kind: KindIdentity, Title: id.Title, Pairs: pairs}
}

func tableCard(b TableBlock, width int) (Card, bool) {
	var tables []Table
	for _, row := range b.Rows {
		segs := Chunk(row, width)
		if len(segs) == 0 {
			continue
		}
		annotated := row.Annotated()
		t := Table{Header: TotalHeader, Annotated: annotated, Segments: make([]TableSegment, len(segs))}
		for i, seg := range segs {
			t.Segments[i] = resolveSegment(seg, b.Scheme, annotated)
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return Card{}, false
	}
	return Card{Kind: KindTable, Title: b.Title, Tables: tables}, true
}

func resolveSegment(seg Segment, scheme Scheme, annotated bool) TableSegment {
	out := TableSegment{Cells: make([]DisplayCell, len(seg.Values)), Partial: seg.Partial}
	for i, c := range seg.Values {
		out.Cells[i] = DisplayCell{Text: c.Text, Class: Resolve(c.Tag, scheme)}
	}
	if annotated {
		out.Annotations = make([]string, len(seg.Annotations))
		for i, a := range seg.Annotations {
			out.Annotations[i] = a.Text
		}
	}
	return out
}

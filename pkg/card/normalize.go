package card

// Normalize decodes raw JSON and reconciles it into the canonical model.
// It never fails; see [Decode].
func Normalize(data []byte) Payload {
	return Decode(data).Canonical()
}

// Canonical converts the decoded sources into a Payload.
func (e Envelope) Canonical() Payload {
	p := Payload{Tables: make([]TableBlock, 0, len(Slots))}
	if e.identity != nil {
		p.Identity = e.identity.card(e.gameDate)
	}
	for _, slot := range Slots {
		src := e.tables[slot]
		if src == nil {
			src = absentTable{}
		}
		p.Tables = append(p.Tables, src.block(slot))
	}
	return p
}

// structuredIdentity is blocks.result, taken as sent.
type structuredIdentity struct {
	title   string
	name    string
	entries []Entry
}

func (structuredIdentity) shape() Shape { return ShapeStructured }

func (s structuredIdentity) card(gameDate string) *IdentityCard {
	title := s.title
	if title == "" {
		title = identityTitle(gameDate)
	}
	return &IdentityCard{Title: title, Name: s.name, Entries: s.entries}
}

// legacyIdentity is the flat name/label/value scalars of older callers.
type legacyIdentity struct {
	name   string
	labels [3]string
	values [3]string
}

func (legacyIdentity) shape() Shape { return ShapeLegacyFields }

// card synthesizes the three headline entries. All of them are favorable
// regardless of sign; older callers never sent a classification.
func (l legacyIdentity) card(gameDate string) *IdentityCard {
	entries := make([]Entry, len(l.labels))
	for i := range l.labels {
		entries[i] = Entry{Label: l.labels[i], Value: l.values[i], Tag: TagPos}
	}
	return &IdentityCard{Title: identityTitle(gameDate), Name: l.name, Entries: entries}
}

// structuredTable is blocks.rozmin or blocks.rozrahunok. An empty scheme
// means the caller sent none.
type structuredTable struct {
	title  string
	scheme Scheme
	rows   []Row
}

func (structuredTable) shape() Shape { return ShapeStructured }

func (s structuredTable) block(slot Slot) TableBlock {
	scheme := s.scheme
	if scheme == "" {
		scheme = InferScheme(s.title)
	}
	return TableBlock{Slot: slot, Title: s.title, Scheme: scheme, Rows: s.rows}
}

// pipeTable is a legacy "a | b | c" details string.
type pipeTable struct {
	segments []string
}

func (pipeTable) shape() Shape { return ShapeLegacyPipe }

// block builds the single legacy row. In a redistribution ledger the opening
// and closing entries are favorable and every interior transfer is not; a
// settlement ledger is favorable throughout.
func (p pipeTable) block(slot Slot) TableBlock {
	last := len(p.segments) - 1
	cells := make([]Cell, len(p.segments))
	for i, s := range p.segments {
		tag := TagPos
		if slot == SlotRedistribution && i != 0 && i != last {
			tag = TagNeg
		}
		cells[i] = Cell{Text: s, Tag: tag}
	}
	return legacyBlock(slot, Row{Values: cells})
}

// scalarTable is the settlement total sent as a lone legacy value.
type scalarTable struct {
	value string
}

func (scalarTable) shape() Shape { return ShapeLegacyScalar }

func (s scalarTable) block(slot Slot) TableBlock {
	return legacyBlock(slot, Row{Values: []Cell{{Text: s.value, Tag: TagPos}}})
}

// absentTable stands in for a slot with no data.
type absentTable struct{}

func (absentTable) shape() Shape { return ShapeAbsent }

func (absentTable) block(slot Slot) TableBlock {
	return TableBlock{Slot: slot, Title: slot.Title(), Scheme: InferScheme(slot.Title())}
}

func legacyBlock(slot Slot, row Row) TableBlock {
	title := slot.Title()
	return TableBlock{Slot: slot, Title: title, Scheme: InferScheme(title), Rows: []Row{row}}
}

package card

import "strings"

// Fixed domain titles.
const (
	RedistributionTitle = "Розмін"
	SettlementTitle     = "Розрахунок"
	DebtTitle           = "Підсумок"
	IdentityTitle       = "Результат"
)

// Tag is the caller's semantic classification of a value. It is not a color;
// the display color is resolved later under a [Scheme].
type Tag string

const (
	TagPos  Tag = "pos"
	TagNeg  Tag = "neg"
	TagZero Tag = "zero"
)

// ParseTag maps a wire class to a Tag. Unknown or empty classes are TagZero.
func ParseTag(s string) Tag {
	switch Tag(strings.TrimSpace(s)) {
	case TagPos:
		return TagPos
	case TagNeg:
		return TagNeg
	default:
		return TagZero
	}
}

// Cell is one value in a table row.
type Cell struct {
	Text string `json:"text"`
	Tag  Tag    `json:"tag"`
}

// Annotation is an optional sub-label (usually a timestamp) paired by
// position with the Cell at the same index.
type Annotation struct {
	Text string `json:"text"`
}

// Row is an ordered run of values with their optional annotations.
// Annotations may be shorter than Values; missing entries read as blank.
type Row struct {
	Values      []Cell       `json:"values"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotated reports whether any annotation in the whole row is non-blank.
func (r Row) Annotated() bool {
	for _, a := range r.Annotations {
		if strings.TrimSpace(a.Text) != "" {
			return true
		}
	}
	return false
}

// Slot identifies one of the two fixed table positions of a report.
type Slot int

const (
	SlotRedistribution Slot = iota
	SlotSettlement
)

// Slots lists the table slots in document order.
var Slots = []Slot{SlotRedistribution, SlotSettlement}

// Title returns the fixed domain title of the slot.
func (s Slot) Title() string {
	if s == SlotRedistribution {
		return RedistributionTitle
	}
	return SettlementTitle
}

// String returns the slot's wire key under "blocks".
func (s Slot) String() string {
	if s == SlotRedistribution {
		return "rozmin"
	}
	return "rozrahunok"
}

// TableBlock is one titled table card. Scheme is always set: explicit when
// the input named one, otherwise inferred by [InferScheme].
type TableBlock struct {
	Slot   Slot   `json:"slot"`
	Title  string `json:"title"`
	Scheme Scheme `json:"scheme"`
	Rows   []Row  `json:"rows,omitempty"`
}

// Empty reports whether the block has no values to show.
func (b TableBlock) Empty() bool {
	for _, r := range b.Rows {
		if len(r.Values) > 0 {
			return false
		}
	}
	return true
}

// Entry is one headline figure of the identity card.
type Entry struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Tag   Tag    `json:"tag"`
}

// IdentityCard is the single summary card: a name and headline figures.
type IdentityCard struct {
	Title   string  `json:"title"`
	Name    string  `json:"name"`
	Entries []Entry `json:"entries,omitempty"`
}

// Payload is the canonical report every input shape converges to.
// Tables always holds one block per [Slots] entry, in slot order; a slot with
// no data has a block with no rows.
type Payload struct {
	Identity *IdentityCard `json:"identity,omitempty"`
	Tables   []TableBlock  `json:"tables"`
}

// identityTitle returns the default identity title, parameterized by the
// report's game date when one was sent.
func identityTitle(gameDate string) string {
	if gameDate = strings.TrimSpace(gameDate); gameDate != "" {
		return IdentityTitle + " · " + gameDate
	}
	return IdentityTitle
}

package card

// Labels fixed by the card layout.
const (
	NameLabel   = "Ім'я"
	TotalHeader = "Разом"
)

// CardKind distinguishes the two card layouts.
type CardKind string

const (
	KindIdentity CardKind = "identity"
	KindTable    CardKind = "table"
)

// Document is the renderer-agnostic description of one report image:
// an ordered list of non-empty cards. Columns is the chunk width the tables
// were laid out with; every table segment holds at most Columns cells, and
// only the last segment of a row may hold fewer.
type Document struct {
	Columns int    `json:"columns"`
	Cards   []Card `json:"cards"`
}

// Card is one visual card. Identity cards carry Pairs, table cards carry
// one Table per non-empty row of the source block.
type Card struct {
	Kind   CardKind `json:"kind"`
	Title  string   `json:"title"`
	Pairs  []Pair   `json:"pairs,omitempty"`
	Tables []Table  `json:"tables,omitempty"`
}

// Pair is a label/value line of the identity card.
type Pair struct {
	Label string       `json:"label"`
	Value string       `json:"value"`
	Class DisplayClass `json:"class"`
}

// Table is one chunked row. Annotated is decided for the whole row: when
// set, every segment renders an annotation line, blank cells included.
type Table struct {
	Header    string         `json:"header"`
	Annotated bool           `json:"annotated,omitempty"`
	Segments  []TableSegment `json:"segments"`
}

// TableSegment is one rendered value line and its optional annotation line.
type TableSegment struct {
	Cells       []DisplayCell `json:"cells"`
	Annotations []string      `json:"annotations,omitempty"`
	Partial     bool          `json:"partial,omitempty"`
}

// DisplayCell is a value with its resolved display class.
type DisplayCell struct {
	Text  string       `json:"text"`
	Class DisplayClass `json:"class"`
}

// Empty reports whether the document has nothing to draw.
func (d Document) Empty() bool { return len(d.Cards) == 0 }

package card

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Shape names the wire form a sub-entity was decoded from.
type Shape string

const (
	ShapeAbsent       Shape = "absent"
	ShapeStructured   Shape = "structured"
	ShapeLegacyFields Shape = "legacy-fields"
	ShapeLegacyPipe   Shape = "legacy-pipe"
	ShapeLegacyScalar Shape = "legacy-scalar"
)

// Shapes records the decoded form of every sub-entity of one report.
type Shapes struct {
	Identity       Shape `json:"identity"`
	Redistribution Shape `json:"redistribution"`
	Settlement     Shape `json:"settlement"`
}

// Legacy wire fields.
const (
	fieldName          = "name"
	fieldGameDate      = "gameDate"
	fieldDetailsRozmin = "detailsRozmin"
	fieldDetailsRozrah = "detailsRozrah"
	fieldValueRozrah   = "valueRozrah"
)

// legacyPairs lists the identity label/value field pairs with the label used
// when a caller sent the value but no label.
var legacyPairs = [3]struct{ label, value, fallback string }{
	{"labelRozmin", "valueRozmin", RedistributionTitle},
	{"labelRozrah", "valueRozrah", SettlementTitle},
	{"labelDebt", "valueDebt", DebtTitle},
}

// Envelope is a decoded report: one source variant per sub-entity, chosen
// by the first-match rules of the package documentation. Decoding is total;
// an Envelope is always usable.
type Envelope struct {
	gameDate string
	identity identitySource
	tables   [2]tableSource
}

// identitySource is one accepted wire shape of the identity card.
type identitySource interface {
	shape() Shape
	card(gameDate string) *IdentityCard
}

// tableSource is one accepted wire shape of a table slot.
type tableSource interface {
	shape() Shape
	block(slot Slot) TableBlock
}

// Decode parses raw JSON into an Envelope. Input that is not JSON, or not a
// JSON object, decodes like an empty object.
func Decode(data []byte) Envelope {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		v = nil
	}
	return DecodeValue(v)
}

// DecodeValue builds an Envelope from an already-parsed JSON value, as
// produced by encoding/json into an any.
func DecodeValue(v any) Envelope {
	root := asObject(v)
	blocks := asObject(root["blocks"])

	env := Envelope{gameDate: text(root[fieldGameDate])}
	env.identity = decodeIdentity(root, blocks)
	for _, slot := range Slots {
		env.tables[slot] = decodeTable(slot, root, blocks)
	}
	return env
}

// Shapes reports which wire shape each sub-entity came from.
func (e Envelope) Shapes() Shapes {
	return Shapes{
		Identity:       shapeOf(e.identity),
		Redistribution: shapeOf(e.tables[SlotRedistribution]),
		Settlement:     shapeOf(e.tables[SlotSettlement]),
	}
}

func shapeOf[S interface{ shape() Shape }](s S) Shape {
	if any(s) == nil {
		return ShapeAbsent
	}
	return s.shape()
}

func decodeIdentity(root, blocks map[string]any) identitySource {
	if r, ok := blocks["result"].(map[string]any); ok {
		return decodeStructuredIdentity(r)
	}

	legacy := legacyIdentity{name: text(root[fieldName])}
	present := legacy.name != ""
	for i, p := range legacyPairs {
		label, hasLabel := root[p.label]
		legacy.labels[i] = p.fallback
		if hasLabel && label != nil {
			legacy.labels[i] = text(label)
			present = present || legacy.labels[i] != ""
		}
		legacy.values[i] = text(root[p.value])
	}
	if !present {
		return nil
	}
	return legacy
}

func decodeStructuredIdentity(r map[string]any) structuredIdentity {
	id := structuredIdentity{
		title: text(r["title"]),
		name:  text(r["name"]),
	}
	for _, item := range asList(r["rows"]) {
		row := asObject(item)
		id.entries = append(id.entries, Entry{
			Label: text(row["key"]),
			Value: text(row["value"]),
			Tag:   ParseTag(text(row["cls"])),
		})
	}
	return id
}

func decodeTable(slot Slot, root, blocks map[string]any) tableSource {
	if b, ok := blocks[slot.String()].(map[string]any); ok {
		return decodeStructuredTable(b)
	}

	detailsField := fieldDetailsRozmin
	if slot == SlotSettlement {
		detailsField = fieldDetailsRozrah
	}
	if segs := splitPipe(text(root[detailsField])); len(segs) > 0 {
		return pipeTable{segments: segs}
	}

	if slot == SlotSettlement {
		if v := strings.TrimSpace(text(root[fieldValueRozrah])); v != "" {
			return scalarTable{value: v}
		}
	}
	return nil
}

func decodeStructuredTable(b map[string]any) structuredTable {
	t := structuredTable{title: text(b["title"])}
	if raw := b["scheme"]; truthy(raw) {
		t.scheme = SchemeNormal
		if s, ok := ParseScheme(text(raw)); ok {
			t.scheme = s
		}
	}
	for _, item := range asList(b["rows"]) {
		row := asObject(item)
		var r Row
		for _, v := range asList(row["values"]) {
			r.Values = append(r.Values, decodeCell(v))
		}
		for _, a := range asList(row["times"]) {
			r.Annotations = append(r.Annotations, Annotation{Text: cellText(a)})
		}
		t.rows = append(t.rows, r)
	}
	return t
}

// decodeCell accepts {text, cls} objects. A bare scalar is taken as the
// text of a neutral cell.
func decodeCell(v any) Cell {
	if obj, ok := v.(map[string]any); ok {
		return Cell{Text: text(obj["text"]), Tag: ParseTag(text(obj["cls"]))}
	}
	return Cell{Text: text(v), Tag: TagZero}
}

func cellText(v any) string {
	if obj, ok := v.(map[string]any); ok {
		return text(obj["text"])
	}
	return text(v)
}

// splitPipe splits a legacy details string on '|', trimming segments and
// dropping empty ones.
func splitPipe(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// truthy reports whether v counts as set: null, false, zero and the empty
// string do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

// text coerces a JSON scalar to its display text. Numbers keep their exact
// wire spelling when decoded with UseNumber. Null, objects and arrays are "".
func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

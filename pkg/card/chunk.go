package card

import "slices"

// Segment is a bounded-width slice of a row: up to width values with the
// same number of annotations. Partial marks a segment shorter than width;
// only the last segment of a row can be partial.
type Segment struct {
	Values      []Cell       `json:"values"`
	Annotations []Annotation `json:"annotations"`
	Partial     bool         `json:"partial,omitempty"`
}

// Chunk splits row into consecutive segments of exactly width values, the
// final one holding the remainder. Annotations are paired by position and
// padded with blanks when the row carries fewer annotations than values.
//
// A width below one is clamped to one. An empty row yields no segments.
// Segments never alias the row's backing arrays.
func Chunk(row Row, width int) []Segment {
	width = max(width, 1)
	n := len(row.Values)
	if n == 0 {
		return nil
	}

	segs := make([]Segment, 0, (n+width-1)/width)
	for start := 0; start < n; start += width {
		end := min(start+width, n)
		anns := make([]Annotation, end-start)
		for i := start; i < end && i < len(row.Annotations); i++ {
			anns[i-start] = row.Annotations[i]
		}
		segs = append(segs, Segment{
			Values:      slices.Clone(row.Values[start:end]),
			Annotations: anns,
			Partial:     end-start < width,
		})
	}
	return segs
}

package card

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func makeRow(n, annotated int) Row {
	var r Row
	for i := 0; i < n; i++ {
		r.Values = append(r.Values, Cell{Text: strconv.Itoa(i), Tag: TagPos})
	}
	for i := 0; i < annotated; i++ {
		r.Annotations = append(r.Annotations, Annotation{Text: "t" + strconv.Itoa(i)})
	}
	return r
}

func TestChunkThirteenBySix(t *testing.T) {
	segs := Chunk(makeRow(13, 0), 6)

	var lengths []int
	var partial []bool
	for _, s := range segs {
		lengths = append(lengths, len(s.Values))
		partial = append(partial, s.Partial)
	}
	if diff := cmp.Diff([]int{6, 6, 1}, lengths); diff != "" {
		t.Errorf("segment lengths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, true}, partial); diff != "" {
		t.Errorf("partial flags (-want +got):\n%s", diff)
	}
}

func TestChunkProperties(t *testing.T) {
	for n := 0; n <= 20; n++ {
		for width := 1; width <= 15; width++ {
			row := makeRow(n, n/2)
			segs := Chunk(row, width)

			var joined []Cell
			partials := 0
			for i, s := range segs {
				joined = append(joined, s.Values...)
				if len(s.Values) == 0 || len(s.Values) > width {
					t.Fatalf("n=%d width=%d: segment %d has %d values", n, width, i, len(s.Values))
				}
				if len(s.Annotations) != len(s.Values) {
					t.Fatalf("n=%d width=%d: segment %d annotations %d != values %d",
						n, width, i, len(s.Annotations), len(s.Values))
				}
				if s.Partial != (len(s.Values) < width) {
					t.Fatalf("n=%d width=%d: segment %d partial=%v with %d values", n, width, i, s.Partial, len(s.Values))
				}
				if s.Partial {
					partials++
					if i != len(segs)-1 {
						t.Fatalf("n=%d width=%d: partial segment %d is not last", n, width, i)
					}
				}
			}

			if !cmp.Equal(row.Values, joined) {
				t.Fatalf("n=%d width=%d: chunking is not lossless", n, width)
			}
			if partials > 1 {
				t.Fatalf("n=%d width=%d: %d partial segments", n, width, partials)
			}
			if n%width == 0 && partials != 0 {
				t.Fatalf("n=%d width=%d: multiple of width must have no partial segment", n, width)
			}
		}
	}
}

func TestChunkPadsAnnotations(t *testing.T) {
	segs := Chunk(makeRow(5, 3), 3)

	want := [][]Annotation{
		{{Text: "t0"}, {Text: "t1"}, {Text: "t2"}},
		{{}, {}},
	}
	var got [][]Annotation
	for _, s := range segs {
		got = append(got, s.Annotations)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("annotations (-want +got):\n%s", diff)
	}
}

func TestChunkIgnoresExtraAnnotations(t *testing.T) {
	segs := Chunk(makeRow(2, 5), 4)
	if len(segs) != 1 || len(segs[0].Annotations) != 2 {
		t.Fatalf("got %+v, want one segment with two annotations", segs)
	}
}

func TestChunkEmptyRow(t *testing.T) {
	if segs := Chunk(Row{}, 6); len(segs) != 0 {
		t.Errorf("Chunk(empty) = %d segments, want 0", len(segs))
	}
	if segs := Chunk(Row{Annotations: []Annotation{{Text: "x"}}}, 6); len(segs) != 0 {
		t.Errorf("Chunk(annotations only) = %d segments, want 0", len(segs))
	}
}

func TestChunkClampsWidth(t *testing.T) {
	for _, width := range []int{0, -4} {
		segs := Chunk(makeRow(3, 0), width)
		if len(segs) != 3 {
			t.Errorf("width %d: got %d segments, want 3", width, len(segs))
		}
		for _, s := range segs {
			if s.Partial {
				t.Errorf("width %d: single-value segments must not be partial", width)
			}
		}
	}
}

func TestChunkDoesNotAlias(t *testing.T) {
	row := makeRow(4, 0)
	segs := Chunk(row, 2)
	segs[0].Values[0].Text = "changed"
	if row.Values[0].Text != "0" {
		t.Error("mutating a segment changed the source row")
	}
}

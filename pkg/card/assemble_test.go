package card

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssembleOrder(t *testing.T) {
	p := Normalize([]byte(`{
		"name": "Гравець",
		"detailsRozmin": "100|-40|30",
		"detailsRozrah": "250"
	}`))
	doc := Assemble(p, 6)

	var kinds []CardKind
	var titles []string
	for _, c := range doc.Cards {
		kinds = append(kinds, c.Kind)
		titles = append(titles, c.Title)
	}
	if diff := cmp.Diff([]CardKind{KindIdentity, KindTable, KindTable}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{IdentityTitle, RedistributionTitle, SettlementTitle}, titles); diff != "" {
		t.Errorf("titles (-want +got):\n%s", diff)
	}
	if doc.Columns != 6 {
		t.Errorf("Columns = %d, want 6", doc.Columns)
	}
}

func TestAssembleIdentityCard(t *testing.T) {
	p := Payload{Identity: &IdentityCard{
		Title: "Результат",
		Name:  "A",
		Entries: []Entry{
			{Label: "x", Value: "1", Tag: TagPos},
			{Label: "y", Value: "-1", Tag: TagNeg},
			{Label: "z", Value: "0", Tag: TagZero},
		},
	}}
	doc := Assemble(p, 6)

	want := []Card{{
		Kind:  KindIdentity,
		Title: "Результат",
		Pairs: []Pair{
			{Label: NameLabel, Value: "A", Class: ClassNeutral},
			{Label: "x", Value: "1", Class: ClassFavorable},
			{Label: "y", Value: "-1", Class: ClassUnfavorable},
			{Label: "z", Value: "0", Class: ClassNeutral},
		},
	}}
	if diff := cmp.Diff(want, doc.Cards); diff != "" {
		t.Errorf("cards (-want +got):\n%s", diff)
	}
}

func TestAssembleInvertedTable(t *testing.T) {
	doc := Assemble(Normalize([]byte(`{"detailsRozmin": "100 | -40 | -30 | 30"}`)), 5)

	want := []Card{{
		Kind:  KindTable,
		Title: RedistributionTitle,
		Tables: []Table{{
			Header: TotalHeader,
			Segments: []TableSegment{{
				Cells: []DisplayCell{
					{Text: "100", Class: ClassUnfavorable},
					{Text: "-40", Class: ClassFavorable},
					{Text: "-30", Class: ClassFavorable},
					{Text: "30", Class: ClassUnfavorable},
				},
				Partial: true,
			}},
		}},
	}}
	if diff := cmp.Diff(want, doc.Cards); diff != "" {
		t.Errorf("cards (-want +got):\n%s", diff)
	}
}

func TestAssembleAnnotationsAreRowLevel(t *testing.T) {
	row := Row{
		Values: []Cell{{Text: "1"}, {Text: "2"}, {Text: "3"}, {Text: "4"}},
		// Only the second segment carries a non-blank annotation.
		Annotations: []Annotation{{Text: ""}, {Text: " "}, {Text: "12:00"}},
	}
	p := Payload{Tables: []TableBlock{{Title: "T", Scheme: SchemeNormal, Rows: []Row{row}}}}
	doc := Assemble(p, 2)

	tbl := doc.Cards[0].Tables[0]
	if !tbl.Annotated {
		t.Fatal("table should be annotated")
	}
	want := [][]string{{"", " "}, {"12:00", ""}}
	var got [][]string
	for _, s := range tbl.Segments {
		got = append(got, s.Annotations)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("annotation lines (-want +got):\n%s", diff)
	}
}

func TestAssembleBlankAnnotationsOmitted(t *testing.T) {
	row := Row{
		Values:      []Cell{{Text: "1"}, {Text: "2"}},
		Annotations: []Annotation{{Text: ""}, {Text: "  "}},
	}
	p := Payload{Tables: []TableBlock{{Title: "T", Rows: []Row{row}}}}
	tbl := Assemble(p, 6).Cards[0].Tables[0]
	if tbl.Annotated {
		t.Error("all-blank annotations must not produce an annotation line")
	}
	if tbl.Segments[0].Annotations != nil {
		t.Errorf("Annotations = %v, want nil", tbl.Segments[0].Annotations)
	}
}

func TestAssembleOmitsEmptyBlocks(t *testing.T) {
	p := Payload{Tables: []TableBlock{
		{Title: "no rows"},
		{Title: "empty rows", Rows: []Row{{}, {Annotations: []Annotation{{Text: "x"}}}}},
		{Title: "kept", Rows: []Row{{}, {Values: []Cell{{Text: "1"}}}}},
	}}
	doc := Assemble(p, 3)

	if len(doc.Cards) != 1 {
		t.Fatalf("len(Cards) = %d, want 1", len(doc.Cards))
	}
	if doc.Cards[0].Title != "kept" || len(doc.Cards[0].Tables) != 1 {
		t.Errorf("card = %+v, want only the non-empty row of %q", doc.Cards[0], "kept")
	}
}

func TestAssembleMultipleRows(t *testing.T) {
	in := `{"blocks": {"rozrahunok": {"title": "Розрахунок", "rows": [
		{"values": [{"text": "1", "cls": "pos"}, {"text": "2", "cls": "neg"}, {"text": "3"}]},
		{"values": [{"text": "4", "cls": "neg"}], "times": [{"text": "21:40"}]}
	]}}}`
	doc := Assemble(Normalize([]byte(in)), 2)

	want := []Table{
		{Header: TotalHeader, Segments: []TableSegment{
			{Cells: []DisplayCell{{Text: "1", Class: ClassFavorable}, {Text: "2", Class: ClassUnfavorable}}},
			{Cells: []DisplayCell{{Text: "3", Class: ClassNeutral}}, Partial: true},
		}},
		{Header: TotalHeader, Annotated: true, Segments: []TableSegment{
			{Cells: []DisplayCell{{Text: "4", Class: ClassUnfavorable}}, Annotations: []string{"21:40"}, Partial: true},
		}},
	}
	if diff := cmp.Diff(want, doc.Cards[0].Tables); diff != "" {
		t.Errorf("tables (-want +got):\n%s", diff)
	}
}

func TestAssembleSegmentsAreNotPadded(t *testing.T) {
	p := Normalize([]byte(`{"detailsRozrah": "1|2|3|4|5|6|7|8|9|10|11|12|13"}`))
	doc := Assemble(p, 6)

	segs := doc.Cards[0].Tables[0].Segments
	var lens []int
	for i, seg := range segs {
		lens = append(lens, len(seg.Cells))
		if len(seg.Cells) > doc.Columns {
			t.Errorf("segment %d holds %d cells, more than Columns=%d", i, len(seg.Cells), doc.Columns)
		}
		if len(seg.Cells) < doc.Columns && i != len(segs)-1 {
			t.Errorf("segment %d is short but not last", i)
		}
	}
	if diff := cmp.Diff([]int{6, 6, 1}, lens); diff != "" {
		t.Errorf("segment lengths (-want +got):\n%s", diff)
	}
}

package card

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/akellamp2020-create/lamp-card-render/pkg/errors"
)

func TestNewEngine(t *testing.T) {
	tests := []struct {
		width   int
		wantErr bool
	}{
		{1, false},
		{DefaultChunkWidth, false},
		{0, true},
		{-1, true},
		{apperrors.MaxChunkWidth + 1, true},
	}

	for _, tt := range tests {
		e, err := NewEngine(tt.width)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewEngine(%d) error = %v, wantErr %v", tt.width, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrCodeConfigInvalid) {
				t.Errorf("NewEngine(%d) code = %v, want CONFIG_INVALID", tt.width, apperrors.GetCode(err))
			}
			continue
		}
		if e.Width() != tt.width {
			t.Errorf("Width() = %d, want %d", e.Width(), tt.width)
		}
	}
}

func TestEngineBuildEmpty(t *testing.T) {
	e, err := NewEngine(DefaultChunkWidth)
	if err != nil {
		t.Fatal(err)
	}
	doc := e.Build([]byte(`{}`))
	if !doc.Empty() {
		t.Errorf("Build({}) = %d cards, want 0", len(doc.Cards))
	}
}

func TestEngineConcurrentUse(t *testing.T) {
	e, err := NewEngine(3)
	if err != nil {
		t.Fatal(err)
	}
	payload := []byte(`{"name": "A", "detailsRozmin": "1|2|3|4|5|6|7", "detailsRozrah": "8|9"}`)
	want := e.Build(payload)

	var wg sync.WaitGroup
	docs := make([]Document, 16)
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			docs[i] = e.Build(payload)
		}(i)
	}
	wg.Wait()

	for i, d := range docs {
		if diff := cmp.Diff(want, d); diff != "" {
			t.Errorf("document %d differs (-want +got):\n%s", i, diff)
		}
	}
}

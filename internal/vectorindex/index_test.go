package vectorindex

import (
	"errors"
	"testing"

	"github.com/peakform/recohub/internal/domain"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := New(2)
	vectors := []struct {
		id  int64
		vec []float32
	}{
		{10, []float32{0, 0}},
		{11, []float32{1, 0}},
		{12, []float32{3, 4}},
	}
	for _, v := range vectors {
		if err := idx.Add(v.id, v.vec); err != nil {
			t.Fatalf("Add(%d): %v", v.id, err)
		}
	}
	return idx
}

func TestSearch_NearestFirst(t *testing.T) {
	idx := buildTestIndex(t)

	positions, err := idx.Search([]float32{0.4, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 1, 2}
	for i, pos := range positions {
		if pos != want[i] {
			t.Errorf("positions[%d] = %d, want %d", i, pos, want[i])
		}
	}
}

func TestSearch_PadsWithNoResult(t *testing.T) {
	idx := buildTestIndex(t)

	positions, err := idx.Search([]float32{0, 0}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(positions))
	}
	if positions[3] != NoResult || positions[4] != NoResult {
		t.Errorf("slots past index size must hold NoResult, got %v", positions)
	}
}

func TestSearchIDs_SkipsNoResult(t *testing.T) {
	idx := buildTestIndex(t)

	ids, err := idx.SearchIDs([]float32{0, 0}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{10, 11, 12}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, id, want[i])
		}
	}
}

func TestAdd_DimensionMismatch(t *testing.T) {
	idx := New(3)
	err := idx.Add(1, []float32{1, 2})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx := buildTestIndex(t)
	_, err := idx.Search([]float32{1}, 3)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearch_ZeroK(t *testing.T) {
	idx := buildTestIndex(t)
	positions, err := idx.Search([]float32{0, 0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("k=0 must return no slots, got %v", positions)
	}
}

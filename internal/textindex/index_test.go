package textindex

import (
	"errors"
	"math"
	"testing"

	"github.com/peakform/recohub/internal/corpus"
	"github.com/peakform/recohub/internal/domain"
)

func testDocs() []corpus.Document {
	return []corpus.Document{
		{ProductID: 1, Text: "whey protein chocolate shake"},
		{ProductID: 2, Text: "whey protein vanilla shake"},
		{ProductID: 3, Text: "creatine monohydrate powder"},
		{ProductID: 4, Text: "creatine monohydrate capsules"},
	}
}

func TestBuild_MatrixShape(t *testing.T) {
	idx, err := Build(testDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Size() != 4 {
		t.Fatalf("size = %d, want 4", idx.Size())
	}

	for i := range idx.Matrix {
		if math.Abs(idx.Matrix[i][i]-1.0) > 1e-9 {
			t.Errorf("diagonal [%d][%d] = %v, want 1.0", i, i, idx.Matrix[i][i])
		}
		for j := range idx.Matrix[i] {
			if idx.Matrix[i][j] != idx.Matrix[j][i] {
				t.Errorf("matrix not symmetric at [%d][%d]", i, j)
			}
		}
	}
}

func TestBuild_EmptyCorpus(t *testing.T) {
	_, err := Build(nil)
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestSimilar_RanksSharedVocabularyFirst(t *testing.T) {
	idx, err := Build(testDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := idx.Similar(1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ids))
	}
	if ids[0] != 2 {
		t.Errorf("most similar to product 1 should be 2, got %d", ids[0])
	}
	for _, id := range ids {
		if id == 1 {
			t.Error("results must exclude the query product itself")
		}
	}
}

func TestSimilar_CapsAtTopN(t *testing.T) {
	idx, err := Build(testDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := idx.Similar(3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ids))
	}
	if ids[0] != 4 {
		t.Errorf("most similar to product 3 should be 4, got %d", ids[0])
	}
}

func TestSimilar_UnknownProduct(t *testing.T) {
	idx, err := Build(testDocs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = idx.Similar(99, 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSimilar_SingleDocument(t *testing.T) {
	idx, err := Build([]corpus.Document{{ProductID: 1, Text: "whey"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := idx.Similar(1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("single-row index has nothing similar, got %v", ids)
	}
}

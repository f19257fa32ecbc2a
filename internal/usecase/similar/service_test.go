package similar

import (
	"context"
	"errors"
	"testing"

	"github.com/peakform/recohub/internal/corpus"
	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/textindex"
)

type mockIndex struct {
	idx *textindex.Index
	err error
}

func (m *mockIndex) Get() (*textindex.Index, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.idx, nil
}

func builtIndex(t *testing.T) *textindex.Index {
	t.Helper()
	idx, err := textindex.Build([]corpus.Document{
		{ProductID: 1, Text: "whey protein shake"},
		{ProductID: 2, Text: "whey protein bar"},
		{ProductID: 3, Text: "creatine powder"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return idx
}

func TestSimilar_ReturnsRankedIDs(t *testing.T) {
	svc := New(&mockIndex{idx: builtIndex(t)})

	ids, err := svc.Similar(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 2 {
		t.Errorf("most similar to 1 should be 2, got %v", ids)
	}
}

func TestSimilar_DefaultTopN(t *testing.T) {
	svc := New(&mockIndex{idx: builtIndex(t)})

	ids, err := svc.Similar(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) == 0 || len(ids) > DefaultTopN {
		t.Errorf("expected up to %d results, got %d", DefaultTopN, len(ids))
	}
}

func TestSimilar_NoArtifact(t *testing.T) {
	svc := New(&mockIndex{err: domain.ErrUnavailable})

	_, err := svc.Similar(context.Background(), 1, 5)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSimilar_UnknownProduct(t *testing.T) {
	svc := New(&mockIndex{idx: builtIndex(t)})

	_, err := svc.Similar(context.Background(), 99, 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

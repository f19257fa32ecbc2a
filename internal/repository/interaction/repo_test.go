package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/peakform/recohub/internal/db"
	"github.com/peakform/recohub/internal/domain"
)

// mockStore is an in-memory stand-in for the Redis list and sorted set.
type mockStore struct {
	lists  map[string][]string
	scores map[string]map[string]float64
}

func newMockStore() *mockStore {
	return &mockStore{
		lists:  make(map[string][]string),
		scores: make(map[string]map[string]float64),
	}
}

func (m *mockStore) RPush(_ context.Context, key string, values ...string) error {
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *mockStore) LRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	return m.lists[key], nil
}

func (m *mockStore) ZIncrBy(_ context.Context, key, member string, delta float64) error {
	if m.scores[key] == nil {
		m.scores[key] = make(map[string]float64)
	}
	m.scores[key][member] += delta
	return nil
}

func (m *mockStore) ZRevRangeWithScores(_ context.Context, key string, _, stop int64) ([]db.ScoredMember, error) {
	var out []db.ScoredMember
	for member, score := range m.scores[key] {
		out = append(out, db.ScoredMember{Member: member, Score: score})
	}
	if int64(len(out)) > stop+1 {
		out = out[:stop+1]
	}
	return out, nil
}

func TestAppend_RoundTrip(t *testing.T) {
	store := newMockStore()
	repo := New(store, "test:")

	ev := domain.Interaction{
		UserID:    7,
		ProductID: 42,
		Type:      domain.InteractionView,
		Timestamp: time.Unix(1700000000, 0),
	}
	if err := repo.Append(context.Background(), ev); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.UserID != 7 || got.ProductID != 42 || got.Type != domain.InteractionView {
		t.Errorf("event = %+v", got)
	}
	if !got.Timestamp.Equal(ev.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, ev.Timestamp)
	}
}

func TestAppend_PurchaseBumpsCount(t *testing.T) {
	store := newMockStore()
	repo := New(store, "test:")

	events := []domain.Interaction{
		{UserID: 1, ProductID: 42, Type: domain.InteractionPurchase},
		{UserID: 2, ProductID: 42, Type: domain.InteractionPurchase},
		{UserID: 3, ProductID: 42, Type: domain.InteractionView},
	}
	for _, ev := range events {
		if err := repo.Append(context.Background(), ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	counts, err := repo.TopPurchased(context.Background(), 10)
	if err != nil {
		t.Fatalf("top purchased: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("expected 1 counted product, got %d", len(counts))
	}
	if counts[0].ProductID != 42 || counts[0].Count != 2 {
		t.Errorf("count = %+v, want product 42 with 2 purchases", counts[0])
	}
}

func TestTopPurchased_ZeroTopN(t *testing.T) {
	repo := New(newMockStore(), "test:")

	counts, err := repo.TopPurchased(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts != nil {
		t.Errorf("topN 0 must return nothing, got %v", counts)
	}
}

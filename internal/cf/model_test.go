package cf

import (
	"errors"
	"math"
	"testing"

	"github.com/peakform/recohub/internal/domain"
)

func testRatings() []Rating {
	// Users 1 and 2 like products 10/11, user 3 likes 20/21.
	return []Rating{
		{UserID: 1, ProductID: 10, Value: 5},
		{UserID: 1, ProductID: 11, Value: 5},
		{UserID: 2, ProductID: 10, Value: 5},
		{UserID: 2, ProductID: 20, Value: 1},
		{UserID: 3, ProductID: 20, Value: 5},
		{UserID: 3, ProductID: 21, Value: 5},
	}
}

func TestTrain_EmptyInput(t *testing.T) {
	_, err := Train(nil, DefaultHyperparams())
	if !errors.Is(err, domain.ErrNoInteractions) {
		t.Fatalf("expected ErrNoInteractions, got %v", err)
	}
}

func TestTrain_Deterministic(t *testing.T) {
	hp := DefaultHyperparams()
	m1, err := Train(testRatings(), hp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := Train(testRatings(), hp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m1.Predict(1, 21) != m2.Predict(1, 21) {
		t.Error("same seed and data must produce identical predictions")
	}
}

func TestPredict_Bounds(t *testing.T) {
	m, err := Train(testRatings(), DefaultHyperparams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range testRatings() {
		est := m.Predict(r.UserID, r.ProductID)
		if est < 1 || est > 5 {
			t.Errorf("Predict(%d, %d) = %v, outside [1, 5]", r.UserID, r.ProductID, est)
		}
	}
}

func TestPredict_FitsTrainset(t *testing.T) {
	m, err := Train(testRatings(), DefaultHyperparams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The model should at least separate user 2's loved and disliked items.
	liked := m.Predict(2, 10)
	disliked := m.Predict(2, 20)
	if liked <= disliked {
		t.Errorf("expected Predict(2,10)=%v > Predict(2,20)=%v", liked, disliked)
	}
}

func TestPredict_UnknownUserFallsBackToMean(t *testing.T) {
	m, err := Train(testRatings(), DefaultHyperparams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	est := m.Predict(99, 999)
	if math.Abs(est-m.GlobalMean) > 1e-9 {
		t.Errorf("unknown pair should predict the global mean %v, got %v", m.GlobalMean, est)
	}
}

func TestKnownUser(t *testing.T) {
	m, err := Train(testRatings(), DefaultHyperparams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.KnownUser(1) {
		t.Error("user 1 is in the trainset")
	}
	if m.KnownUser(99) {
		t.Error("user 99 is not in the trainset")
	}
}

func TestCandidates_ExcludeObserved(t *testing.T) {
	m, err := Train(testRatings(), DefaultHyperparams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cands := m.Candidates(1)
	want := []int64{20, 21}
	if len(cands) != len(want) {
		t.Fatalf("candidates = %v, want %v", cands, want)
	}
	for i := range want {
		if cands[i] != want[i] {
			t.Fatalf("candidates = %v, want %v", cands, want)
		}
	}
}

func TestCandidates_UnknownUserGetsEverything(t *testing.T) {
	m, err := Train(testRatings(), DefaultHyperparams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cands := m.Candidates(99)
	if len(cands) != 4 {
		t.Errorf("unknown user should get all 4 items as candidates, got %v", cands)
	}
}

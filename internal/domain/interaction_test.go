package domain

import "testing"

func TestInteractionWeight(t *testing.T) {
	cases := []struct {
		typ  InteractionType
		want float64
	}{
		{InteractionView, 1},
		{InteractionAddToCart, 3},
		{InteractionPurchase, 5},
		{InteractionType("BOGUS"), 0},
	}
	for _, c := range cases {
		if got := c.typ.Weight(); got != c.want {
			t.Errorf("Weight(%s) = %v, want %v", c.typ, got, c.want)
		}
	}
}

func TestCollapseInteractions_MaxNotSum(t *testing.T) {
	events := []Interaction{
		{UserID: 1, ProductID: 10, Type: InteractionView},
		{UserID: 1, ProductID: 10, Type: InteractionPurchase},
		{UserID: 1, ProductID: 10, Type: InteractionView},
		{UserID: 1, ProductID: 10, Type: InteractionAddToCart},
	}

	signals := CollapseInteractions(events)
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	if got := signals[[2]int64{1, 10}]; got != 5 {
		t.Errorf("repeated events must collapse to max weight 5, got %v", got)
	}
}

func TestCollapseInteractions_SeparatePairs(t *testing.T) {
	events := []Interaction{
		{UserID: 1, ProductID: 10, Type: InteractionView},
		{UserID: 1, ProductID: 11, Type: InteractionAddToCart},
		{UserID: 2, ProductID: 10, Type: InteractionPurchase},
		{UserID: 3, ProductID: 12, Type: InteractionType("BOGUS")},
	}

	signals := CollapseInteractions(events)
	if len(signals) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(signals))
	}
	if signals[[2]int64{1, 10}] != 1 || signals[[2]int64{1, 11}] != 3 || signals[[2]int64{2, 10}] != 5 {
		t.Errorf("unexpected signals: %v", signals)
	}
	if _, ok := signals[[2]int64{3, 12}]; ok {
		t.Error("unknown event types must be ignored")
	}
}

func TestFeedbackSentimentLabel(t *testing.T) {
	cases := []struct {
		rating int
		want   SentimentLabel
	}{
		{5, SentimentPositive},
		{4, SentimentPositive},
		{3, SentimentNeutral},
		{2, SentimentNegative},
		{1, SentimentNegative},
	}
	for _, c := range cases {
		fb := Feedback{Rating: c.rating}
		if got := fb.SentimentLabel(); got != c.want {
			t.Errorf("rating %d: got %s, want %s", c.rating, got, c.want)
		}
	}
}

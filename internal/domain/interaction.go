package domain

import "time"

// InteractionType enumerates the implicit-feedback event kinds.
type InteractionType string

const (
	InteractionView      InteractionType = "VIEW"
	InteractionAddToCart InteractionType = "ADD_TO_CART"
	InteractionPurchase  InteractionType = "PURCHASE"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionAddToCart, InteractionPurchase:
		return true
	}
	return false
}

// Weight returns the implicit training signal for this event type.
// Unknown types carry no signal.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionView:
		return 1.0
	case InteractionAddToCart:
		return 3.0
	case InteractionPurchase:
		return 5.0
	}
	return 0
}

// Interaction is one append-only user/product event.
type Interaction struct {
	UserID    int64
	ProductID int64
	Type      InteractionType
	Timestamp time.Time
}

// CollapseInteractions reduces raw events to one training signal per
// (user, product) pair, keeping the max weight among the pair's events.
func CollapseInteractions(events []Interaction) map[[2]int64]float64 {
	signals := make(map[[2]int64]float64)
	for _, ev := range events {
		w := ev.Type.Weight()
		if w == 0 {
			continue
		}
		key := [2]int64{ev.UserID, ev.ProductID}
		if w > signals[key] {
			signals[key] = w
		}
	}
	return signals
}

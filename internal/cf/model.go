// Package cf implements the collaborative-filtering artifact: a latent-factor
// matrix-factorization model trained by stochastic gradient descent on
// implicit-weighted interaction events, together with the trainset structure
// needed to translate raw IDs and recall already-observed pairs.
package cf

import (
	"math/rand"
	"sort"

	"github.com/peakform/recohub/internal/domain"
)

// Hyperparams are tuning knobs for training, not contracts.
type Hyperparams struct {
	Factors        int
	Epochs         int
	LearningRate   float64
	Regularization float64
	Seed           int64
}

// DefaultHyperparams mirror the production tuning.
func DefaultHyperparams() Hyperparams {
	return Hyperparams{
		Factors:        50,
		Epochs:         30,
		LearningRate:   0.005,
		Regularization: 0.04,
		Seed:           42,
	}
}

// Rating is one collapsed (user, product) training signal on the 1..5 scale.
type Rating struct {
	UserID    int64
	ProductID int64
	Value     float64
}

const (
	ratingMin = 1.0
	ratingMax = 5.0
)

// Model is the fitted artifact. Exported fields survive gob round-trips.
// Immutable after training.
type Model struct {
	GlobalMean  float64
	UserIndex   map[int64]int
	ItemIndex   map[int64]int
	ItemIDs     []int64 // inner item index -> raw product ID
	UserBias    []float64
	ItemBias    []float64
	UserFactors [][]float64
	ItemFactors [][]float64
	// Observed holds, per raw user ID, the raw product IDs present in the
	// trainset. Observed pairs are excluded from recommendation candidates.
	Observed map[int64]map[int64]bool
}

// Train fits a biased matrix-factorization model by SGD.
func Train(ratings []Rating, hp Hyperparams) (*Model, error) {
	if len(ratings) == 0 {
		return nil, domain.ErrNoInteractions
	}

	m := &Model{
		UserIndex: make(map[int64]int),
		ItemIndex: make(map[int64]int),
		Observed:  make(map[int64]map[int64]bool),
	}

	var sum float64
	for _, r := range ratings {
		sum += r.Value
		if _, ok := m.UserIndex[r.UserID]; !ok {
			m.UserIndex[r.UserID] = len(m.UserIndex)
		}
		if _, ok := m.ItemIndex[r.ProductID]; !ok {
			m.ItemIndex[r.ProductID] = len(m.ItemIndex)
			m.ItemIDs = append(m.ItemIDs, r.ProductID)
		}
		seen := m.Observed[r.UserID]
		if seen == nil {
			seen = make(map[int64]bool)
			m.Observed[r.UserID] = seen
		}
		seen[r.ProductID] = true
	}
	m.GlobalMean = sum / float64(len(ratings))

	nUsers, nItems := len(m.UserIndex), len(m.ItemIndex)
	rng := rand.New(rand.NewSource(hp.Seed))
	m.UserBias = make([]float64, nUsers)
	m.ItemBias = make([]float64, nItems)
	m.UserFactors = randFactors(rng, nUsers, hp.Factors)
	m.ItemFactors = randFactors(rng, nItems, hp.Factors)

	lr, reg := hp.LearningRate, hp.Regularization
	for epoch := 0; epoch < hp.Epochs; epoch++ {
		for _, r := range ratings {
			u := m.UserIndex[r.UserID]
			i := m.ItemIndex[r.ProductID]
			pu, qi := m.UserFactors[u], m.ItemFactors[i]

			pred := m.GlobalMean + m.UserBias[u] + m.ItemBias[i] + dot(pu, qi)
			err := r.Value - pred

			m.UserBias[u] += lr * (err - reg*m.UserBias[u])
			m.ItemBias[i] += lr * (err - reg*m.ItemBias[i])
			for f := range pu {
				puf := pu[f]
				pu[f] += lr * (err*qi[f] - reg*puf)
				qi[f] += lr * (err*puf - reg*qi[f])
			}
		}
	}
	return m, nil
}

// KnownUser reports whether the user was present in the trainset. An unknown
// user is the cold-start case, not an error.
func (m *Model) KnownUser(userID int64) bool {
	_, ok := m.UserIndex[userID]
	return ok
}

// Predict estimates the affinity of (user, product) on the 1..5 scale,
// clamped to the rating bounds. Unknown users or items fall back to the
// global mean plus whatever bias is known.
func (m *Model) Predict(userID, productID int64) float64 {
	est := m.GlobalMean
	u, knownUser := m.UserIndex[userID]
	i, knownItem := m.ItemIndex[productID]
	if knownUser {
		est += m.UserBias[u]
	}
	if knownItem {
		est += m.ItemBias[i]
	}
	if knownUser && knownItem {
		est += dot(m.UserFactors[u], m.ItemFactors[i])
	}
	if est < ratingMin {
		est = ratingMin
	}
	if est > ratingMax {
		est = ratingMax
	}
	return est
}

// Candidates returns all trainset products the user has not observed,
// sorted by ascending product ID.
func (m *Model) Candidates(userID int64) []int64 {
	seen := m.Observed[userID]
	out := make([]int64, 0, len(m.ItemIDs))
	for _, id := range m.ItemIDs {
		if !seen[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func randFactors(rng *rand.Rand, n, factors int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, factors)
		for f := range row {
			row[f] = rng.NormFloat64() * 0.1
		}
		out[i] = row
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Package recommend serves personalized (collaborative-filtering) and
// popularity-based product rankings, including the for-you fallback chain.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/domain"
)

// DefaultTopN is the recommendation count when the caller does not ask for one.
const DefaultTopN = 10

// Service answers for-you and popularity queries.
type Service struct {
	model     ModelProvider
	catalog   CatalogReader
	purchases PurchaseRanker
	logger    *zap.Logger
}

// New creates a recommendation service.
func New(model ModelProvider, catalog CatalogReader, purchases PurchaseRanker, logger *zap.Logger) *Service {
	return &Service{model: model, catalog: catalog, purchases: purchases, logger: logger}
}

// Personalized returns up to topN product IDs for the user. CF unavailability,
// cold start, and an empty CF result all degrade to the popularity ranking;
// the caller never sees those as failures.
func (s *Service) Personalized(ctx context.Context, userID int64, topN int) ([]int64, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ids, err := s.collaborative(ctx, userID, topN)
	if err != nil {
		if !errors.Is(err, domain.ErrUnavailable) {
			return nil, err
		}
		s.logger.Warn("CF model unavailable, falling back to popularity", zap.Int64("user_id", userID))
		return s.Popular(ctx, topN)
	}
	if len(ids) == 0 {
		return s.Popular(ctx, topN)
	}
	return ids, nil
}

// collaborative implements the CF recommendation contract: empty result (not
// error) for cold-start users and for users who have seen everything; only
// active products are scored; ties break by ascending product ID.
func (s *Service) collaborative(ctx context.Context, userID int64, topN int) ([]int64, error) {
	model, err := s.model.Get()
	if err != nil {
		return nil, fmt.Errorf("cf model: %w", err)
	}

	if !model.KnownUser(userID) {
		// Cold start: no personalized signal, not an error.
		return nil, nil
	}

	candidates := model.Candidates(userID)
	if len(candidates) == 0 {
		return nil, nil
	}

	active, err := s.catalog.ActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("active products: %w", err)
	}

	type scored struct {
		id    int64
		score float64
	}
	preds := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := active[id]; !ok {
			continue
		}
		preds = append(preds, scored{id: id, score: model.Predict(userID, id)})
	}

	sort.Slice(preds, func(i, j int) bool {
		if preds[i].score != preds[j].score {
			return preds[i].score > preds[j].score
		}
		return preds[i].id < preds[j].id
	})

	if len(preds) > topN {
		preds = preds[:topN]
	}
	out := make([]int64, len(preds))
	for i, p := range preds {
		out[i] = p.id
	}
	return out, nil
}

// Popular returns up to topN product IDs by descending purchase count, ties
// broken by ascending product ID. With no purchase history at all it falls
// back to the first topN products in default catalog order.
func (s *Service) Popular(ctx context.Context, topN int) ([]int64, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	counts, err := s.purchases.TopPurchased(ctx, topN)
	if err != nil {
		return nil, fmt.Errorf("purchase counts: %w", err)
	}

	if len(counts) == 0 {
		products, err := s.catalog.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("active products: %w", err)
		}
		if len(products) > topN {
			products = products[:topN]
		}
		out := make([]int64, len(products))
		for i, p := range products {
			out[i] = p.ID
		}
		return out, nil
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].ProductID < counts[j].ProductID
	})

	out := make([]int64, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.ProductID)
	}
	return out, nil
}

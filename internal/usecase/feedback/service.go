// Package feedback handles feedback submission: at most one record per
// (user, product), with the product's rating aggregate recomputed
// synchronously on every write.
package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/peakform/recohub/internal/domain"
)

// Service handles feedback writes.
type Service struct {
	repo    Repository
	catalog CatalogWriter
}

// New creates a feedback service.
func New(repo Repository, catalog CatalogWriter) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Submit validates and stores feedback, overwriting any previous record from
// the same (user, product) pair, then recomputes the product's aggregate
// rating. Returns whether a new record was created.
func (s *Service) Submit(ctx context.Context, fb domain.Feedback) (bool, error) {
	if fb.Rating < 1 || fb.Rating > 5 {
		return false, fmt.Errorf("%w: rating must be 1..5, got %d", domain.ErrInvalidInput, fb.Rating)
	}
	if fb.UserID == 0 || fb.ProductID == 0 {
		return false, fmt.Errorf("%w: user_id and product_id are required", domain.ErrInvalidInput)
	}
	if _, err := s.catalog.Get(ctx, fb.ProductID); err != nil {
		return false, fmt.Errorf("product %d: %w", fb.ProductID, err)
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}

	created, err := s.repo.Upsert(ctx, fb)
	if err != nil {
		return false, fmt.Errorf("store feedback: %w", err)
	}

	if err := s.recomputeAggregate(ctx, fb.ProductID); err != nil {
		return created, err
	}
	return created, nil
}

func (s *Service) recomputeAggregate(ctx context.Context, productID int64) error {
	records, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("list feedback: %w", err)
	}

	agg := domain.RatingAggregate{Count: len(records)}
	if agg.Count > 0 {
		var sum int
		for _, fb := range records {
			sum += fb.Rating
		}
		agg.Average = float64(sum) / float64(agg.Count)
	}

	if err := s.catalog.UpdateRatingAggregate(ctx, productID, agg); err != nil {
		return fmt.Errorf("update aggregate: %w", err)
	}
	return nil
}

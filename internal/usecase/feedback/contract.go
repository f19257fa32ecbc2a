package feedback

import (
	"context"

	"github.com/peakform/recohub/internal/domain"
)

// Repository persists feedback records.
type Repository interface {
	Upsert(ctx context.Context, fb domain.Feedback) (created bool, err error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error)
}

// CatalogWriter updates the denormalized rating aggregate on a product.
type CatalogWriter interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
	UpdateRatingAggregate(ctx context.Context, productID int64, agg domain.RatingAggregate) error
}

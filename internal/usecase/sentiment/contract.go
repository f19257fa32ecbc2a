package sentiment

import (
	"context"

	"github.com/peakform/recohub/internal/domain"
	sentmodel "github.com/peakform/recohub/internal/sentiment"
)

// PipelineProvider returns the currently published sentiment artifact.
type PipelineProvider interface {
	Get() (*sentmodel.Pipeline, error)
}

// FeedbackReader reads feedback records for one product.
type FeedbackReader interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error)
}

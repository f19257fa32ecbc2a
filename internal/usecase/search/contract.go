package search

import (
	"context"

	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/vectorindex"
)

// IndexProvider returns the currently published semantic vector artifact.
type IndexProvider interface {
	Get() (*vectorindex.Index, error)
}

// Encoder vectorizes query text with the same model used at index build time.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// CatalogReader reads the active-product read model.
type CatalogReader interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
}

package recommend

import (
	"context"

	"github.com/peakform/recohub/internal/cf"
	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/repository/interaction"
)

// ModelProvider returns the currently published CF artifact.
type ModelProvider interface {
	Get() (*cf.Model, error)
}

// CatalogReader reads the active-product read model.
type CatalogReader interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	ActiveIDs(ctx context.Context) (map[int64]struct{}, error)
}

// PurchaseRanker supplies the purchase-count aggregate for popularity ranking.
type PurchaseRanker interface {
	TopPurchased(ctx context.Context, topN int) ([]interaction.PurchaseCount, error)
}

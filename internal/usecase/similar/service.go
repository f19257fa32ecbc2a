// Package similar serves content-based similar-product queries over the
// precomputed similarity matrix.
package similar

import (
	"context"
	"fmt"
)

// DefaultTopN is the similar-product count when the caller does not ask for one.
const DefaultTopN = 5

// Service answers similar-product queries.
type Service struct {
	index IndexProvider
}

// New creates a similar-products service.
func New(index IndexProvider) *Service {
	return &Service{index: index}
}

// Similar returns up to topN product IDs ordered by descending content
// similarity. Propagates ErrUnavailable when no artifact is published and
// ErrNotFound when the product is not in the index — callers map these to
// distinct responses.
func (s *Service) Similar(_ context.Context, productID int64, topN int) ([]int64, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	idx, err := s.index.Get()
	if err != nil {
		return nil, fmt.Errorf("similarity index: %w", err)
	}

	ids, err := idx.Similar(productID, topN)
	if err != nil {
		return nil, fmt.Errorf("similar products for %d: %w", productID, err)
	}
	return ids, nil
}

// Package vectorindex implements a flat (brute-force) L2 nearest-neighbor
// index over sentence embeddings, with a positional map from index rows to
// product IDs.
package vectorindex

import (
	"fmt"
	"sort"

	"github.com/peakform/recohub/internal/domain"
)

// NoResult marks an empty search slot when the index holds fewer than k vectors.
const NoResult = -1

// Index is the semantic search artifact. Positional: vector i belongs to
// ProductIDs[i], in build-time iteration order. Immutable once built.
type Index struct {
	Dim        int
	Vectors    [][]float32
	ProductIDs []int64
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) *Index {
	return &Index{Dim: dim}
}

// Add appends one product vector. The (position, product ID) pairing is
// fixed at insert time.
func (idx *Index) Add(productID int64, vec []float32) error {
	if len(vec) != idx.Dim {
		return fmt.Errorf("%w: vector dim %d, index dim %d", domain.ErrInvalidInput, len(vec), idx.Dim)
	}
	idx.Vectors = append(idx.Vectors, vec)
	idx.ProductIDs = append(idx.ProductIDs, productID)
	return nil
}

// Size returns the number of stored vectors.
func (idx *Index) Size() int { return len(idx.Vectors) }

// Search returns the positions of the k nearest vectors by squared L2
// distance, nearest first. Slots beyond the index size hold NoResult.
// Ties keep insertion order.
func (idx *Index) Search(query []float32, k int) ([]int, error) {
	if len(query) != idx.Dim {
		return nil, fmt.Errorf("%w: query dim %d, index dim %d", domain.ErrInvalidInput, len(query), idx.Dim)
	}
	if k <= 0 {
		return nil, nil
	}

	type hit struct {
		pos  int
		dist float32
	}
	hits := make([]hit, len(idx.Vectors))
	for i, v := range idx.Vectors {
		hits[i] = hit{pos: i, dist: sqDistance(query, v)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]int, k)
	for i := range out {
		if i < len(hits) {
			out[i] = hits[i].pos
		} else {
			out[i] = NoResult
		}
	}
	return out, nil
}

// SearchIDs runs Search and maps positions to product IDs, skipping NoResult
// slots. Result order follows ascending distance.
func (idx *Index) SearchIDs(query []float32, k int) ([]int64, error) {
	positions, err := idx.Search(query, k)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(positions))
	for _, pos := range positions {
		if pos == NoResult || pos >= len(idx.ProductIDs) {
			continue
		}
		out = append(out, idx.ProductIDs[pos])
	}
	return out, nil
}

// sqDistance returns squared Euclidean distance. Square roots do not change
// the ranking, so they are skipped.
func sqDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

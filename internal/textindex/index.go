// Package textindex builds and queries the content-based similarity index:
// TF-IDF vectors over the product corpus and their pairwise cosine
// similarity matrix.
package textindex

import (
	"sort"

	"github.com/peakform/recohub/internal/corpus"
	"github.com/peakform/recohub/internal/domain"
)

// Index is the precomputed product-to-product similarity artifact.
// Immutable once built; rebuild means wholesale replacement.
type Index struct {
	// Matrix[i][j] is the cosine similarity between documents i and j.
	// Symmetric, with 1.0 on the diagonal.
	Matrix [][]float64
	// RowToID maps a matrix row to its product ID.
	RowToID []int64
	// IDToRow is the inverse mapping.
	IDToRow map[int64]int
}

// Build fits a TF-IDF vectorizer over the corpus (terms in fewer than two
// documents are dropped) and computes the full pairwise cosine matrix.
func Build(docs []corpus.Document) (*Index, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vec := NewVectorizer(VectorizerOptions{MinDocFreq: 2})
	if err := vec.Fit(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float64, len(texts))
	for i, t := range texts {
		vectors[i] = vec.Transform(t)
	}

	n := len(vectors)
	idx := &Index{
		Matrix:  make([][]float64, n),
		RowToID: make([]int64, n),
		IDToRow: make(map[int64]int, n),
	}
	for i := range vectors {
		idx.RowToID[i] = docs[i].ProductID
		idx.IDToRow[docs[i].ProductID] = i
		idx.Matrix[i] = make([]float64, n)
	}

	// Vectors are L2-normalized, so cosine similarity is a plain dot product.
	// A document with no in-vocabulary terms is still similar to itself.
	for i := 0; i < n; i++ {
		idx.Matrix[i][i] = 1.0
		for j := i + 1; j < n; j++ {
			s := dot(vectors[i], vectors[j])
			idx.Matrix[i][j] = s
			idx.Matrix[j][i] = s
		}
	}
	return idx, nil
}

// Similar returns up to topN product IDs ordered by descending similarity to
// productID, excluding productID itself. Ties keep original row order.
// Returns ErrNotFound when the product is absent from the index, and an
// empty list when the index has fewer than two rows.
func (idx *Index) Similar(productID int64, topN int) ([]int64, error) {
	row, ok := idx.IDToRow[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if len(idx.Matrix) < 2 || topN <= 0 {
		return nil, nil
	}

	type scored struct {
		row   int
		score float64
	}
	others := make([]scored, 0, len(idx.Matrix)-1)
	for i, s := range idx.Matrix[row] {
		if i == row {
			continue
		}
		others = append(others, scored{row: i, score: s})
	}

	sort.SliceStable(others, func(i, j int) bool { return others[i].score > others[j].score })

	if len(others) > topN {
		others = others[:topN]
	}
	out := make([]int64, len(others))
	for i, s := range others {
		out[i] = idx.RowToID[s.row]
	}
	return out, nil
}

// Size returns the number of indexed products.
func (idx *Index) Size() int { return len(idx.RowToID) }

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

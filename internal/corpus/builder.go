// Package corpus turns catalog rows into per-product text documents for the
// text and vector indexes.
package corpus

import (
	"strings"

	"github.com/peakform/recohub/internal/domain"
)

// Document is one product's composite text.
type Document struct {
	ProductID int64
	Name      string
	Text      string
}

// Build produces one document per product: name, description, category name,
// brand name, and space-joined ingredient names. Products with no usable text
// still get an empty document so index rows stay aligned with product IDs.
// Fails on an empty product set; no index may be built over zero documents.
func Build(products []domain.Product) ([]Document, error) {
	if len(products) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	docs := make([]Document, len(products))
	for i, p := range products {
		parts := []string{
			p.Name,
			p.Description,
			p.CategoryName,
			p.BrandName,
			strings.Join(p.IngredientNames, " "),
		}
		docs[i] = Document{
			ProductID: p.ID,
			Name:      p.Name,
			Text:      strings.TrimSpace(strings.Join(parts, " ")),
		}
	}
	return docs, nil
}

package catalog

import (
	"strconv"
	"strings"

	"github.com/peakform/recohub/internal/domain"
)

// Hash field names for the product read model published by the web layer.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldCategoryID  = "category_id"
	fieldBrandID     = "brand_id"
	fieldCategory    = "category"
	fieldBrand       = "brand"
	fieldIngredients = "ingredients"
	fieldPrice       = "price"
	fieldRatingCount = "rating_count"
	fieldRatingAvg   = "rating_avg"
	fieldActive      = "active"
)

// ingredientSep joins ingredient names inside a single hash field.
const ingredientSep = "|"

// parseHashFields converts a flat product hash into a domain Product.
func parseHashFields(id int64, m map[string]string) domain.Product {
	p := domain.Product{
		ID:          id,
		Name:        m[fieldName],
		Description: m[fieldDescription],
	}
	p.CategoryID, _ = strconv.ParseInt(m[fieldCategoryID], 10, 64)
	p.BrandID, _ = strconv.ParseInt(m[fieldBrandID], 10, 64)
	p.CategoryName = m[fieldCategory]
	p.BrandName = m[fieldBrand]
	if raw := m[fieldIngredients]; raw != "" {
		p.IngredientNames = strings.Split(raw, ingredientSep)
	}
	p.Price, _ = strconv.ParseFloat(m[fieldPrice], 64)
	p.RatingCount, _ = strconv.Atoi(m[fieldRatingCount])
	p.RatingAvg, _ = strconv.ParseFloat(m[fieldRatingAvg], 64)
	p.IsActive = m[fieldActive] == "1"
	return p
}

// buildHashFields converts a domain Product into a flat map for HSET.
// Used by tests and data loaders; the web layer is the production writer.
func buildHashFields(p domain.Product) map[string]string {
	active := "0"
	if p.IsActive {
		active = "1"
	}
	return map[string]string{
		fieldName:        p.Name,
		fieldDescription: p.Description,
		fieldCategoryID:  strconv.FormatInt(p.CategoryID, 10),
		fieldBrandID:     strconv.FormatInt(p.BrandID, 10),
		fieldCategory:    p.CategoryName,
		fieldBrand:       p.BrandName,
		fieldIngredients: strings.Join(p.IngredientNames, ingredientSep),
		fieldPrice:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		fieldRatingCount: strconv.Itoa(p.RatingCount),
		fieldRatingAvg:   strconv.FormatFloat(p.RatingAvg, 'f', -1, 64),
		fieldActive:      active,
	}
}

package domain

// Product is the catalog read model consumed by the recommendation core.
// Category, brand, and ingredient associations arrive pre-resolved to names;
// the web layer owns the relational schema.
type Product struct {
	ID              int64
	Name            string
	Description     string
	CategoryID      int64
	BrandID         int64
	CategoryName    string
	BrandName       string
	IngredientNames []string
	Price           float64
	RatingCount     int
	RatingAvg       float64
	IsActive        bool
}

// RatingAggregate is the denormalized feedback summary stored on a product.
type RatingAggregate struct {
	Count   int
	Average float64
}

// Package catalog reads the product read model published into Redis by the
// e-commerce web layer. One hash per product, keyed by product ID.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/peakform/recohub/internal/domain"
)

// store is the consumer interface for the product read model (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the catalog read contracts of the usecase layer.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a catalog repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// ListActive returns all active products ordered by ascending product ID.
// Ascending ID is the service-wide "default catalog order".
func (r *Repo) ListActive(ctx context.Context) ([]domain.Product, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"product:*")
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	out := make([]domain.Product, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		id, err := r.idFromKey(keys[i])
		if err != nil {
			continue
		}
		p := parseHashFields(id, m)
		if p.IsActive {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ActiveIDs returns the set of active product IDs.
func (r *Repo) ActiveIDs(ctx context.Context) (map[int64]struct{}, error) {
	products, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(products))
	for _, p := range products {
		ids[p.ID] = struct{}{}
	}
	return ids, nil
}

// Get returns one product by ID, active or not.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Product, error) {
	m, err := r.store.HGetAll(ctx, r.productKey(id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("fetch product %d: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return parseHashFields(id, m), nil
}

// Upsert writes a product hash. Production writes come from the web layer;
// this path serves data loaders and tests.
func (r *Repo) Upsert(ctx context.Context, p domain.Product) error {
	if err := r.store.HSet(ctx, r.productKey(p.ID), buildHashFields(p)); err != nil {
		return fmt.Errorf("store product %d: %w", p.ID, err)
	}
	return nil
}

// UpdateRatingAggregate overwrites a product's denormalized rating summary.
func (r *Repo) UpdateRatingAggregate(ctx context.Context, productID int64, agg domain.RatingAggregate) error {
	fields := map[string]string{
		fieldRatingCount: strconv.Itoa(agg.Count),
		fieldRatingAvg:   strconv.FormatFloat(agg.Average, 'f', -1, 64),
	}
	if err := r.store.HSet(ctx, r.productKey(productID), fields); err != nil {
		return fmt.Errorf("update rating aggregate %d: %w", productID, err)
	}
	return nil
}

func (r *Repo) productKey(id int64) string {
	return fmt.Sprintf("%sproduct:%d", r.keyPrefix, id)
}

func (r *Repo) idFromKey(key string) (int64, error) {
	raw := strings.TrimPrefix(key, r.keyPrefix+"product:")
	return strconv.ParseInt(raw, 10, 64)
}

// Package search implements the staged product-search orchestrator:
// semantic vector search first, then rule-based intent keywords, then plain
// substring matching. Each stage only runs when the previous one found no
// hits, and only the semantic stage overrides the caller's sort.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/domain"
)

// Stage names reported with each result.
const (
	StageSemantic = "semantic"
	StageIntent   = "intent"
	StageKeyword  = "keyword"
	StageNone     = "none"
)

// Params are the caller-supplied search arguments.
type Params struct {
	Query      string
	CategoryID int64
	BrandID    int64
	SortBy     string
	Order      string
	Page       int
	PerPage    int
}

// Result is one page of ranked product IDs.
type Result struct {
	ProductIDs []int64
	Total      int
	Page       int
	PerPage    int
	// Stage records which search stage produced the filter set.
	Stage string
}

// Options tune the orchestrator.
type Options struct {
	SemanticK       int
	DefaultPageSize int
	MaxPageSize     int
}

// Service runs staged hybrid search over the catalog read model.
type Service struct {
	index   IndexProvider
	encoder Encoder
	catalog CatalogReader
	opts    Options
	logger  *zap.Logger
}

// New creates a search service.
func New(index IndexProvider, encoder Encoder, catalog CatalogReader, opts Options, logger *zap.Logger) *Service {
	if opts.SemanticK <= 0 {
		opts.SemanticK = 50
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 12
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	return &Service{index: index, encoder: encoder, catalog: catalog, opts: opts, logger: logger}
}

// Search runs the staged state machine and returns one page of product IDs.
// A query that matches nothing yields an empty page, not an error.
func (s *Service) Search(ctx context.Context, p Params) (Result, error) {
	products, err := s.catalog.ListActive(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("active products: %w", err)
	}

	// Base filters apply before every stage.
	base := products[:0:0]
	for _, prod := range products {
		if p.CategoryID != 0 && prod.CategoryID != p.CategoryID {
			continue
		}
		if p.BrandID != 0 && prod.BrandID != p.BrandID {
			continue
		}
		base = append(base, prod)
	}

	matched := base
	stage := StageNone
	semanticOrdered := false

	if q := strings.TrimSpace(p.Query); q != "" {
		matched, stage, semanticOrdered = s.applyStages(ctx, base, q)
	}

	if !semanticOrdered {
		sortProducts(matched, p.SortBy, p.Order)
	}

	return paginate(matched, stage, p, s.opts), nil
}

// applyStages walks semantic -> intent -> keyword. The semantic stage is
// terminal whenever the index returns any hits; intent and keyword only run
// until one of them yields a non-empty filter set.
func (s *Service) applyStages(ctx context.Context, base []domain.Product, q string) ([]domain.Product, string, bool) {
	qLower := strings.ToLower(q)

	if ranked := s.semanticIDs(ctx, q); len(ranked) > 0 {
		// A non-empty semantic result is the filter set, even when the base
		// filters strip every hit: later stages must not run, so a strict
		// category/brand filter can legitimately yield an empty page.
		// The semantic relevance order overrides any requested sort.
		return filterByRankedIDs(base, ranked), StageSemantic, true
	}

	if keyword, ok := matchIntent(qLower); ok {
		if filtered := filterByName(base, keyword); len(filtered) > 0 {
			return filtered, StageIntent, false
		}
	}

	if filtered := filterByName(base, qLower); len(filtered) > 0 {
		return filtered, StageKeyword, false
	}
	return nil, StageNone, false
}

// semanticIDs returns ranked product IDs from the vector index, or nil.
// A missing artifact or a failed encode degrades to nil — that is the
// designed trigger for the next stage, not an error.
func (s *Service) semanticIDs(ctx context.Context, q string) []int64 {
	idx, err := s.index.Get()
	if err != nil {
		return nil
	}

	vec, err := s.encoder.Encode(ctx, q)
	if err != nil {
		s.logger.Warn("query encode failed, skipping semantic stage", zap.Error(err))
		return nil
	}

	ids, err := idx.SearchIDs(vec, s.opts.SemanticK)
	if err != nil {
		s.logger.Warn("vector search failed, skipping semantic stage", zap.Error(err))
		return nil
	}
	return ids
}

// filterByRankedIDs keeps products present in ranked, preserving the ranked
// order (first ID = most relevant).
func filterByRankedIDs(products []domain.Product, ranked []int64) []domain.Product {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]domain.Product, 0, len(ranked))
	for _, id := range ranked {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func filterByName(products []domain.Product, substr string) []domain.Product {
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), substr) {
			out = append(out, p)
		}
	}
	return out
}

// sortProducts applies the caller-requested sort. Unknown sort fields fall
// through to the default (name ascending), not an error.
func sortProducts(products []domain.Product, sortBy, order string) {
	desc := strings.EqualFold(order, "desc")

	var less func(a, b domain.Product) bool
	switch sortBy {
	case "price":
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case "rating":
		less = func(a, b domain.Product) bool { return a.RatingAvg < b.RatingAvg }
	case "id":
		less = func(a, b domain.Product) bool { return a.ID < b.ID }
	case "name":
		less = func(a, b domain.Product) bool { return a.Name < b.Name }
	default:
		// Unknown sort fields fall through to the default ordering.
		less = func(a, b domain.Product) bool { return a.Name < b.Name }
		desc = false
	}

	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func paginate(products []domain.Product, stage string, p Params, opts Options) Result {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = opts.DefaultPageSize
	}
	if perPage > opts.MaxPageSize {
		perPage = opts.MaxPageSize
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}

	total := len(products)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	ids := make([]int64, 0, end-start)
	for _, prod := range products[start:end] {
		ids = append(ids, prod.ID)
	}
	return Result{ProductIDs: ids, Total: total, Page: page, PerPage: perPage, Stage: stage}
}

// Package feedback stores rating/comment records. One hash per
// (product, user) pair, so a second submission from the same pair
// overwrites the first by construction.
package feedback

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peakform/recohub/internal/domain"
)

// store is the consumer interface for feedback records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the feedback contracts of the usecase layer.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a feedback repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

const (
	fieldRating    = "rating"
	fieldComment   = "comment"
	fieldCreatedAt = "created_at"
)

// Upsert writes the feedback record for (product, user). Returns true when
// the record was created, false when an existing one was overwritten.
func (r *Repo) Upsert(ctx context.Context, fb domain.Feedback) (bool, error) {
	key := r.feedbackKey(fb.ProductID, fb.UserID)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check feedback %s: %w", key, err)
	}

	fields := map[string]string{
		fieldRating:    strconv.Itoa(fb.Rating),
		fieldComment:   fb.Comment,
		fieldCreatedAt: strconv.FormatInt(fb.CreatedAt.Unix(), 10),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("store feedback %s: %w", key, err)
	}
	return !exists, nil
}

// ListByProduct returns all feedback for one product, oldest first.
func (r *Repo) ListByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error) {
	pattern := fmt.Sprintf("%sfeedback:%d:*", r.keyPrefix, productID)
	return r.listByPattern(ctx, pattern)
}

// ListAll returns every feedback record. Used by sentiment training.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Feedback, error) {
	return r.listByPattern(ctx, r.keyPrefix+"feedback:*")
}

func (r *Repo) listByPattern(ctx context.Context, pattern string) ([]domain.Feedback, error) {
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch feedback: %w", err)
	}

	out := make([]domain.Feedback, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		productID, userID, err := r.idsFromKey(keys[i])
		if err != nil {
			continue
		}
		fb := domain.Feedback{ProductID: productID, UserID: userID, Comment: m[fieldComment]}
		fb.Rating, _ = strconv.Atoi(m[fieldRating])
		if ts, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64); err == nil {
			fb.CreatedAt = time.Unix(ts, 0)
		}
		out = append(out, fb)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Repo) feedbackKey(productID, userID int64) string {
	return fmt.Sprintf("%sfeedback:%d:%d", r.keyPrefix, productID, userID)
}

func (r *Repo) idsFromKey(key string) (productID, userID int64, err error) {
	raw := strings.TrimPrefix(key, r.keyPrefix+"feedback:")
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed feedback key %q", key)
	}
	productID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	userID, err = strconv.ParseInt(parts[1], 10, 64)
	return productID, userID, err
}

// Package interaction stores the append-only user/product event log and the
// purchase-count aggregate used for popularity ranking.
package interaction

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/peakform/recohub/internal/db"
	"github.com/peakform/recohub/internal/domain"
)

// store is the consumer interface for the event log (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZIncrBy(ctx context.Context, key, member string, delta float64) error
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]db.ScoredMember, error)
}

// Repo implements the interaction contracts of the usecase layer.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an interaction repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

type eventDTO struct {
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"ts"`
}

// Append records one event. PURCHASE events also bump the purchase-count
// sorted set so popularity queries stay a single ZRANGE.
func (r *Repo) Append(ctx context.Context, ev domain.Interaction) error {
	dto := eventDTO{
		UserID:    ev.UserID,
		ProductID: ev.ProductID,
		Type:      string(ev.Type),
		Timestamp: ev.Timestamp.Unix(),
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := r.store.RPush(ctx, r.eventsKey(), string(data)); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	if ev.Type == domain.InteractionPurchase {
		member := strconv.FormatInt(ev.ProductID, 10)
		if err := r.store.ZIncrBy(ctx, r.purchasesKey(), member, 1); err != nil {
			return fmt.Errorf("bump purchase count: %w", err)
		}
	}
	return nil
}

// ListAll returns every recorded event in append order.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Interaction, error) {
	raw, err := r.store.LRange(ctx, r.eventsKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]domain.Interaction, 0, len(raw))
	for _, item := range raw {
		var dto eventDTO
		if err := json.Unmarshal([]byte(item), &dto); err != nil {
			return nil, fmt.Errorf("parse event: %w", err)
		}
		out = append(out, domain.Interaction{
			UserID:    dto.UserID,
			ProductID: dto.ProductID,
			Type:      domain.InteractionType(dto.Type),
			Timestamp: time.Unix(dto.Timestamp, 0),
		})
	}
	return out, nil
}

// PurchaseCount is a product with its total purchase events.
type PurchaseCount struct {
	ProductID int64
	Count     int64
}

// TopPurchased returns products by descending purchase count. Redis breaks
// score ties by reverse member lex order; the caller re-breaks them by
// ascending product ID for a stable contract.
func (r *Repo) TopPurchased(ctx context.Context, topN int) ([]PurchaseCount, error) {
	if topN <= 0 {
		return nil, nil
	}
	members, err := r.store.ZRevRangeWithScores(ctx, r.purchasesKey(), 0, int64(topN-1))
	if err != nil {
		return nil, fmt.Errorf("top purchased: %w", err)
	}

	out := make([]PurchaseCount, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m.Member, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, PurchaseCount{ProductID: id, Count: int64(m.Score)})
	}
	return out, nil
}

func (r *Repo) eventsKey() string    { return r.keyPrefix + "interactions" }
func (r *Repo) purchasesKey() string { return r.keyPrefix + "purchases:count" }

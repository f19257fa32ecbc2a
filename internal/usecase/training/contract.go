package training

import (
	"context"

	"github.com/peakform/recohub/internal/cf"
	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/sentiment"
	"github.com/peakform/recohub/internal/textindex"
	"github.com/peakform/recohub/internal/vectorindex"
)

// CatalogReader reads active products for corpus construction.
type CatalogReader interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
}

// InteractionReader reads the event log for CF training.
type InteractionReader interface {
	ListAll(ctx context.Context) ([]domain.Interaction, error)
}

// FeedbackReader reads all feedback for sentiment training.
type FeedbackReader interface {
	ListAll(ctx context.Context) ([]domain.Feedback, error)
}

// Encoder embeds corpus documents for the vector index.
type Encoder interface {
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Publisher is the write side of one artifact holder.
type Publisher[T any] interface {
	Publish(v *T)
}

// Holders bundles the four artifact holders the builders publish to.
type Holders struct {
	Similarity Publisher[textindex.Index]
	Vector     Publisher[vectorindex.Index]
	CF         Publisher[cf.Model]
	Sentiment  Publisher[sentiment.Pipeline]
}

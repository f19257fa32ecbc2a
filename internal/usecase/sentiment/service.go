// Package sentiment serves per-product sentiment summaries by classifying
// feedback comments with the trained pipeline.
package sentiment

import (
	"context"
	"fmt"
	"math"

	"github.com/peakform/recohub/internal/domain"
)

// Service answers sentiment-summary queries.
type Service struct {
	pipeline PipelineProvider
	feedback FeedbackReader
}

// New creates a sentiment service.
func New(pipeline PipelineProvider, feedback FeedbackReader) *Service {
	return &Service{pipeline: pipeline, feedback: feedback}
}

// Analyze classifies every non-empty comment for the product and returns
// counts plus per-label percentages. A product with no comments yields the
// zero-review summary, not an error. The three percentages round to one
// decimal place independently and may not sum to exactly 100.0.
func (s *Service) Analyze(ctx context.Context, productID int64) (domain.SentimentSummary, error) {
	records, err := s.feedback.ListByProduct(ctx, productID)
	if err != nil {
		return domain.SentimentSummary{}, fmt.Errorf("feedback for %d: %w", productID, err)
	}

	comments := make([]string, 0, len(records))
	for _, fb := range records {
		if fb.HasComment() {
			comments = append(comments, fb.Comment)
		}
	}
	if len(comments) == 0 {
		return domain.EmptySentimentSummary(), nil
	}

	pipeline, err := s.pipeline.Get()
	if err != nil {
		return domain.SentimentSummary{}, fmt.Errorf("sentiment pipeline: %w", err)
	}

	counts := make(map[domain.SentimentLabel]int, len(domain.SentimentLabels))
	for _, label := range domain.SentimentLabels {
		counts[label] = 0
	}
	for _, c := range comments {
		counts[pipeline.Predict(c)]++
	}

	total := len(comments)
	percents := make(map[domain.SentimentLabel]float64, len(counts))
	for label, n := range counts {
		percents[label] = round1(float64(n) / float64(total) * 100)
	}

	return domain.SentimentSummary{
		TotalReviews: total,
		Counts:       counts,
		Percents:     percents,
	}, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

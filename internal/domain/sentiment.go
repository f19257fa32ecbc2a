package domain

// SentimentLabel is a classified comment polarity.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
	SentimentNegative SentimentLabel = "NEGATIVE"
)

// SentimentLabels lists all labels in canonical order.
var SentimentLabels = []SentimentLabel{SentimentPositive, SentimentNeutral, SentimentNegative}

// SentimentSummary aggregates per-comment predictions for one product.
// Percentages are rounded to one decimal place independently and are not
// forced to sum to 100.0.
type SentimentSummary struct {
	TotalReviews int
	Counts       map[SentimentLabel]int
	Percents     map[SentimentLabel]float64
}

// EmptySentimentSummary is the zero-review summary. Zero reviews is a valid
// outcome, not an error.
func EmptySentimentSummary() SentimentSummary {
	return SentimentSummary{
		TotalReviews: 0,
		Counts:       map[SentimentLabel]int{},
		Percents:     map[SentimentLabel]float64{},
	}
}

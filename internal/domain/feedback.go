package domain

import (
	"strings"
	"time"
)

// Feedback is one rating with an optional comment. At most one feedback
// exists per (user, product); a second submission overwrites the first.
type Feedback struct {
	UserID    int64
	ProductID int64
	Rating    int // 1..5
	Comment   string
	CreatedAt time.Time
}

// HasComment reports whether the feedback carries usable comment text.
func (f Feedback) HasComment() bool {
	return strings.TrimSpace(f.Comment) != ""
}

// SentimentLabel returns the training label implied by the rating.
func (f Feedback) SentimentLabel() SentimentLabel {
	switch {
	case f.Rating >= 4:
		return SentimentPositive
	case f.Rating == 3:
		return SentimentNeutral
	default:
		return SentimentNegative
	}
}

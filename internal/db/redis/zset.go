package redis

import (
	"context"
	"strconv"

	"github.com/peakform/recohub/internal/db"
)

// ZIncrBy increments a sorted-set member's score.
func (s *Store) ZIncrBy(ctx context.Context, key, member string, delta float64) error {
	cmd := s.b().Zincrby().Key(key).Increment(delta).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZIncrBy, Err: err}
	}
	return nil
}

// ZRevRangeWithScores returns members ordered by descending score.
func (s *Store) ZRevRangeWithScores(
	ctx context.Context, key string, start, stop int64,
) ([]db.ScoredMember, error) {
	cmd := s.b().Zrange().Key(key).
		Min(strconv.FormatInt(start, 10)).
		Max(strconv.FormatInt(stop, 10)).
		Rev().Withscores().Build()
	scores, err := s.do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}

	out := make([]db.ScoredMember, len(scores))
	for i, z := range scores {
		out[i] = db.ScoredMember{Member: z.Member, Score: z.Score}
	}
	return out, nil
}

package competition

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Leaderboard maintains per-round standings in a Redis sorted set.
// Scores are published incrementally during a round and replaced
// wholesale at finalization.
type Leaderboard struct {
	client *redis.Client
}

// NewLeaderboard creates a new Redis-backed leaderboard.
func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// Entry is one leaderboard row.
type Entry struct {
	VideoID string  `json:"video_id"`
	Score   float64 `json:"score"`
}

func standingsKey(roundID string) string {
	return "round:" + roundID + ":standings"
}

// Publish records a video's current score for a round. Re-publishing
// the same video replaces its score (ZADD semantics).
func (l *Leaderboard) Publish(ctx context.Context, roundID, videoID string, score float64) error {
	err := l.client.ZAdd(ctx, standingsKey(roundID), redis.Z{
		Score:  score,
		Member: videoID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish standing: %w", err)
	}
	return nil
}

// Top returns the highest-scored entries for a round, best first.
func (l *Leaderboard) Top(ctx context.Context, roundID string, n int64) ([]Entry, error) {
	zs, err := l.client.ZRevRangeWithScores(ctx, standingsKey(roundID), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read standings: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{VideoID: member, Score: z.Score})
	}
	return entries, nil
}

// Clear drops a round's standings, used before republishing a full
// final ranking.
func (l *Leaderboard) Clear(ctx context.Context, roundID string) error {
	if err := l.client.Del(ctx, standingsKey(roundID)).Err(); err != nil {
		return fmt.Errorf("failed to clear standings: %w", err)
	}
	return nil
}

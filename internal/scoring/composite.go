package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelrally/reelrally/internal/creator"
	"github.com/reelrally/reelrally/internal/video"
)

// Platform-level weights for the recency and reputation signals. These
// are fixed, independent of per-round weight bundles: rounds tune the
// view/engagement/quality tier, the platform owns this tier.
const (
	PlatformRecencyWeight    = 0.20
	PlatformReputationWeight = 0.10
)

// Weights is a per-round signal weight bundle. Weights need not sum to
// one; the composite formula handles normalization through the clamp.
type Weights struct {
	View       float64 `json:"view_weight"`
	Like       float64 `json:"like_weight"`
	Comment    float64 `json:"comment_weight"`
	Share      float64 `json:"share_weight"`
	Completion float64 `json:"completion_weight"`
}

// DefaultWeights returns the weight bundle used when a round does not
// supply its own.
func DefaultWeights() Weights {
	return Weights{
		View:       0.4,
		Like:       0.2,
		Comment:    0.2,
		Share:      0.1,
		Completion: 0.1,
	}
}

// Signals holds the five sub-scores, each in [0, 100].
type Signals struct {
	View       float64 `json:"view_score"`
	Engagement float64 `json:"engagement_score"`
	Recency    float64 `json:"recency_score"`
	Quality    float64 `json:"quality_score"`
	Reputation float64 `json:"reputation_score"`
}

// Score is the record produced for one video by one scoring pass.
// Ephemeral by default; when a collaborator persists it, the record is
// append-only and never mutated.
type Score struct {
	ID              string    `json:"id"`
	VideoID         string    `json:"video_id"`
	RoundID         string    `json:"round_id"`
	Signals         Signals   `json:"signals"`
	Total           float64   `json:"total_score"`
	TunablesVersion string    `json:"tunables_version"`
	ComputedAt      time.Time `json:"computed_at"`
}

// Composite combines the five sub-scores with a round's weight bundle.
// The engagement sub-score absorbs the like, comment and share weights;
// recency and reputation carry the fixed platform weights. The total is
// clamped to 100.
func Composite(s Signals, w Weights) float64 {
	total := s.View*w.View +
		s.Engagement*(w.Like+w.Comment+w.Share) +
		s.Quality*w.Completion +
		s.Recency*PlatformRecencyWeight +
		s.Reputation*PlatformReputationWeight

	if total > 100 {
		return 100
	}
	return total
}

// ScoreVideo computes the full score record for one video. The creator
// may be nil (absent from the store); the reputation signal then scores
// the documented default. Pure per candidate: safe to run concurrently
// across a candidate set.
func ScoreVideo(v *video.Video, c *creator.Creator, w Weights, tun *Tunables, now time.Time) *Score {
	signals := Signals{
		View:       ViewScore(v.ViewCount),
		Engagement: EngagementScore(v),
		Recency:    RecencyScore(v.UploadedAt, now, tun.HalfLifeDays, tun.RecencyFactor),
		Quality:    QualityScore(v),
		Reputation: ReputationScore(c),
	}

	return &Score{
		ID:              uuid.New().String(),
		VideoID:         v.ID,
		RoundID:         v.RoundID,
		Signals:         signals,
		Total:           Composite(signals, w),
		TunablesVersion: tun.Version,
		ComputedAt:      now,
	}
}

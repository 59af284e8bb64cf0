package scoring

import (
	"math"
	"time"

	"github.com/reelrally/reelrally/internal/creator"
	"github.com/reelrally/reelrally/internal/video"
)

// Signal calculators. Each is a pure function of its inputs returning a
// value in [0, 100]; no lookups, no hidden state.

// Reputation scoring constants.
const (
	// ReputationBase is the score every creator starts from, and the
	// fixed score for a creator missing from the store.
	ReputationBase = 50.0

	reputationVerifiedBonus   = 15.0
	reputationFollowerCap     = 20.0
	reputationEngagementBonus = 15.0

	// Historical likes/views ratio above which the engagement bonus applies.
	reputationEngagementFloor = 0.05
)

// ViewScore scores raw view count on a log10 scale so viral counts see
// diminishing returns: min(log10(views+1) * 20, 100).
func ViewScore(viewCount int64) float64 {
	if viewCount <= 0 {
		return 0
	}
	return clamp100(math.Log10(float64(viewCount)+1) * 20)
}

// EngagementScore scores likes, comments and shares relative to views,
// shares counted double. A completion rate above 0.7 multiplies the
// score by 1.2 before the final clamp; clamping before the multiplier
// would change boundary behavior.
func EngagementScore(v *video.Video) float64 {
	if v.ViewCount == 0 {
		return 0
	}

	total := float64(v.LikeCount) + float64(v.CommentCount) + 2*float64(v.ShareCount)
	rate := total / float64(v.ViewCount)

	score := 0.0
	if rate > 0 {
		score = math.Min(math.Log10(rate*100+1)*25, 100)
	}
	if v.CompletionRate > 0.7 {
		score *= 1.2
	}
	return clamp100(score)
}

// RecencyScore applies exponential half-life decay to the video's age:
// min(0.5^(ageDays/halfLife) * recencyFactor * 100, 100). Videos with an
// upload timestamp in the future are treated as age zero.
func RecencyScore(uploadedAt, now time.Time, halfLifeDays, recencyFactor float64) float64 {
	ageDays := now.Sub(uploadedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	decay := math.Pow(0.5, ageDays/halfLifeDays)
	return clamp100(decay * recencyFactor * 100)
}

// QualityScore combines completion rate (up to 50), replay rate (up to
// 30) and a duration bonus favoring short-form lengths: +20 for 15-60s,
// +10 for 60-120s, nothing otherwise or when duration is unknown.
func QualityScore(v *video.Video) float64 {
	score := v.CompletionRate*50 + v.ReplayRate*30

	if v.Duration != nil {
		d := *v.Duration
		switch {
		case d >= 15 && d <= 60:
			score += 20
		case d > 60 && d <= 120:
			score += 10
		}
	}
	return clamp100(score)
}

// ReputationScore scores the creator's historical standing: base 50,
// +15 when verified, up to +20 from log-scaled follower count, +15 when
// the historical likes/views ratio exceeds 5%. A nil creator (absent
// from the store) scores the flat base rather than returning an error.
func ReputationScore(c *creator.Creator) float64 {
	if c == nil {
		return ReputationBase
	}

	score := ReputationBase
	if c.Verified {
		score += reputationVerifiedBonus
	}
	if c.FollowerCount > 0 {
		score += math.Min(math.Log10(float64(c.FollowerCount)+1)*5, reputationFollowerCap)
	}
	if c.TotalViews > 0 {
		if float64(c.TotalLikes)/float64(c.TotalViews) > reputationEngagementFloor {
			score += reputationEngagementBonus
		}
	}
	return clamp100(score)
}

func clamp100(score float64) float64 {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

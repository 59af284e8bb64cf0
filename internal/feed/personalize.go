// Package feed builds personalized, diversity-constrained video feeds:
// candidates from the active round are scored in parallel, adjusted to
// the viewer's learned taste, and greedily selected under per-creator
// and per-hashtag repetition caps.
package feed

import (
	"github.com/reelrally/reelrally/internal/preference"
	"github.com/reelrally/reelrally/internal/scoring"
	"github.com/reelrally/reelrally/internal/video"
)

// personalize applies viewer-specific multiplicative adjustments to a
// composite score. Anonymous viewers (nil profile and empty follow set)
// see the composite score unchanged.
//
// The boosts compound: a followed creator whose video carries both a
// preferred and a skipped hashtag receives all three factors. The
// hashtag boost and the skip penalty each apply at most once, on the
// first matching hashtag. The result is a ranking key, not a
// percentage: no upper clamp is re-applied.
func personalize(base float64, v *video.Video, profile *preference.Profile, following map[string]struct{}, tun *scoring.Tunables) float64 {
	score := base

	if _, ok := following[v.CreatorID]; ok {
		score *= tun.FollowBoost
	}

	if profile != nil {
		for _, tag := range v.Hashtags {
			if profile.PrefersHashtag(tag) {
				score *= tun.HashtagBoost
				break
			}
		}
		for _, tag := range v.Hashtags {
			if profile.SkipsHashtag(tag) {
				score *= tun.SkipPenalty
				break
			}
		}
	}

	return score
}

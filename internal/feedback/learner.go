// Package feedback turns raw interaction events into video metric
// updates and learned viewer preferences. Recording is best-effort:
// unknown event kinds and missing videos are ignored, never errors.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelrally/reelrally/internal/preference"
	"github.com/reelrally/reelrally/internal/video"
)

// Interaction kinds the learner understands. Anything else is counted
// and dropped.
const (
	KindView      = "view"
	KindLike      = "like"
	KindComment   = "comment"
	KindShare     = "share"
	KindWatchTime = "watch_time"
)

// Learner applies interaction events: it always updates the video's
// engagement metrics, and additionally updates the viewer's preference
// profile when the event carries a viewer identity.
type Learner struct {
	videos  video.VideoRepository
	prefs   preference.PreferenceRepository
	metrics *Metrics
	logger  *slog.Logger
}

// NewLearner creates a new feedback learner. metrics may be nil when
// the caller does not collect them.
func NewLearner(videos video.VideoRepository, prefs preference.PreferenceRepository, metrics *Metrics, logger *slog.Logger) *Learner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Learner{
		videos:  videos,
		prefs:   prefs,
		metrics: metrics,
		logger:  logger,
	}
}

// Record processes one interaction event against a video. viewerID may
// be empty for anonymous interactions; value carries the watched
// seconds for watch_time events and is ignored otherwise.
//
// Events against unknown videos and events of unknown kinds are
// swallowed: recording must never fail the interaction pipeline for
// data-shape reasons.
func (l *Learner) Record(ctx context.Context, videoID, viewerID, kind string, value *float64) error {
	v, err := l.videos.GetByID(ctx, videoID)
	if errors.Is(err, video.ErrVideoNotFound) {
		l.logger.Debug("interaction against unknown video dropped", "video_id", videoID, "kind", kind)
		return nil
	}
	if err != nil {
		if l.metrics != nil {
			l.metrics.IncErrors()
		}
		return fmt.Errorf("failed to load video: %w", err)
	}

	if err := l.updateMetrics(ctx, v, kind, value); err != nil {
		if l.metrics != nil {
			l.metrics.IncErrors()
		}
		return err
	}

	if viewerID != "" {
		if err := l.learnPreferences(ctx, v, viewerID, kind, value); err != nil {
			if l.metrics != nil {
				l.metrics.IncErrors()
			}
			return err
		}
	}

	if l.metrics != nil {
		l.metrics.IncInteraction(kind)
	}
	return nil
}

// updateMetrics applies the metric side of an event to the video store.
func (l *Learner) updateMetrics(ctx context.Context, v *video.Video, kind string, value *float64) error {
	switch kind {
	case KindView:
		return l.increment(ctx, v, video.CounterDelta{Views: 1})
	case KindLike:
		return l.increment(ctx, v, video.CounterDelta{Likes: 1})
	case KindComment:
		return l.increment(ctx, v, video.CounterDelta{Comments: 1})
	case KindShare:
		return l.increment(ctx, v, video.CounterDelta{Shares: 1})
	case KindWatchTime:
		return l.updateWatchRates(ctx, v, value)
	default:
		l.logger.Debug("unknown interaction kind dropped", "video_id", v.ID, "kind", kind)
		return nil
	}
}

// increment bumps the counters and, after a like, comment or share,
// recomputes the denormalized engagement rate from the post-increment
// counters. Videos without views keep the rate unset.
func (l *Learner) increment(ctx context.Context, v *video.Video, delta video.CounterDelta) error {
	if err := l.videos.IncrementCounters(ctx, v.ID, delta); err != nil {
		return fmt.Errorf("failed to increment counters: %w", err)
	}
	if delta.Likes == 0 && delta.Comments == 0 && delta.Shares == 0 {
		return nil
	}

	views := v.ViewCount + delta.Views
	if views <= 0 {
		return nil
	}
	total := (v.LikeCount + delta.Likes) +
		(v.CommentCount + delta.Comments) +
		(v.ShareCount+delta.Shares)*2
	rate := float64(total) / float64(views)

	if err := l.videos.UpdateRates(ctx, v.ID, video.RateUpdate{EngagementRate: &rate}); err != nil {
		return fmt.Errorf("failed to update engagement rate: %w", err)
	}
	return nil
}

// updateWatchRates folds a watch_time sample into the completion and
// replay rate moving averages. Samples without a usable value or
// against videos of unknown duration are dropped.
func (l *Learner) updateWatchRates(ctx context.Context, v *video.Video, value *float64) error {
	if value == nil || *value < 0 {
		return nil
	}
	if v.Duration == nil || *v.Duration <= 0 {
		return nil
	}

	ratio := *value / *v.Duration
	var update video.RateUpdate
	if ratio > 1 {
		// The viewer replayed past the end. Completion saturates and
		// the overflow feeds the replay average.
		completion := 1.0
		replay := video.ClampRate((v.ReplayRate + (ratio - 1)) / 2)
		update.CompletionRate = &completion
		update.ReplayRate = &replay
	} else {
		completion := video.ClampRate((v.CompletionRate + ratio) / 2)
		update.CompletionRate = &completion
	}

	if err := l.videos.UpdateRates(ctx, v.ID, update); err != nil {
		return fmt.Errorf("failed to update watch rates: %w", err)
	}
	return nil
}

// learnPreferences applies the taste side of an event to the viewer's
// profile. Positive interactions adopt the video's hashtags and
// creator; short watches mark the hashtags as skipped; full enough
// watches feed the preferred-duration average.
func (l *Learner) learnPreferences(ctx context.Context, v *video.Video, viewerID, kind string, value *float64) error {
	learning := kind == KindLike || kind == KindComment || kind == KindShare ||
		(kind == KindWatchTime && value != nil && *value >= 0 && v.Duration != nil && *v.Duration > 0)
	if !learning {
		return nil
	}

	profile, err := l.prefs.GetByViewer(ctx, viewerID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	if profile == nil {
		profile = preference.NewProfile(viewerID)
	}

	switch kind {
	case KindLike, KindComment, KindShare:
		for _, tag := range v.Hashtags {
			profile.AddPreferredHashtag(tag)
		}
		profile.AddPreferredCreator(v.CreatorID)
	case KindWatchTime:
		if *value / *v.Duration < 0.3 {
			for _, tag := range v.Hashtags {
				profile.AddSkippedHashtag(tag)
			}
		} else {
			profile.ObserveDuration(*v.Duration)
		}
	}

	profile.Touch(time.Now())
	if err := l.prefs.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	if l.metrics != nil {
		l.metrics.IncPreferenceUpdates()
	}
	return nil
}

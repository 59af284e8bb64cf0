// Package video provides the video snapshot model and repository for
// competition entries, including the mutable engagement counters the
// scoring engine reads and the feedback learner updates.
package video

import (
	"errors"
	"time"
)

// Common errors for video operations.
var (
	ErrVideoNotFound = errors.New("video not found")
)

// Video status constants. Only active videos are eligible for feeds
// and final round scoring.
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusRemoved = "removed"
)

// Video is a competition entry snapshot. Identity, ownership and upload
// metadata are immutable after creation; the engagement counters and
// rates are updated incrementally by the feedback learner.
type Video struct {
	ID        string   `json:"id"`
	CreatorID string   `json:"creator_id"`
	RoundID   string   `json:"round_id"`
	Title     string   `json:"title"`
	Hashtags  []string `json:"hashtags,omitempty"`

	// Duration in seconds. Nil when the upload pipeline could not
	// determine a duration.
	Duration *float64 `json:"duration,omitempty"`

	UploadedAt time.Time `json:"uploaded_at"`
	Status     string    `json:"status"`

	// Engagement counters. Always >= 0.
	ViewCount    int64 `json:"view_count"`
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	ShareCount   int64 `json:"share_count"`

	// Rates in [0, 1], maintained as moving averages by the learner.
	CompletionRate float64 `json:"completion_rate"`
	ReplayRate     float64 `json:"replay_rate"`

	// EngagementRate is denormalized after like/comment/share updates.
	// Nil until the video has at least one view.
	EngagementRate *float64 `json:"engagement_rate,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// HasHashtag reports whether the video carries the given hashtag.
// Duplicate hashtags in the slice are treated as a set.
func (v *Video) HasHashtag(tag string) bool {
	for _, h := range v.Hashtags {
		if h == tag {
			return true
		}
	}
	return false
}

// CounterDelta describes increments to apply to engagement counters.
// Zero fields are left untouched.
type CounterDelta struct {
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
}

// IsZero reports whether the delta carries no increments.
func (d CounterDelta) IsZero() bool {
	return d.Views == 0 && d.Likes == 0 && d.Comments == 0 && d.Shares == 0
}

// RateUpdate describes new values for the derived rates. Nil fields are
// left untouched, allowing partial updates.
type RateUpdate struct {
	CompletionRate *float64
	ReplayRate     *float64
	EngagementRate *float64
}

// ClampRate clamps a rate into the [0, 1] range.
// Counters and rates must satisfy the model invariants after every
// update, so callers clamp before persisting.
func ClampRate(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Package preference provides the per-viewer taste profile learned from
// interaction events: preferred/skipped hashtags, preferred creators and
// a running preferred duration.
package preference

import "time"

// Profile is the learned taste state for one viewer. Created lazily on
// the first interaction; mutated incrementally; never deleted by the
// recommendation engine (profile lifecycle belongs to the account system).
//
// Invariant: a hashtag is never present in both PreferredHashtags and
// SkippedHashtags. The Add helpers below maintain this; mutate through
// them, not by appending to the slices directly.
type Profile struct {
	ViewerID string `json:"viewer_id"`

	// Insertion-ordered; no duplicates.
	PreferredHashtags []string `json:"preferred_hashtags,omitempty"`
	PreferredCreators []string `json:"preferred_creators,omitempty"`
	SkippedHashtags   []string `json:"skipped_hashtags,omitempty"`

	// Running average of durations the viewer watched through.
	// Nil until the first duration signal.
	PreferredDuration *float64 `json:"preferred_duration,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile creates a fresh empty profile for a viewer.
func NewProfile(viewerID string) *Profile {
	return &Profile{
		ViewerID:  viewerID,
		UpdatedAt: time.Now(),
	}
}

// AddPreferredHashtag adds a hashtag to the preferred set and removes it
// from the skipped set if present.
func (p *Profile) AddPreferredHashtag(tag string) {
	p.SkippedHashtags = remove(p.SkippedHashtags, tag)
	if !contains(p.PreferredHashtags, tag) {
		p.PreferredHashtags = append(p.PreferredHashtags, tag)
	}
}

// AddSkippedHashtag adds a hashtag to the skipped set and removes it
// from the preferred set if present, mirroring the positive-signal path
// so the exclusivity invariant holds in both directions.
func (p *Profile) AddSkippedHashtag(tag string) {
	p.PreferredHashtags = remove(p.PreferredHashtags, tag)
	if !contains(p.SkippedHashtags, tag) {
		p.SkippedHashtags = append(p.SkippedHashtags, tag)
	}
}

// AddPreferredCreator adds a creator to the preferred set if absent.
func (p *Profile) AddPreferredCreator(creatorID string) {
	if !contains(p.PreferredCreators, creatorID) {
		p.PreferredCreators = append(p.PreferredCreators, creatorID)
	}
}

// PrefersHashtag reports whether the hashtag is in the preferred set.
func (p *Profile) PrefersHashtag(tag string) bool {
	return contains(p.PreferredHashtags, tag)
}

// SkipsHashtag reports whether the hashtag is in the skipped set.
func (p *Profile) SkipsHashtag(tag string) bool {
	return contains(p.SkippedHashtags, tag)
}

// ObserveDuration folds a watched-through duration into the running
// preferred-duration average: first sample is taken as-is, later samples
// use new = (old + sample) / 2.
func (p *Profile) ObserveDuration(duration float64) {
	if p.PreferredDuration == nil {
		d := duration
		p.PreferredDuration = &d
		return
	}
	d := (*p.PreferredDuration + duration) / 2
	p.PreferredDuration = &d
}

// Touch updates the last-updated timestamp.
func (p *Profile) Touch(now time.Time) {
	p.UpdatedAt = now
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// remove deletes v from s preserving order.
func remove(s []string, v string) []string {
	for i, e := range s {
		if e == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

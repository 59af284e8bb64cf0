// Package creator provides the creator reputation model and repository.
// Reputation inputs are read-only during scoring; a missing creator is a
// valid outcome and scores at the documented default.
package creator

import "time"

// Creator holds the reputation inputs the scoring engine reads.
// Follower counts and historical totals are maintained by the
// surrounding account system, not by this engine.
type Creator struct {
	ID            string    `json:"id"`
	Handle        string    `json:"handle"`
	Verified      bool      `json:"verified"`
	FollowerCount int64     `json:"follower_count"`
	TotalViews    int64     `json:"total_views"`
	TotalLikes    int64     `json:"total_likes"`
	CreatedAt     time.Time `json:"created_at"`
}

// Package competition provides competition round management: the round
// model with its per-round signal weights, round storage, the Redis
// standings leaderboard, and end-of-round winner determination.
package competition

import (
	"errors"
	"time"

	"github.com/reelrally/reelrally/internal/scoring"
)

// Common errors for round operations.
var (
	ErrRoundNotFound  = errors.New("round not found")
	ErrRoundNotActive = errors.New("round is not active")
)

// Round status constants.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Round is a time-boxed competition period. Each round carries its own
// signal weight bundle; videos entered in a round are ranked and scored
// against it.
type Round struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Status  string    `json:"status"`

	// Economics, maintained by the payment collaborator.
	EntryFee     float64 `json:"entry_fee"`
	TotalRevenue float64 `json:"total_revenue"`
	PrizePool    float64 `json:"prize_pool"`

	ParticipantCount int `json:"participant_count"`
	VideoCount       int `json:"video_count"`

	// Winner configuration.
	WinnerCount        int `json:"winner_count"`
	SpecialWinnerCount int `json:"special_winner_count"`

	// Weights is the per-round signal weight bundle. The zero value
	// means "not configured"; readers fall back to scoring.DefaultWeights.
	Weights scoring.Weights `json:"weights"`

	CreatedAt time.Time `json:"created_at"`
}

// EffectiveWeights returns the round's weight bundle, falling back to
// the documented defaults when the round never configured one.
func (r *Round) EffectiveWeights() scoring.Weights {
	if r == nil || r.Weights == (scoring.Weights{}) {
		return scoring.DefaultWeights()
	}
	return r.Weights
}

// Standing is one entry in a round's final ranking. Standings are
// append-only records: written once at finalization, never mutated.
type Standing struct {
	RoundID       string    `json:"round_id"`
	VideoID       string    `json:"video_id"`
	CreatorID     string    `json:"creator_id"`
	Rank          int       `json:"rank"`
	Score         float64   `json:"score"`
	Winner        bool      `json:"winner"`
	SpecialWinner bool      `json:"special_winner"`
	ComputedAt    time.Time `json:"computed_at"`
}

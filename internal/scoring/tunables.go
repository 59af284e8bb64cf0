// Package scoring implements the multi-factor video scorer: five pure
// signal calculators combined into a competition-weighted composite
// score, driven by a versioned tunable parameter bundle.
package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tunables is the active algorithm parameter bundle. Exactly one bundle
// is active at a time; it is immutable once read by a scoring pass. A
// new version supersedes it, it is never edited in place. Scoring calls
// receive a snapshot, never a shared mutable reference.
type Tunables struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`

	// Time decay. Content loses half its recency relevance every
	// HalfLifeDays days.
	RecencyFactor float64 `json:"recency_factor"`
	HalfLifeDays  float64 `json:"half_life_days"`

	// Personalization multipliers. Boosts are > 1, SkipPenalty in (0, 1).
	FollowBoost  float64 `json:"follow_boost"`
	HashtagBoost float64 `json:"hashtag_boost"`
	SkipPenalty  float64 `json:"skip_penalty"`

	// Feed diversity caps, both >= 1.
	MaxPerCreator int `json:"max_per_creator"`
	MaxPerHashtag int `json:"max_per_hashtag"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Default tunable values. These stabilize after first use: when no
// active bundle exists the engine persists these back through the
// repository.
const (
	DefaultRecencyFactor = 0.3
	DefaultHalfLifeDays  = 7.0
	DefaultFollowBoost   = 2.0
	DefaultHashtagBoost  = 1.5
	DefaultSkipPenalty   = 0.5
	DefaultMaxPerCreator = 2
	DefaultMaxPerHashtag = 3
)

// DefaultTunables returns a fresh active bundle with the documented
// default parameters.
func DefaultTunables() *Tunables {
	now := time.Now()
	return &Tunables{
		ID:            uuid.New().String(),
		Name:          "default",
		Version:       "1.0",
		RecencyFactor: DefaultRecencyFactor,
		HalfLifeDays:  DefaultHalfLifeDays,
		FollowBoost:   DefaultFollowBoost,
		HashtagBoost:  DefaultHashtagBoost,
		SkipPenalty:   DefaultSkipPenalty,
		MaxPerCreator: DefaultMaxPerCreator,
		MaxPerHashtag: DefaultMaxPerHashtag,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TunablesRepository defines the interface for tunable bundle storage.
// Bundle validation (positive half-life, boost ranges) happens at
// write time in the admin surface; the engine trusts what it reads.
type TunablesRepository interface {
	// GetActive returns the active bundle, or (nil, nil) when none
	// exists yet.
	GetActive(ctx context.Context) (*Tunables, error)

	// Save persists a bundle. Saving an active bundle deactivates any
	// previously active one.
	Save(ctx context.Context, t *Tunables) error
}

// InMemoryTunablesRepository is an in-memory implementation of
// TunablesRepository. Thread-safe via RWMutex.
type InMemoryTunablesRepository struct {
	mu      sync.RWMutex
	bundles map[string]*Tunables
}

// NewInMemoryTunablesRepository creates a new in-memory tunables repository.
func NewInMemoryTunablesRepository() *InMemoryTunablesRepository {
	return &InMemoryTunablesRepository{
		bundles: make(map[string]*Tunables),
	}
}

// GetActive returns the active bundle, or (nil, nil) when none exists.
func (r *InMemoryTunablesRepository) GetActive(_ context.Context) (*Tunables, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.bundles {
		if t.Active {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

// Save persists a bundle, deactivating any previously active one.
func (r *InMemoryTunablesRepository) Save(_ context.Context, t *Tunables) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Active {
		for _, existing := range r.bundles {
			existing.Active = false
		}
	}
	cp := *t
	r.bundles[cp.ID] = &cp
	return nil
}

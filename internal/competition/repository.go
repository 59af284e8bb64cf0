package competition

import (
	"context"
	"sync"
)

// RoundRepository defines the interface for competition round storage.
type RoundRepository interface {
	// Create inserts a new round.
	Create(ctx context.Context, r *Round) error

	// GetByID retrieves a round, returning ErrRoundNotFound when absent.
	GetByID(ctx context.Context, id string) (*Round, error)

	// GetActive returns the currently active round, or (nil, nil) when
	// no round is active. At most one round is active at a time.
	GetActive(ctx context.Context) (*Round, error)

	// SetStatus transitions a round to a new status.
	SetStatus(ctx context.Context, id, status string) error
}

// InMemoryRoundRepository is an in-memory implementation of
// RoundRepository. Thread-safe via RWMutex.
type InMemoryRoundRepository struct {
	mu     sync.RWMutex
	rounds map[string]*Round
}

// NewInMemoryRoundRepository creates a new in-memory round repository.
func NewInMemoryRoundRepository() *InMemoryRoundRepository {
	return &InMemoryRoundRepository{
		rounds: make(map[string]*Round),
	}
}

// Create inserts a new round.
func (r *InMemoryRoundRepository) Create(_ context.Context, round *Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *round
	r.rounds[cp.ID] = &cp
	return nil
}

// GetByID retrieves a round by ID.
func (r *InMemoryRoundRepository) GetByID(_ context.Context, id string) (*Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	round, ok := r.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	cp := *round
	return &cp, nil
}

// GetActive returns the currently active round, or (nil, nil).
func (r *InMemoryRoundRepository) GetActive(_ context.Context) (*Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, round := range r.rounds {
		if round.Status == StatusActive {
			cp := *round
			return &cp, nil
		}
	}
	return nil, nil
}

// SetStatus transitions a round to a new status.
func (r *InMemoryRoundRepository) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	round, ok := r.rounds[id]
	if !ok {
		return ErrRoundNotFound
	}
	round.Status = status
	return nil
}

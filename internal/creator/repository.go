package creator

import (
	"context"
	"sync"
)

// CreatorRepository defines the interface for creator reputation lookups.
type CreatorRepository interface {
	// GetByID retrieves a creator by ID.
	// Returns (nil, nil) when the creator does not exist: absence is a
	// valid outcome treated as "new creator" by the scorer, never an error.
	GetByID(ctx context.Context, id string) (*Creator, error)

	// Upsert inserts or replaces a creator record.
	Upsert(ctx context.Context, c *Creator) error
}

// InMemoryCreatorRepository is an in-memory implementation of
// CreatorRepository. Thread-safe via RWMutex.
type InMemoryCreatorRepository struct {
	mu       sync.RWMutex
	creators map[string]*Creator
}

// NewInMemoryCreatorRepository creates a new in-memory creator repository.
func NewInMemoryCreatorRepository() *InMemoryCreatorRepository {
	return &InMemoryCreatorRepository{
		creators: make(map[string]*Creator),
	}
}

// GetByID retrieves a creator by ID, or (nil, nil) when absent.
func (r *InMemoryCreatorRepository) GetByID(_ context.Context, id string) (*Creator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.creators[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// Upsert inserts or replaces a creator record.
func (r *InMemoryCreatorRepository) Upsert(_ context.Context, c *Creator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	r.creators[cp.ID] = &cp
	return nil
}

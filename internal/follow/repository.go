// Package follow provides the follow-graph repository used by the
// personalization layer to apply the follow boost.
package follow

import (
	"context"
	"sync"
)

// FollowRepository defines the interface for follow-graph lookups.
type FollowRepository interface {
	// Following returns the set of creator IDs the viewer follows.
	// An unknown viewer yields an empty set, not an error.
	Following(ctx context.Context, viewerID string) (map[string]struct{}, error)

	// Follow records that a viewer follows a creator. Idempotent.
	Follow(ctx context.Context, viewerID, creatorID string) error

	// Unfollow removes a follow edge. Removing a missing edge is a no-op.
	Unfollow(ctx context.Context, viewerID, creatorID string) error
}

// InMemoryFollowRepository is an in-memory implementation of
// FollowRepository. Thread-safe via RWMutex.
type InMemoryFollowRepository struct {
	mu    sync.RWMutex
	edges map[string]map[string]struct{} // viewerID -> set of creator IDs
}

// NewInMemoryFollowRepository creates a new in-memory follow repository.
func NewInMemoryFollowRepository() *InMemoryFollowRepository {
	return &InMemoryFollowRepository{
		edges: make(map[string]map[string]struct{}),
	}
}

// Following returns the set of creator IDs the viewer follows.
func (r *InMemoryFollowRepository) Following(_ context.Context, viewerID string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]struct{}, len(r.edges[viewerID]))
	for creatorID := range r.edges[viewerID] {
		result[creatorID] = struct{}{}
	}
	return result, nil
}

// Follow records that a viewer follows a creator.
func (r *InMemoryFollowRepository) Follow(_ context.Context, viewerID, creatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.edges[viewerID] == nil {
		r.edges[viewerID] = make(map[string]struct{})
	}
	r.edges[viewerID][creatorID] = struct{}{}
	return nil
}

// Unfollow removes a follow edge.
func (r *InMemoryFollowRepository) Unfollow(_ context.Context, viewerID, creatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.edges[viewerID], creatorID)
	return nil
}

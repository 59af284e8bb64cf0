package preference

import (
	"context"
	"sync"
)

// PreferenceRepository defines the interface for profile storage.
type PreferenceRepository interface {
	// GetByViewer retrieves a viewer's profile.
	// Returns (nil, nil) when no profile exists yet; callers construct a
	// fresh profile with NewProfile in that case.
	GetByViewer(ctx context.Context, viewerID string) (*Profile, error)

	// Upsert inserts or replaces the profile for its viewer.
	// Last-writer-wins: preference learning is best-effort.
	Upsert(ctx context.Context, p *Profile) error
}

// InMemoryPreferenceRepository is an in-memory implementation of
// PreferenceRepository. Thread-safe via RWMutex.
type InMemoryPreferenceRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemoryPreferenceRepository creates a new in-memory preference repository.
func NewInMemoryPreferenceRepository() *InMemoryPreferenceRepository {
	return &InMemoryPreferenceRepository{
		profiles: make(map[string]*Profile),
	}
}

// GetByViewer retrieves a viewer's profile, or (nil, nil) when absent.
func (r *InMemoryPreferenceRepository) GetByViewer(_ context.Context, viewerID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[viewerID]
	if !ok {
		return nil, nil
	}
	return copyProfile(p), nil
}

// Upsert inserts or replaces the profile for its viewer.
func (r *InMemoryPreferenceRepository) Upsert(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.ViewerID] = copyProfile(p)
	return nil
}

func copyProfile(p *Profile) *Profile {
	cp := *p
	if p.PreferredHashtags != nil {
		cp.PreferredHashtags = append([]string(nil), p.PreferredHashtags...)
	}
	if p.PreferredCreators != nil {
		cp.PreferredCreators = append([]string(nil), p.PreferredCreators...)
	}
	if p.SkippedHashtags != nil {
		cp.SkippedHashtags = append([]string(nil), p.SkippedHashtags...)
	}
	if p.PreferredDuration != nil {
		d := *p.PreferredDuration
		cp.PreferredDuration = &d
	}
	return &cp
}

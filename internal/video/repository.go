package video

import (
	"context"
	"sync"
	"time"
)

// VideoRepository defines the interface for video data operations used
// by the scoring engine and the feedback learner.
type VideoRepository interface {
	// Create inserts a new video.
	Create(ctx context.Context, v *Video) error

	// GetByID retrieves a video by its UUID.
	// Returns ErrVideoNotFound if no such video exists.
	GetByID(ctx context.Context, id string) (*Video, error)

	// ListByRound returns all active videos entered in a round.
	// The result is a bounded candidate set; ordering is unspecified.
	ListByRound(ctx context.Context, roundID string) ([]*Video, error)

	// IncrementCounters atomically applies counter increments.
	// Implementations must provide at-least atomic increment semantics
	// so concurrent interactions never lose counts.
	IncrementCounters(ctx context.Context, id string, delta CounterDelta) error

	// UpdateRates applies new derived-rate values. Nil fields in the
	// update are left untouched. Last-writer-wins semantics.
	UpdateRates(ctx context.Context, id string, update RateUpdate) error
}

// InMemoryVideoRepository is an in-memory implementation of
// VideoRepository. Thread-safe via RWMutex. Used for testing and
// development.
type InMemoryVideoRepository struct {
	mu     sync.RWMutex
	videos map[string]*Video
}

// NewInMemoryVideoRepository creates a new in-memory video repository.
func NewInMemoryVideoRepository() *InMemoryVideoRepository {
	return &InMemoryVideoRepository{
		videos: make(map[string]*Video),
	}
}

// Create inserts a new video.
func (r *InMemoryVideoRepository) Create(_ context.Context, v *Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := copyVideo(v)
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}
	r.videos[cp.ID] = cp
	return nil
}

// GetByID retrieves a video by its UUID.
func (r *InMemoryVideoRepository) GetByID(_ context.Context, id string) (*Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.videos[id]
	if !ok {
		return nil, ErrVideoNotFound
	}
	return copyVideo(v), nil
}

// ListByRound returns all active videos entered in a round.
func (r *InMemoryVideoRepository) ListByRound(_ context.Context, roundID string) ([]*Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Video
	for _, v := range r.videos {
		if v.RoundID == roundID && v.Status == StatusActive {
			result = append(result, copyVideo(v))
		}
	}
	return result, nil
}

// IncrementCounters atomically applies counter increments.
func (r *InMemoryVideoRepository) IncrementCounters(_ context.Context, id string, delta CounterDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return ErrVideoNotFound
	}
	v.ViewCount += delta.Views
	v.LikeCount += delta.Likes
	v.CommentCount += delta.Comments
	v.ShareCount += delta.Shares
	v.UpdatedAt = time.Now()
	return nil
}

// UpdateRates applies new derived-rate values.
func (r *InMemoryVideoRepository) UpdateRates(_ context.Context, id string, update RateUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return ErrVideoNotFound
	}
	if update.CompletionRate != nil {
		v.CompletionRate = ClampRate(*update.CompletionRate)
	}
	if update.ReplayRate != nil {
		v.ReplayRate = ClampRate(*update.ReplayRate)
	}
	if update.EngagementRate != nil {
		rate := *update.EngagementRate
		v.EngagementRate = &rate
	}
	v.UpdatedAt = time.Now()
	return nil
}

// copyVideo returns a deep copy to avoid external modification of
// repository state.
func copyVideo(v *Video) *Video {
	cp := *v
	if v.Hashtags != nil {
		cp.Hashtags = make([]string, len(v.Hashtags))
		copy(cp.Hashtags, v.Hashtags)
	}
	if v.Duration != nil {
		d := *v.Duration
		cp.Duration = &d
	}
	if v.EngagementRate != nil {
		e := *v.EngagementRate
		cp.EngagementRate = &e
	}
	return &cp
}

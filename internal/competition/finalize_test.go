package competition

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reelrally/reelrally/internal/creator"
	"github.com/reelrally/reelrally/internal/scoring"
	"github.com/reelrally/reelrally/internal/video"
)

// fakePublisher records published standings in memory.
type fakePublisher struct {
	cleared   []string
	published map[string]float64
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(map[string]float64)}
}

func (f *fakePublisher) Publish(_ context.Context, _, videoID string, score float64) error {
	f.published[videoID] = score
	return nil
}

func (f *fakePublisher) Clear(_ context.Context, roundID string) error {
	f.cleared = append(f.cleared, roundID)
	return nil
}

func setupFinalizer(t *testing.T) (*Finalizer, *InMemoryRoundRepository, *video.InMemoryVideoRepository, *fakePublisher) {
	t.Helper()

	rounds := NewInMemoryRoundRepository()
	videos := video.NewInMemoryVideoRepository()
	creators := creator.NewInMemoryCreatorRepository()
	tunables := scoring.NewInMemoryTunablesRepository()
	pub := newFakePublisher()

	f := NewFinalizer(rounds, videos, creators, tunables, pub, nil, nil)
	return f, rounds, videos, pub
}

func activeRound(winners, special int) *Round {
	return &Round{
		ID:                 uuid.New().String(),
		Title:              "test round",
		StartAt:            time.Now().Add(-7 * 24 * time.Hour),
		EndAt:              time.Now(),
		Status:             StatusActive,
		WinnerCount:        winners,
		SpecialWinnerCount: special,
		CreatedAt:          time.Now(),
	}
}

func roundVideo(roundID string, views int64) *video.Video {
	return &video.Video{
		ID:         uuid.New().String(),
		CreatorID:  uuid.New().String(),
		RoundID:    roundID,
		UploadedAt: time.Now().Add(-24 * time.Hour),
		Status:     video.StatusActive,
		ViewCount:  views,
	}
}

func TestFinalizeRanksAndMarksWinners(t *testing.T) {
	f, rounds, videos, pub := setupFinalizer(t)
	ctx := context.Background()

	round := activeRound(2, 1)
	if err := rounds.Create(ctx, round); err != nil {
		t.Fatalf("failed to create round: %v", err)
	}

	low := roundVideo(round.ID, 10)
	mid := roundVideo(round.ID, 1_000)
	high := roundVideo(round.ID, 100_000)
	for _, v := range []*video.Video{low, mid, high} {
		if err := videos.Create(ctx, v); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}
	}

	standings, err := f.Finalize(ctx, round.ID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(standings))
	}

	if standings[0].VideoID != high.ID {
		t.Errorf("expected highest-viewed video first, got %s", standings[0].VideoID)
	}
	for i, s := range standings {
		if s.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, s.Rank)
		}
	}
	if !standings[0].Winner || !standings[1].Winner || standings[2].Winner {
		t.Errorf("expected exactly top 2 winners: %+v", standings)
	}
	if !standings[0].SpecialWinner || standings[1].SpecialWinner {
		t.Errorf("expected exactly top 1 special winner: %+v", standings)
	}

	// Standings were published to the leaderboard.
	if len(pub.cleared) != 1 || pub.cleared[0] != round.ID {
		t.Errorf("expected standings cleared once for round, got %v", pub.cleared)
	}
	if len(pub.published) != 3 {
		t.Errorf("expected 3 published entries, got %d", len(pub.published))
	}

	// The round is now completed.
	got, err := rounds.GetByID(ctx, round.ID)
	if err != nil {
		t.Fatalf("failed to reload round: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("expected round completed, got %s", got.Status)
	}
}

func TestFinalizeDeterministicTieBreak(t *testing.T) {
	f, rounds, videos, _ := setupFinalizer(t)
	ctx := context.Background()

	round := activeRound(10, 1)
	if err := rounds.Create(ctx, round); err != nil {
		t.Fatalf("failed to create round: %v", err)
	}

	// Identical metrics: scores tie, equal view counts, so ordering
	// falls through to the video ID.
	a := roundVideo(round.ID, 100)
	a.ID = "aaaa"
	b := roundVideo(round.ID, 100)
	b.ID = "bbbb"
	uploaded := time.Now().Add(-24 * time.Hour)
	a.UploadedAt = uploaded
	b.UploadedAt = uploaded
	for _, v := range []*video.Video{b, a} {
		if err := videos.Create(ctx, v); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}
	}

	standings, err := f.Finalize(ctx, round.ID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if standings[0].VideoID != "aaaa" || standings[1].VideoID != "bbbb" {
		t.Errorf("expected ID ascending tie break, got %s then %s", standings[0].VideoID, standings[1].VideoID)
	}
}

func TestFinalizeRejectsInactiveRound(t *testing.T) {
	f, rounds, _, _ := setupFinalizer(t)
	ctx := context.Background()

	round := activeRound(1, 1)
	round.Status = StatusCompleted
	if err := rounds.Create(ctx, round); err != nil {
		t.Fatalf("failed to create round: %v", err)
	}

	if _, err := f.Finalize(ctx, round.ID); err != ErrRoundNotActive {
		t.Errorf("expected ErrRoundNotActive, got %v", err)
	}
}

func TestEffectiveWeights(t *testing.T) {
	unconfigured := &Round{}
	if unconfigured.EffectiveWeights() != scoring.DefaultWeights() {
		t.Error("expected default weights for an unconfigured round")
	}

	custom := &Round{Weights: scoring.Weights{View: 0.6, Like: 0.2, Comment: 0.1, Share: 0.05, Completion: 0.05}}
	if custom.EffectiveWeights().View != 0.6 {
		t.Error("expected the round's own weights to be used")
	}
}

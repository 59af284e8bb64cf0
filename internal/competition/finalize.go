package competition

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/reelrally/reelrally/internal/creator"
	"github.com/reelrally/reelrally/internal/scoring"
	"github.com/reelrally/reelrally/internal/video"
)

// StandingsPublisher receives the final per-video scores of a round.
// Implemented by Leaderboard; tests substitute a fake.
type StandingsPublisher interface {
	Publish(ctx context.Context, roundID, videoID string, score float64) error
	Clear(ctx context.Context, roundID string) error
}

// Finalizer ends a round: it scores every entered video against the
// round's weight bundle, ranks the field, marks winners, publishes the
// final standings and completes the round.
type Finalizer struct {
	rounds    RoundRepository
	videos    video.VideoRepository
	creators  creator.CreatorRepository
	tunables  scoring.TunablesRepository
	standings StandingsPublisher
	metrics   *Metrics
	logger    *slog.Logger
}

// NewFinalizer creates a new Finalizer. metrics may be nil when the
// caller does not collect them.
func NewFinalizer(
	rounds RoundRepository,
	videos video.VideoRepository,
	creators creator.CreatorRepository,
	tunables scoring.TunablesRepository,
	standings StandingsPublisher,
	metrics *Metrics,
	logger *slog.Logger,
) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalizer{
		rounds:    rounds,
		videos:    videos,
		creators:  creators,
		tunables:  tunables,
		standings: standings,
		metrics:   metrics,
		logger:    logger,
	}
}

// Finalize ends the given round and returns its final standings in rank
// order. The top WinnerCount entries are winners; the top
// SpecialWinnerCount of those are special winners. Standings are
// append-only: callers persist them once and never mutate them.
func (f *Finalizer) Finalize(ctx context.Context, roundID string) ([]Standing, error) {
	start := time.Now()

	round, err := f.rounds.GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to load round: %w", err)
	}
	if round.Status != StatusActive {
		return nil, ErrRoundNotActive
	}

	tun, err := f.tunables.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tunables: %w", err)
	}
	if tun == nil {
		tun = scoring.DefaultTunables()
	}

	videos, err := f.videos.ListByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list round videos: %w", err)
	}

	weights := round.EffectiveWeights()
	now := time.Now()

	scored := make([]*scoring.Score, 0, len(videos))
	byID := make(map[string]*video.Video, len(videos))
	for _, v := range videos {
		c, err := f.creators.GetByID(ctx, v.CreatorID)
		if err != nil {
			return nil, fmt.Errorf("failed to load creator %s: %w", v.CreatorID, err)
		}
		scored = append(scored, scoring.ScoreVideo(v, c, weights, tun, now))
		byID[v.ID] = v
	}

	// Rank by total score; break ties on raw view count, then video ID,
	// so the final ordering is reproducible.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Total != scored[j].Total {
			return scored[i].Total > scored[j].Total
		}
		vi, vj := byID[scored[i].VideoID], byID[scored[j].VideoID]
		if vi.ViewCount != vj.ViewCount {
			return vi.ViewCount > vj.ViewCount
		}
		return scored[i].VideoID < scored[j].VideoID
	})

	standings := make([]Standing, 0, len(scored))
	for i, s := range scored {
		rank := i + 1
		standings = append(standings, Standing{
			RoundID:       roundID,
			VideoID:       s.VideoID,
			CreatorID:     byID[s.VideoID].CreatorID,
			Rank:          rank,
			Score:         s.Total,
			Winner:        rank <= round.WinnerCount,
			SpecialWinner: rank <= round.SpecialWinnerCount,
			ComputedAt:    now,
		})
	}

	if f.standings != nil {
		if err := f.standings.Clear(ctx, roundID); err != nil {
			return nil, err
		}
		for _, s := range standings {
			if err := f.standings.Publish(ctx, roundID, s.VideoID, s.Score); err != nil {
				return nil, err
			}
		}
	}

	if err := f.rounds.SetStatus(ctx, roundID, StatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete round: %w", err)
	}

	if f.metrics != nil {
		f.metrics.IncFinalizeTotal()
		f.metrics.ObserveFinalizeDuration(time.Since(start).Seconds())
		f.metrics.SetLastFinalizeVideoCount(float64(len(standings)))
	}
	f.logger.Info("round finalized",
		"round_id", roundID,
		"videos", len(standings),
		"winners", min(round.WinnerCount, len(standings)),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return standings, nil
}

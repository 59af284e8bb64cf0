package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelrally/reelrally/internal/competition"
	"github.com/reelrally/reelrally/internal/creator"
	"github.com/reelrally/reelrally/internal/follow"
	"github.com/reelrally/reelrally/internal/preference"
	"github.com/reelrally/reelrally/internal/scoring"
	"github.com/reelrally/reelrally/internal/video"
)

// ErrInvalidPageSize is returned for a non-positive page size. This is
// the one programmer-error contract violation in the read path; all
// data-shape problems degrade to documented defaults instead.
var ErrInvalidPageSize = errors.New("page size must be positive")

// RankedVideo is one feed entry: the video, its personalized ranking
// score, and the score record it was derived from.
type RankedVideo struct {
	Video  *video.Video   `json:"video"`
	Score  float64        `json:"score"`
	Record *scoring.Score `json:"record"`
}

// Engine is the recommendation engine read path. It holds no mutable
// state of its own: every call reads fresh snapshots from the stores,
// so concurrent feed requests are fully independent.
type Engine struct {
	videos   video.VideoRepository
	creators creator.CreatorRepository
	prefs    preference.PreferenceRepository
	follows  follow.FollowRepository
	rounds   competition.RoundRepository
	tunables scoring.TunablesRepository
	metrics  *Metrics
	logger   *slog.Logger
}

// NewEngine creates a new feed engine. metrics may be nil when the
// caller does not collect them.
func NewEngine(
	videos video.VideoRepository,
	creators creator.CreatorRepository,
	prefs preference.PreferenceRepository,
	follows follow.FollowRepository,
	rounds competition.RoundRepository,
	tunables scoring.TunablesRepository,
	metrics *Metrics,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		videos:   videos,
		creators: creators,
		prefs:    prefs,
		follows:  follows,
		rounds:   rounds,
		tunables: tunables,
		metrics:  metrics,
		logger:   logger,
	}
}

// ScoreVideo computes the score record for one video against a weight
// bundle, using the active tunables snapshot.
func (e *Engine) ScoreVideo(ctx context.Context, v *video.Video, w scoring.Weights) (*scoring.Score, error) {
	tun, err := e.activeTunables(ctx)
	if err != nil {
		return nil, err
	}

	c, err := e.creators.GetByID(ctx, v.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}
	return scoring.ScoreVideo(v, c, w, tun, time.Now()), nil
}

// BuildFeed assembles a personalized feed of up to pageSize videos from
// the active round. An empty viewerID means an anonymous viewer: the
// composite scores pass through unpersonalized. When no round is active
// the feed is empty, not an error.
func (e *Engine) BuildFeed(ctx context.Context, viewerID string, pageSize int) ([]RankedVideo, error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	start := time.Now()

	tun, err := e.activeTunables(ctx)
	if err != nil {
		return nil, err
	}

	round, err := e.rounds.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active round: %w", err)
	}
	if round == nil {
		return []RankedVideo{}, nil
	}

	candidates, err := e.videos.ListByRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []RankedVideo{}, nil
	}

	// Viewer taste state. An absent profile is a valid outcome: the
	// viewer simply has nothing learned yet.
	var profile *preference.Profile
	following := map[string]struct{}{}
	if viewerID != "" {
		profile, err = e.prefs.GetByViewer(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
		following, err = e.follows.Following(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load follow set: %w", err)
		}
	}

	weights := round.EffectiveWeights()
	now := time.Now()

	// Scoring and personalization are pure per candidate: fan out
	// across the set, land each result in its own slot, and only then
	// run the order-sensitive selection pass.
	ranked := make([]RankedVideo, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, v := range candidates {
		g.Go(func() error {
			c, err := e.creators.GetByID(gctx, v.CreatorID)
			if err != nil {
				return fmt.Errorf("failed to load creator %s: %w", v.CreatorID, err)
			}
			record := scoring.ScoreVideo(v, c, weights, tun, now)
			ranked[i] = RankedVideo{
				Video:  v,
				Score:  personalize(record.Total, v, profile, following, tun),
				Record: record,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortRanked(ranked)
	result := selectDiverse(ranked, tun.MaxPerCreator, tun.MaxPerHashtag, pageSize)

	if e.metrics != nil {
		e.metrics.IncFeedsTotal(viewerID != "")
		e.metrics.ObserveFeedDuration(time.Since(start).Seconds())
		e.metrics.ObserveCandidateCount(float64(len(candidates)))
	}
	e.logger.Debug("feed built",
		"round_id", round.ID,
		"candidates", len(candidates),
		"returned", len(result),
		"personalized", viewerID != "",
	)

	return result, nil
}

// activeTunables returns the active tunables bundle, creating and
// persisting the defaults on first use so they stabilize. A failed
// persist is logged and tolerated: the defaults still apply to this
// request.
func (e *Engine) activeTunables(ctx context.Context) (*scoring.Tunables, error) {
	tun, err := e.tunables.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tunables: %w", err)
	}
	if tun == nil {
		tun = scoring.DefaultTunables()
		if err := e.tunables.Save(ctx, tun); err != nil {
			e.logger.Warn("failed to persist default tunables", "error", err)
		}
	}
	return tun, nil
}

// sortRanked orders candidates by personalized score descending,
// breaking ties on raw view count descending, then video ID ascending.
// The diversity pass is order-sensitive, so the ordering must be
// reproducible for identical inputs.
func sortRanked(ranked []RankedVideo) {
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Video.ViewCount != ranked[j].Video.ViewCount {
			return ranked[i].Video.ViewCount > ranked[j].Video.ViewCount
		}
		return ranked[i].Video.ID < ranked[j].Video.ID
	})
}

package video

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresVideoRepository implements VideoRepository using PostgreSQL.
// Counter increments run as single UPDATE statements so concurrent
// interaction events never lose counts.
type PostgresVideoRepository struct {
	db *sql.DB
}

// NewPostgresVideoRepository creates a new PostgresVideoRepository.
func NewPostgresVideoRepository(db *sql.DB) *PostgresVideoRepository {
	return &PostgresVideoRepository{db: db}
}

// Create inserts a new video.
func (r *PostgresVideoRepository) Create(ctx context.Context, v *Video) error {
	query := `
		INSERT INTO videos (
			id, creator_id, round_id, title, hashtags, duration,
			uploaded_at, status,
			view_count, like_count, comment_count, share_count,
			completion_rate, replay_rate, engagement_rate, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.CreatorID, v.RoundID, v.Title, pq.Array(v.Hashtags), v.Duration,
		v.UploadedAt, v.Status,
		v.ViewCount, v.LikeCount, v.CommentCount, v.ShareCount,
		v.CompletionRate, v.ReplayRate, v.EngagementRate, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

// GetByID retrieves a video by its UUID.
func (r *PostgresVideoRepository) GetByID(ctx context.Context, id string) (*Video, error) {
	query := `
		SELECT id, creator_id, round_id, title, hashtags, duration,
		       uploaded_at, status,
		       view_count, like_count, comment_count, share_count,
		       completion_rate, replay_rate, engagement_rate, updated_at
		FROM videos
		WHERE id = $1
	`

	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return v, nil
}

// ListByRound returns all active videos entered in a round.
func (r *PostgresVideoRepository) ListByRound(ctx context.Context, roundID string) ([]*Video, error) {
	query := `
		SELECT id, creator_id, round_id, title, hashtags, duration,
		       uploaded_at, status,
		       view_count, like_count, comment_count, share_count,
		       completion_rate, replay_rate, engagement_rate, updated_at
		FROM videos
		WHERE round_id = $1 AND status = $2
	`

	rows, err := r.db.QueryContext(ctx, query, roundID, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var result []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}
	return result, nil
}

// IncrementCounters atomically applies counter increments in a single
// UPDATE statement.
func (r *PostgresVideoRepository) IncrementCounters(ctx context.Context, id string, delta CounterDelta) error {
	query := `
		UPDATE videos
		SET view_count    = view_count + $2,
		    like_count    = like_count + $3,
		    comment_count = comment_count + $4,
		    share_count   = share_count + $5,
		    updated_at    = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, delta.Views, delta.Likes, delta.Comments, delta.Shares)
	if err != nil {
		return fmt.Errorf("failed to increment counters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// UpdateRates applies new derived-rate values. Nil fields are skipped
// via COALESCE so a partial update never clobbers the other rates.
func (r *PostgresVideoRepository) UpdateRates(ctx context.Context, id string, update RateUpdate) error {
	query := `
		UPDATE videos
		SET completion_rate = COALESCE($2, completion_rate),
		    replay_rate     = COALESCE($3, replay_rate),
		    engagement_rate = COALESCE($4, engagement_rate),
		    updated_at      = NOW()
		WHERE id = $1
	`

	var completion, replay, engagement *float64
	if update.CompletionRate != nil {
		c := ClampRate(*update.CompletionRate)
		completion = &c
	}
	if update.ReplayRate != nil {
		rr := ClampRate(*update.ReplayRate)
		replay = &rr
	}
	engagement = update.EngagementRate

	res, err := r.db.ExecContext(ctx, query, id, completion, replay, engagement)
	if err != nil {
		return fmt.Errorf("failed to update rates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*Video, error) {
	var v Video
	var hashtags pq.StringArray
	err := row.Scan(
		&v.ID, &v.CreatorID, &v.RoundID, &v.Title, &hashtags, &v.Duration,
		&v.UploadedAt, &v.Status,
		&v.ViewCount, &v.LikeCount, &v.CommentCount, &v.ShareCount,
		&v.CompletionRate, &v.ReplayRate, &v.EngagementRate, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Hashtags = []string(hashtags)
	return &v, nil
}

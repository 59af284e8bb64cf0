package creator

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresCreatorRepository implements CreatorRepository using PostgreSQL.
type PostgresCreatorRepository struct {
	db *sql.DB
}

// NewPostgresCreatorRepository creates a new PostgresCreatorRepository.
func NewPostgresCreatorRepository(db *sql.DB) *PostgresCreatorRepository {
	return &PostgresCreatorRepository{db: db}
}

// GetByID retrieves a creator by ID, or (nil, nil) when absent.
func (r *PostgresCreatorRepository) GetByID(ctx context.Context, id string) (*Creator, error) {
	query := `
		SELECT id, handle, verified, follower_count, total_views, total_likes, created_at
		FROM creators
		WHERE id = $1
	`

	var c Creator
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Handle, &c.Verified, &c.FollowerCount, &c.TotalViews, &c.TotalLikes, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	return &c, nil
}

// Upsert inserts or replaces a creator record.
func (r *PostgresCreatorRepository) Upsert(ctx context.Context, c *Creator) error {
	query := `
		INSERT INTO creators (id, handle, verified, follower_count, total_views, total_likes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			handle = EXCLUDED.handle,
			verified = EXCLUDED.verified,
			follower_count = EXCLUDED.follower_count,
			total_views = EXCLUDED.total_views,
			total_likes = EXCLUDED.total_likes
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Handle, c.Verified, c.FollowerCount, c.TotalViews, c.TotalLikes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert creator: %w", err)
	}
	return nil
}

package follow

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresFollowRepository implements FollowRepository using PostgreSQL.
type PostgresFollowRepository struct {
	db *sql.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository.
func NewPostgresFollowRepository(db *sql.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Following returns the set of creator IDs the viewer follows.
func (r *PostgresFollowRepository) Following(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	query := `SELECT creator_id FROM follows WHERE viewer_id = $1`

	rows, err := r.db.QueryContext(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	defer rows.Close()

	result := make(map[string]struct{})
	for rows.Next() {
		var creatorID string
		if err := rows.Scan(&creatorID); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		result[creatorID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate follows: %w", err)
	}
	return result, nil
}

// Follow records that a viewer follows a creator. Idempotent via
// ON CONFLICT DO NOTHING.
func (r *PostgresFollowRepository) Follow(ctx context.Context, viewerID, creatorID string) error {
	query := `
		INSERT INTO follows (viewer_id, creator_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (viewer_id, creator_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, viewerID, creatorID); err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

// Unfollow removes a follow edge.
func (r *PostgresFollowRepository) Unfollow(ctx context.Context, viewerID, creatorID string) error {
	query := `DELETE FROM follows WHERE viewer_id = $1 AND creator_id = $2`

	if _, err := r.db.ExecContext(ctx, query, viewerID, creatorID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

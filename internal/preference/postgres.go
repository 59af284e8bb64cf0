package preference

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresPreferenceRepository implements PreferenceRepository using
// PostgreSQL. Upsert replaces the whole profile document atomically,
// giving the last-writer-wins semantics the learner contract allows.
type PostgresPreferenceRepository struct {
	db *sql.DB
}

// NewPostgresPreferenceRepository creates a new PostgresPreferenceRepository.
func NewPostgresPreferenceRepository(db *sql.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

// GetByViewer retrieves a viewer's profile, or (nil, nil) when absent.
func (r *PostgresPreferenceRepository) GetByViewer(ctx context.Context, viewerID string) (*Profile, error) {
	query := `
		SELECT viewer_id, preferred_hashtags, preferred_creators, skipped_hashtags,
		       preferred_duration, updated_at
		FROM viewer_preferences
		WHERE viewer_id = $1
	`

	var p Profile
	var preferred, creators, skipped pq.StringArray
	err := r.db.QueryRowContext(ctx, query, viewerID).Scan(
		&p.ViewerID, &preferred, &creators, &skipped, &p.PreferredDuration, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	p.PreferredHashtags = []string(preferred)
	p.PreferredCreators = []string(creators)
	p.SkippedHashtags = []string(skipped)
	return &p, nil
}

// Upsert inserts or replaces the profile for its viewer.
func (r *PostgresPreferenceRepository) Upsert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO viewer_preferences (
			viewer_id, preferred_hashtags, preferred_creators, skipped_hashtags,
			preferred_duration, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (viewer_id) DO UPDATE SET
			preferred_hashtags = EXCLUDED.preferred_hashtags,
			preferred_creators = EXCLUDED.preferred_creators,
			skipped_hashtags = EXCLUDED.skipped_hashtags,
			preferred_duration = EXCLUDED.preferred_duration,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ViewerID,
		pq.Array(p.PreferredHashtags),
		pq.Array(p.PreferredCreators),
		pq.Array(p.SkippedHashtags),
		p.PreferredDuration,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}

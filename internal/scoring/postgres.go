package scoring

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresTunablesRepository implements TunablesRepository using
// PostgreSQL.
type PostgresTunablesRepository struct {
	db *sql.DB
}

// NewPostgresTunablesRepository creates a new PostgresTunablesRepository.
func NewPostgresTunablesRepository(db *sql.DB) *PostgresTunablesRepository {
	return &PostgresTunablesRepository{db: db}
}

// GetActive returns the active bundle, or (nil, nil) when none exists.
func (r *PostgresTunablesRepository) GetActive(ctx context.Context) (*Tunables, error) {
	query := `
		SELECT id, name, version, recency_factor, half_life_days,
		       follow_boost, hashtag_boost, skip_penalty,
		       max_per_creator, max_per_hashtag, active, created_at, updated_at
		FROM algorithm_tunables
		WHERE active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var t Tunables
	err := r.db.QueryRowContext(ctx, query).Scan(
		&t.ID, &t.Name, &t.Version, &t.RecencyFactor, &t.HalfLifeDays,
		&t.FollowBoost, &t.HashtagBoost, &t.SkipPenalty,
		&t.MaxPerCreator, &t.MaxPerHashtag, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active tunables: %w", err)
	}
	return &t, nil
}

// Save persists a bundle. Saving an active bundle deactivates any
// previously active one inside a single transaction.
func (r *PostgresTunablesRepository) Save(ctx context.Context, t *Tunables) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if t.Active {
		if _, err := tx.ExecContext(ctx, `UPDATE algorithm_tunables SET active = FALSE WHERE active = TRUE`); err != nil {
			return fmt.Errorf("failed to deactivate tunables: %w", err)
		}
	}

	query := `
		INSERT INTO algorithm_tunables (
			id, name, version, recency_factor, half_life_days,
			follow_boost, hashtag_boost, skip_penalty,
			max_per_creator, max_per_hashtag, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`

	_, err = tx.ExecContext(ctx, query,
		t.ID, t.Name, t.Version, t.RecencyFactor, t.HalfLifeDays,
		t.FollowBoost, t.HashtagBoost, t.SkipPenalty,
		t.MaxPerCreator, t.MaxPerHashtag, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tunables: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tunables: %w", err)
	}
	return nil
}

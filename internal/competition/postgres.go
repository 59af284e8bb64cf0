package competition

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRoundRepository implements RoundRepository using PostgreSQL.
type PostgresRoundRepository struct {
	db *sql.DB
}

// NewPostgresRoundRepository creates a new PostgresRoundRepository.
func NewPostgresRoundRepository(db *sql.DB) *PostgresRoundRepository {
	return &PostgresRoundRepository{db: db}
}

const roundColumns = `
	id, title, description, start_at, end_at, status,
	entry_fee, total_revenue, prize_pool, participant_count, video_count,
	winner_count, special_winner_count,
	view_weight, like_weight, comment_weight, share_weight, completion_weight,
	created_at
`

// Create inserts a new round.
func (r *PostgresRoundRepository) Create(ctx context.Context, round *Round) error {
	query := `
		INSERT INTO competition_rounds (` + roundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.ExecContext(ctx, query,
		round.ID, round.Title, round.Description, round.StartAt, round.EndAt, round.Status,
		round.EntryFee, round.TotalRevenue, round.PrizePool, round.ParticipantCount, round.VideoCount,
		round.WinnerCount, round.SpecialWinnerCount,
		round.Weights.View, round.Weights.Like, round.Weights.Comment, round.Weights.Share, round.Weights.Completion,
		round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

// GetByID retrieves a round by ID.
func (r *PostgresRoundRepository) GetByID(ctx context.Context, id string) (*Round, error) {
	query := `SELECT ` + roundColumns + ` FROM competition_rounds WHERE id = $1`

	round, err := scanRound(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// GetActive returns the currently active round, or (nil, nil).
func (r *PostgresRoundRepository) GetActive(ctx context.Context) (*Round, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM competition_rounds
		WHERE status = $1
		ORDER BY start_at DESC
		LIMIT 1
	`

	round, err := scanRound(r.db.QueryRowContext(ctx, query, StatusActive))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active round: %w", err)
	}
	return round, nil
}

// SetStatus transitions a round to a new status.
func (r *PostgresRoundRepository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE competition_rounds SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update round status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrRoundNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (*Round, error) {
	var round Round
	err := row.Scan(
		&round.ID, &round.Title, &round.Description, &round.StartAt, &round.EndAt, &round.Status,
		&round.EntryFee, &round.TotalRevenue, &round.PrizePool, &round.ParticipantCount, &round.VideoCount,
		&round.WinnerCount, &round.SpecialWinnerCount,
		&round.Weights.View, &round.Weights.Like, &round.Weights.Comment, &round.Weights.Share, &round.Weights.Completion,
		&round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

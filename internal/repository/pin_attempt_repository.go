package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PinAttempt is one audited PIN evaluation of the role panel.
type PinAttempt struct {
	ID         string
	BusinessID string
	SessionID  string
	Category   string
	AccountID  string
	Outcome    string
	CreatedAt  time.Time
}

// PinAttemptRepository persists the PIN audit trail.
type PinAttemptRepository interface {
	Create(ctx context.Context, attempt *PinAttempt) error
	ListRecent(ctx context.Context, businessID string, limit int) ([]PinAttempt, error)
	CountOutcomeSince(ctx context.Context, businessID, accountID, outcome string, since time.Time) (int, error)
}

type pinAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewPinAttemptRepository instantiates the repository.
func NewPinAttemptRepository(pool *pgxpool.Pool) PinAttemptRepository {
	return &pinAttemptRepository{pool: pool}
}

func (r *pinAttemptRepository) Create(ctx context.Context, attempt *PinAttempt) error {
	const query = `
        INSERT INTO pin_attempts (id, business_id, session_id, category, account_id, outcome)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`

	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	return r.pool.QueryRow(ctx, query,
		attempt.ID,
		attempt.BusinessID,
		attempt.SessionID,
		attempt.Category,
		attempt.AccountID,
		attempt.Outcome,
	).Scan(&attempt.CreatedAt)
}

func (r *pinAttemptRepository) ListRecent(ctx context.Context, businessID string, limit int) ([]PinAttempt, error) {
	const query = `
        SELECT id, business_id, session_id, category, account_id, outcome, created_at
        FROM pin_attempts
        WHERE business_id=$1
        ORDER BY created_at DESC
        LIMIT $2`

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, query, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PinAttempt
	for rows.Next() {
		var a PinAttempt
		if err := rows.Scan(
			&a.ID,
			&a.BusinessID,
			&a.SessionID,
			&a.Category,
			&a.AccountID,
			&a.Outcome,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *pinAttemptRepository) CountOutcomeSince(ctx context.Context, businessID, accountID, outcome string, since time.Time) (int, error) {
	const query = `
        SELECT COUNT(*) FROM pin_attempts
        WHERE business_id=$1 AND account_id=$2 AND outcome=$3 AND created_at >= $4`

	var count int
	if err := r.pool.QueryRow(ctx, query, businessID, accountID, outcome, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

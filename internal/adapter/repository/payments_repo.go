package repository

import (
	"context"
	"errors"

	"resume-analyzer/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNoDatabase is returned when the service runs without a database. A
// confirmed charge must never be reported as recorded while nothing was
// stored, so history operations fail instead of degrading.
var ErrNoDatabase = errors.New("payment history requires a database")

// PaymentsRepo persists payment records. It satisfies the orchestrator's
// history interface.
type PaymentsRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentsRepo(pool *pgxpool.Pool) *PaymentsRepo {
	return &PaymentsRepo{pool: pool}
}

func (r *PaymentsRepo) Append(ctx context.Context, rec domain.PaymentRecord) error {
	if r.pool == nil {
		return ErrNoDatabase
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO payment_records (id, user_id, payment_intent_id, amount, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.UserID, rec.IntentID, rec.Amount, rec.Status, rec.CreatedAt)
	return err
}

func (r *PaymentsRepo) List(ctx context.Context, userID string) ([]domain.PaymentRecord, error) {
	if r.pool == nil {
		return nil, ErrNoDatabase
	}

	rows, err := r.pool.Query(ctx, `SELECT id, user_id, payment_intent_id, amount, status, created_at
		FROM payment_records WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PaymentRecord
	for rows.Next() {
		var rec domain.PaymentRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.IntentID, &rec.Amount, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

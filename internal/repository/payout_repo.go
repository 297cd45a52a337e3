package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/models"
)

// payoutRepo handles outbound transfer records.
type payoutRepo struct {
	ext sqlx.ExtContext
}

const payoutColumns = `id, address, amount, kind, reference, status, attempts,
        last_error, created_at, sent_at`

// Create appends a payout record and assigns its id.
func (r *payoutRepo) Create(ctx context.Context, p *models.Payout) error {
	const q = `
        INSERT INTO payouts (address, amount, kind, reference, status, attempts, created_at)
        VALUES ($1,$2,$3,$4,$5,0,NOW())
        RETURNING id, created_at`
	return r.ext.QueryRowxContext(ctx, q,
		p.Address, p.Amount, p.Kind, p.Reference, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

// ListUnsent returns payouts still owed, oldest first, skipping those
// past the attempt budget so a broken gateway cannot spin forever.
func (r *payoutRepo) ListUnsent(ctx context.Context, maxAttempts int) ([]models.Payout, error) {
	const q = `SELECT ` + payoutColumns + ` FROM payouts
        WHERE status IN ('pending', 'failed') AND attempts < $1
        ORDER BY created_at ASC, id ASC`
	payouts := []models.Payout{}
	if err := sqlx.SelectContext(ctx, r.ext, &payouts, q, maxAttempts); err != nil {
		return nil, err
	}
	return payouts, nil
}

// MarkSent records a successful transfer.
func (r *payoutRepo) MarkSent(ctx context.Context, id int64) error {
	const q = `UPDATE payouts SET status = 'sent', attempts = attempts + 1, sent_at = NOW()
        WHERE id = $1 AND status <> 'sent'`
	res, err := r.ext.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkFailed records a failed transfer attempt for later retry.
func (r *payoutRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	const q = `UPDATE payouts SET status = 'failed', attempts = attempts + 1, last_error = $2
        WHERE id = $1 AND status <> 'sent'`
	res, err := r.ext.ExecContext(ctx, q, id, reason)
	if err != nil {
		return err
	}
	return requireRow(res)
}

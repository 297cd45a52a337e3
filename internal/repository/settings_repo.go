package repository

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// settingsRepo stores the ledger scalars as keyed rows.
type settingsRepo struct {
	ext sqlx.ExtContext
}

const (
	settingServicePct = "service_pct"
	settingFeePool    = "fee_pool"
)

func (r *settingsRepo) get(ctx context.Context, key string) (int64, error) {
	const q = `SELECT value FROM settings WHERE key = $1`
	var raw string
	if err := sqlx.GetContext(ctx, r.ext, &raw, q, key); err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// ServicePct returns the current service fee percentage.
func (r *settingsRepo) ServicePct(ctx context.Context) (int, error) {
	v, err := r.get(ctx, settingServicePct)
	return int(v), err
}

// SetServicePct stores a new service fee percentage. Historical
// purchases keep the fee they were computed with.
func (r *settingsRepo) SetServicePct(ctx context.Context, pct int) error {
	const q = `UPDATE settings SET value = $2, updated_at = NOW() WHERE key = $1`
	res, err := r.ext.ExecContext(ctx, q, settingServicePct, strconv.Itoa(pct))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// FeePool returns the accumulated platform fee balance.
func (r *settingsRepo) FeePool(ctx context.Context) (int64, error) {
	return r.get(ctx, settingFeePool)
}

// AddFeePool credits the platform fee pool.
func (r *settingsRepo) AddFeePool(ctx context.Context, amount int64) error {
	const q = `UPDATE settings SET value = (value::bigint + $2)::text, updated_at = NOW() WHERE key = $1`
	res, err := r.ext.ExecContext(ctx, q, settingFeePool, amount)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// EnsureDefaults seeds missing settings rows at startup.
func (r *settingsRepo) EnsureDefaults(ctx context.Context, servicePct int) error {
	const q = `INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`
	if _, err := r.ext.ExecContext(ctx, q, settingServicePct, strconv.Itoa(servicePct)); err != nil {
		return err
	}
	_, err := r.ext.ExecContext(ctx, q, settingFeePool, "0")
	return err
}

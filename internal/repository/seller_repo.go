package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/models"
)

// sellerRepo handles data access for seller accounts.
type sellerRepo struct {
	ext sqlx.ExtContext
}

const sellerColumns = `address, business_name, description, email, phone, logo,
        terms_accepted, status, balance, registered_at, updated_at`

// Get returns a seller by address.
func (r *sellerRepo) Get(ctx context.Context, address string) (*models.Seller, error) {
	const q = `SELECT ` + sellerColumns + ` FROM sellers WHERE address = $1`
	var s models.Seller
	if err := sqlx.GetContext(ctx, r.ext, &s, q, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetForUpdate returns a seller by address with a row lock.
func (r *sellerRepo) GetForUpdate(ctx context.Context, address string) (*models.Seller, error) {
	const q = `SELECT ` + sellerColumns + ` FROM sellers WHERE address = $1 FOR UPDATE`
	var s models.Seller
	if err := sqlx.GetContext(ctx, r.ext, &s, q, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new seller row.
func (r *sellerRepo) Create(ctx context.Context, s *models.Seller) error {
	const q = `
        INSERT INTO sellers (
            address, business_name, description, email, phone, logo,
            terms_accepted, status, balance, registered_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
        RETURNING registered_at`
	return r.ext.QueryRowxContext(ctx, q,
		s.Address, s.BusinessName, s.Description, s.Email, s.Phone, s.Logo,
		s.TermsAccepted, s.Status, s.Balance,
	).Scan(&s.RegisteredAt)
}

// UpdateProfile updates the profile fields and status of a seller.
func (r *sellerRepo) UpdateProfile(ctx context.Context, s *models.Seller) error {
	const q = `
        UPDATE sellers SET
            business_name = $2,
            description = $3,
            email = $4,
            phone = $5,
            logo = $6,
            terms_accepted = $7,
            status = $8,
            updated_at = NOW()
        WHERE address = $1`
	res, err := r.ext.ExecContext(ctx, q,
		s.Address, s.BusinessName, s.Description, s.Email, s.Phone, s.Logo,
		s.TermsAccepted, s.Status,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateStatus transitions a seller to a new status.
func (r *sellerRepo) UpdateStatus(ctx context.Context, address string, status models.SellerStatus) error {
	const q = `UPDATE sellers SET status = $2, updated_at = NOW() WHERE address = $1`
	res, err := r.ext.ExecContext(ctx, q, address, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CreditBalance adds amount to a seller's withdrawable balance.
func (r *sellerRepo) CreditBalance(ctx context.Context, address string, amount int64) error {
	const q = `UPDATE sellers SET balance = balance + $2, updated_at = NOW() WHERE address = $1`
	res, err := r.ext.ExecContext(ctx, q, address, amount)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ZeroBalance resets a seller's balance. The balance CHECK constraint
// keeps it from ever going negative through any other path.
func (r *sellerRepo) ZeroBalance(ctx context.Context, address string) error {
	const q = `UPDATE sellers SET balance = 0, updated_at = NOW() WHERE address = $1`
	res, err := r.ext.ExecContext(ctx, q, address)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// List returns all registered sellers ordered by registration time.
func (r *sellerRepo) List(ctx context.Context) ([]models.Seller, error) {
	const q = `SELECT ` + sellerColumns + ` FROM sellers ORDER BY registered_at ASC`
	sellers := []models.Seller{}
	if err := sqlx.SelectContext(ctx, r.ext, &sellers, q); err != nil {
		return nil, err
	}
	return sellers, nil
}

// ListByStatus returns sellers in the given status, oldest first, so
// the verification queue is processed in arrival order.
func (r *sellerRepo) ListByStatus(ctx context.Context, status models.SellerStatus) ([]models.Seller, error) {
	const q = `SELECT ` + sellerColumns + ` FROM sellers WHERE status = $1 ORDER BY registered_at ASC`
	sellers := []models.Seller{}
	if err := sqlx.SelectContext(ctx, r.ext, &sellers, q, status); err != nil {
		return nil, err
	}
	return sellers, nil
}

// ProductIDs returns the ids of all non-deleted products of a seller.
func (r *sellerRepo) ProductIDs(ctx context.Context, address string) ([]int64, error) {
	const q = `SELECT id FROM products WHERE seller = $1 AND deleted = FALSE ORDER BY id ASC`
	ids := []int64{}
	if err := sqlx.SelectContext(ctx, r.ext, &ids, q, address); err != nil {
		return nil, err
	}
	return ids, nil
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

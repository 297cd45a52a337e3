package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/models"
)

// adminUserRepo handles dashboard operator accounts.
type adminUserRepo struct {
	ext sqlx.ExtContext
}

// GetByEmail returns an admin user by email.
func (r *adminUserRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	const q = `SELECT id, email, password_hash, name, is_active, created_at
        FROM admin_users WHERE email = $1`
	var u models.AdminUser
	if err := sqlx.GetContext(ctx, r.ext, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new admin user.
func (r *adminUserRepo) Create(ctx context.Context, u *models.AdminUser) error {
	const q = `
        INSERT INTO admin_users (email, password_hash, name, is_active, created_at)
        VALUES ($1,$2,$3,$4,NOW())
        RETURNING id, created_at`
	return r.ext.QueryRowxContext(ctx, q,
		u.Email, u.PasswordHash, u.Name, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
}

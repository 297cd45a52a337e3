package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/models"
)

// reviewRepo handles product reviews.
type reviewRepo struct {
	ext sqlx.ExtContext
}

// Create appends a review and assigns its id.
func (r *reviewRepo) Create(ctx context.Context, rv *models.Review) error {
	const q = `
        INSERT INTO reviews (product_id, reviewer, rating, comment, deleted, created_at)
        VALUES ($1,$2,$3,$4,FALSE,NOW())
        RETURNING id, created_at`
	return r.ext.QueryRowxContext(ctx, q,
		rv.ProductID, rv.Reviewer, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
}

// Get returns a review by (product, review) key, including deleted ones.
func (r *reviewRepo) Get(ctx context.Context, productID, reviewID int64) (*models.Review, error) {
	const q = `SELECT id, product_id, reviewer, rating, comment, deleted, created_at
        FROM reviews WHERE product_id = $1 AND id = $2`
	var rv models.Review
	if err := sqlx.GetContext(ctx, r.ext, &rv, q, productID, reviewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// SoftDelete hides a review from listings and rating aggregates.
func (r *reviewRepo) SoftDelete(ctx context.Context, productID, reviewID int64) error {
	const q = `UPDATE reviews SET deleted = TRUE WHERE product_id = $1 AND id = $2`
	res, err := r.ext.ExecContext(ctx, q, productID, reviewID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListByProduct returns non-deleted reviews, newest first.
func (r *reviewRepo) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	const q = `SELECT id, product_id, reviewer, rating, comment, deleted, created_at
        FROM reviews WHERE product_id = $1 AND deleted = FALSE
        ORDER BY created_at DESC, id DESC`
	reviews := []models.Review{}
	if err := sqlx.SelectContext(ctx, r.ext, &reviews, q, productID); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AverageRating aggregates non-deleted reviews only.
func (r *reviewRepo) AverageRating(ctx context.Context, productID int64) (float64, int, error) {
	const q = `SELECT COALESCE(AVG(rating), 0), COUNT(*)
        FROM reviews WHERE product_id = $1 AND deleted = FALSE`
	var avg float64
	var count int
	if err := r.ext.QueryRowxContext(ctx, q, productID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

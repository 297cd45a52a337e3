package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/models"
)

// categoryRepo handles the category taxonomy.
type categoryRepo struct {
	ext sqlx.ExtContext
}

// CreateCategory inserts a top-level category and assigns its id.
func (r *categoryRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	const q = `
        INSERT INTO categories (name, is_active, created_at)
        VALUES ($1,$2,NOW())
        RETURNING id, created_at`
	return r.ext.QueryRowxContext(ctx, q, c.Name, c.IsActive).Scan(&c.ID, &c.CreatedAt)
}

// CreateSubCategory inserts a sub-category under its parent.
func (r *categoryRepo) CreateSubCategory(ctx context.Context, sc *models.SubCategory) error {
	const q = `
        INSERT INTO sub_categories (parent_category_id, name, is_active, created_at)
        VALUES ($1,$2,$3,NOW())
        RETURNING id, created_at`
	return r.ext.QueryRowxContext(ctx, q, sc.ParentCategoryID, sc.Name, sc.IsActive).Scan(&sc.ID, &sc.CreatedAt)
}

// UpdateCategory renames and/or (de)activates a category.
func (r *categoryRepo) UpdateCategory(ctx context.Context, id int64, name string, isActive bool) error {
	const q = `UPDATE categories SET name = $2, is_active = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.ext.ExecContext(ctx, q, id, name, isActive)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateSubCategory renames and/or (de)activates a sub-category.
func (r *categoryRepo) UpdateSubCategory(ctx context.Context, id int64, name string, isActive bool) error {
	const q = `UPDATE sub_categories SET name = $2, is_active = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.ext.ExecContext(ctx, q, id, name, isActive)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// GetCategory returns a category by id.
func (r *categoryRepo) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	const q = `SELECT id, name, is_active, created_at, updated_at FROM categories WHERE id = $1`
	var c models.Category
	if err := sqlx.GetContext(ctx, r.ext, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetSubCategory returns a sub-category by id.
func (r *categoryRepo) GetSubCategory(ctx context.Context, id int64) (*models.SubCategory, error) {
	const q = `SELECT id, parent_category_id, name, is_active, created_at, updated_at
        FROM sub_categories WHERE id = $1`
	var sc models.SubCategory
	if err := sqlx.GetContext(ctx, r.ext, &sc, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

// ListCategories returns every category, active or not, in id order.
// Creation pickers filter on is_active client side.
func (r *categoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	const q = `SELECT id, name, is_active, created_at, updated_at FROM categories ORDER BY id ASC`
	categories := []models.Category{}
	if err := sqlx.SelectContext(ctx, r.ext, &categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListSubCategories returns the sub-categories of a parent in id order.
func (r *categoryRepo) ListSubCategories(ctx context.Context, parentID int64) ([]models.SubCategory, error) {
	const q = `SELECT id, parent_category_id, name, is_active, created_at, updated_at
        FROM sub_categories WHERE parent_category_id = $1 ORDER BY id ASC`
	subs := []models.SubCategory{}
	if err := sqlx.SelectContext(ctx, r.ext, &subs, q, parentID); err != nil {
		return nil, err
	}
	return subs, nil
}

// SubCategoryIDs returns the child ids of a parent category.
func (r *categoryRepo) SubCategoryIDs(ctx context.Context, parentID int64) ([]int64, error) {
	const q = `SELECT id FROM sub_categories WHERE parent_category_id = $1 ORDER BY id ASC`
	ids := []int64{}
	if err := sqlx.SelectContext(ctx, r.ext, &ids, q, parentID); err != nil {
		return nil, err
	}
	return ids, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/models"
)

// productRepo handles data access for catalog listings.
type productRepo struct {
	ext sqlx.ExtContext
}

const productColumns = `id, seller, name, description, price, stock, initial_stock,
        colors, sizes, images, category_id, sub_category_id, weight, model, brand,
        sku, soldout, deleted, created_at, updated_at`

// Create inserts a new product row and assigns its id.
func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	const q = `
        INSERT INTO products (
            seller, name, description, price, stock, initial_stock,
            colors, sizes, images, category_id, sub_category_id,
            weight, model, brand, sku, soldout, deleted, created_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,
            $7,$8,$9,$10,$11,
            $12,$13,$14,$15,$16,FALSE,NOW()
        ) RETURNING id, created_at`
	return r.ext.QueryRowxContext(ctx, q,
		p.Seller, p.Name, p.Description, p.Price, p.Stock, p.InitialStock,
		p.Colors, p.Sizes, p.Images, p.CategoryID, p.SubCategoryID,
		p.Weight, p.Model, p.Brand, p.SKU, p.Soldout,
	).Scan(&p.ID, &p.CreatedAt)
}

// Update rewrites the mutable fields of an existing product.
func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	const q = `
        UPDATE products SET
            name = $2,
            description = $3,
            price = $4,
            stock = $5,
            colors = $6,
            sizes = $7,
            images = $8,
            category_id = $9,
            sub_category_id = $10,
            weight = $11,
            model = $12,
            brand = $13,
            sku = $14,
            soldout = $15,
            updated_at = NOW()
        WHERE id = $1`
	res, err := r.ext.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price, p.Stock,
		p.Colors, p.Sizes, p.Images, p.CategoryID, p.SubCategoryID,
		p.Weight, p.Model, p.Brand, p.SKU, p.Soldout,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SoftDelete marks a product deleted; purchase and review history stay.
func (r *productRepo) SoftDelete(ctx context.Context, id int64) error {
	const q = `UPDATE products SET deleted = TRUE, updated_at = NOW() WHERE id = $1`
	res, err := r.ext.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Get returns a product by id, including soft-deleted ones.
func (r *productRepo) Get(ctx context.Context, id int64) (*models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p models.Product
	if err := sqlx.GetContext(ctx, r.ext, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetForUpdate returns a product by id with a row lock. Purchases lock
// the row so racing buyers for the last unit are strictly serialized.
func (r *productRepo) GetForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	var p models.Product
	if err := sqlx.GetContext(ctx, r.ext, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetStock writes the stock level and soldout flag together so the
// soldout == (stock == 0) invariant holds at every commit.
func (r *productRepo) SetStock(ctx context.Context, id, stock int64, soldout bool) error {
	const q = `UPDATE products SET stock = $2, soldout = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.ext.ExecContext(ctx, q, id, stock, soldout)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListActive returns all non-deleted products, newest first.
func (r *productRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE deleted = FALSE ORDER BY created_at DESC, id DESC`
	products := []models.Product{}
	if err := sqlx.SelectContext(ctx, r.ext, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCategory returns non-deleted products in a category, newest first.
func (r *productRepo) ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
        WHERE deleted = FALSE AND category_id = $1 ORDER BY created_at DESC, id DESC`
	products := []models.Product{}
	if err := sqlx.SelectContext(ctx, r.ext, &products, q, categoryID); err != nil {
		return nil, err
	}
	return products, nil
}

// ListBySeller returns a seller's non-deleted products, newest first.
func (r *productRepo) ListBySeller(ctx context.Context, seller string) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
        WHERE deleted = FALSE AND seller = $1 ORDER BY created_at DESC, id DESC`
	products := []models.Product{}
	if err := sqlx.SelectContext(ctx, r.ext, &products, q, seller); err != nil {
		return nil, err
	}
	return products, nil
}

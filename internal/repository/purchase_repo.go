package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hemshop/hemshop-api/internal/models"
)

// purchaseRepo handles the append-only purchase ledger. Rows are never
// updated except for the one-shot delivery flag, and never deleted.
type purchaseRepo struct {
	ext sqlx.ExtContext
}

const purchaseColumns = `id, product_id, buyer, seller, base_price, total_amount,
        service_fee, quantity, shipping_details, order_details, is_delivered,
        created_at, delivered_at`

// Create appends a purchase record and assigns its id.
func (r *purchaseRepo) Create(ctx context.Context, p *models.Purchase) error {
	const q = `
        INSERT INTO purchases (
            product_id, buyer, seller, base_price, total_amount,
            service_fee, quantity, shipping_details, order_details,
            is_delivered, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,FALSE,NOW())
        RETURNING id, created_at`
	return r.ext.QueryRowxContext(ctx, q,
		p.ProductID, p.Buyer, p.Seller, p.BasePrice, p.TotalAmount,
		p.ServiceFee, p.Quantity, p.ShippingDetails, p.OrderDetails,
	).Scan(&p.ID, &p.CreatedAt)
}

// ListByProductAndBuyer returns the purchases of one buyer for one
// product, oldest first.
func (r *purchaseRepo) ListByProductAndBuyer(ctx context.Context, productID int64, buyer string) ([]models.Purchase, error) {
	const q = `SELECT ` + purchaseColumns + ` FROM purchases
        WHERE product_id = $1 AND buyer = $2 ORDER BY created_at ASC, id ASC`
	purchases := []models.Purchase{}
	if err := sqlx.SelectContext(ctx, r.ext, &purchases, q, productID, buyer); err != nil {
		return nil, err
	}
	return purchases, nil
}

// MarkDelivered flips the delivery flag exactly once.
func (r *purchaseRepo) MarkDelivered(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE purchases SET is_delivered = TRUE, delivered_at = $2
        WHERE id = $1 AND is_delivered = FALSE`
	res, err := r.ext.ExecContext(ctx, q, id, at)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListBySeller returns a seller's sales ordered by timestamp ascending.
func (r *purchaseRepo) ListBySeller(ctx context.Context, seller string) ([]models.Purchase, error) {
	const q = `SELECT ` + purchaseColumns + ` FROM purchases WHERE seller = $1 ORDER BY created_at ASC, id ASC`
	purchases := []models.Purchase{}
	if err := sqlx.SelectContext(ctx, r.ext, &purchases, q, seller); err != nil {
		return nil, err
	}
	return purchases, nil
}

// ListByBuyer returns a buyer's orders ordered by timestamp ascending.
func (r *purchaseRepo) ListByBuyer(ctx context.Context, buyer string) ([]models.Purchase, error) {
	const q = `SELECT ` + purchaseColumns + ` FROM purchases WHERE buyer = $1 ORDER BY created_at ASC, id ASC`
	purchases := []models.Purchase{}
	if err := sqlx.SelectContext(ctx, r.ext, &purchases, q, buyer); err != nil {
		return nil, err
	}
	return purchases, nil
}

// ListAll returns every purchase ordered by timestamp ascending.
func (r *purchaseRepo) ListAll(ctx context.Context) ([]models.Purchase, error) {
	const q = `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY created_at ASC, id ASC`
	purchases := []models.Purchase{}
	if err := sqlx.SelectContext(ctx, r.ext, &purchases, q); err != nil {
		return nil, err
	}
	return purchases, nil
}

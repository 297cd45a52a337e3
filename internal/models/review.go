package models

import "time"

// Review is buyer feedback attached to a product. Soft-deleted reviews
// stay on record but are excluded from listings and rating averages.
type Review struct {
	ID        int64     `db:"id" json:"reviewId"`
	ProductID int64     `db:"product_id" json:"productId"`
	Reviewer  string    `db:"reviewer" json:"reviewer"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	Deleted   bool      `db:"deleted" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

// MaxProductImages caps the number of image URIs per listing.
const MaxProductImages = 5

// Product represents a catalog listing owned by a seller.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID            int64          `db:"id" json:"id"`
	Seller        string         `db:"seller" json:"seller"`
	Name          string         `db:"name" json:"name"`
	Description   string         `db:"description" json:"description"`
	Price         int64          `db:"price" json:"price"`
	Stock         int64          `db:"stock" json:"stock"`
	InitialStock  int64          `db:"initial_stock" json:"initialStock"`
	Colors        pq.StringArray `db:"colors" json:"colors"`
	Sizes         pq.StringArray `db:"sizes" json:"sizes"`
	Images        pq.StringArray `db:"images" json:"images"`
	CategoryID    int64          `db:"category_id" json:"categoryId"`
	SubCategoryID int64          `db:"sub_category_id" json:"subCategoryId"`
	Weight        int64          `db:"weight" json:"weight"`
	Model         string         `db:"model" json:"model"`
	Brand         string         `db:"brand" json:"brand"`
	SKU           string         `db:"sku" json:"sku"`
	Soldout       bool           `db:"soldout" json:"soldout"`
	Deleted       bool           `db:"deleted" json:"deleted"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"-"`

	// AverageRating is computed from live reviews on single-product reads.
	AverageRating float64 `db:"-" json:"averageRating,omitempty"`
}

// ProductInput carries the seller-supplied fields for create and update.
type ProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" binding:"required"`
	Stock         int64    `json:"stock"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	Images        []string `json:"images" binding:"required"`
	CategoryID    int64    `json:"categoryId" binding:"required"`
	SubCategoryID int64    `json:"subCategoryId" binding:"required"`
	Weight        int64    `json:"weight"`
	Model         string   `json:"model"`
	Brand         string   `json:"brand"`
	SKU           string   `json:"sku"`
}

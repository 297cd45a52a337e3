package models

import "time"

// Category is a top-level taxonomy entry. Deactivating a category hides
// it from creation flows; existing products keep their reference.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	// Populated from sub_categories, not a column.
	SubCategoryIDs []int64 `db:"-" json:"subCategoryIds"`
}

// SubCategory is a second-level taxonomy entry under one Category.
type SubCategory struct {
	ID               int64     `db:"id" json:"id"`
	ParentCategoryID int64     `db:"parent_category_id" json:"parentCategoryId"`
	Name             string    `db:"name" json:"name"`
	IsActive         bool      `db:"is_active" json:"isActive"`
	CreatedAt        time.Time `db:"created_at" json:"-"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}

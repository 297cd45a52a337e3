package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hemshop/hemshop-api/internal/models"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

// Store bundles all ledger repositories behind one transactional
// boundary. InTx runs fn against a store view whose mutations either
// all commit or all revert; mutating core operations must go through
// it so no partial state is ever observable.
type Store interface {
	Sellers() SellerRepository
	Products() ProductRepository
	Purchases() PurchaseRepository
	Reviews() ReviewRepository
	Categories() CategoryRepository
	Settings() SettingsRepository
	Payouts() PayoutRepository
	AdminUsers() AdminUserRepository

	InTx(ctx context.Context, fn func(Store) error) error
}

// SellerRepository handles data access for seller accounts.
type SellerRepository interface {
	Get(ctx context.Context, address string) (*models.Seller, error)
	// GetForUpdate locks the seller row for the current transaction.
	GetForUpdate(ctx context.Context, address string) (*models.Seller, error)
	Create(ctx context.Context, s *models.Seller) error
	UpdateProfile(ctx context.Context, s *models.Seller) error
	UpdateStatus(ctx context.Context, address string, status models.SellerStatus) error
	CreditBalance(ctx context.Context, address string, amount int64) error
	ZeroBalance(ctx context.Context, address string) error
	List(ctx context.Context) ([]models.Seller, error)
	ListByStatus(ctx context.Context, status models.SellerStatus) ([]models.Seller, error)
	ProductIDs(ctx context.Context, address string) ([]int64, error)
}

// ProductRepository handles data access for catalog listings.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	SoftDelete(ctx context.Context, id int64) error
	// Get returns the product regardless of its deleted flag; callers
	// decide whether soft-deleted records are visible.
	Get(ctx context.Context, id int64) (*models.Product, error)
	// GetForUpdate locks the product row for the current transaction.
	GetForUpdate(ctx context.Context, id int64) (*models.Product, error)
	SetStock(ctx context.Context, id, stock int64, soldout bool) error
	ListActive(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	ListBySeller(ctx context.Context, seller string) ([]models.Product, error)
}

// PurchaseRepository handles the append-only purchase ledger.
type PurchaseRepository interface {
	Create(ctx context.Context, p *models.Purchase) error
	ListByProductAndBuyer(ctx context.Context, productID int64, buyer string) ([]models.Purchase, error)
	MarkDelivered(ctx context.Context, id int64, at time.Time) error
	ListBySeller(ctx context.Context, seller string) ([]models.Purchase, error)
	ListByBuyer(ctx context.Context, buyer string) ([]models.Purchase, error)
	ListAll(ctx context.Context) ([]models.Purchase, error)
}

// ReviewRepository handles product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	Get(ctx context.Context, productID, reviewID int64) (*models.Review, error)
	SoftDelete(ctx context.Context, productID, reviewID int64) error
	// ListByProduct returns non-deleted reviews, newest first.
	ListByProduct(ctx context.Context, productID int64) ([]models.Review, error)
	// AverageRating aggregates non-deleted reviews only.
	AverageRating(ctx context.Context, productID int64) (avg float64, count int, err error)
}

// CategoryRepository handles the category taxonomy.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	CreateSubCategory(ctx context.Context, sc *models.SubCategory) error
	UpdateCategory(ctx context.Context, id int64, name string, isActive bool) error
	UpdateSubCategory(ctx context.Context, id int64, name string, isActive bool) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	GetSubCategory(ctx context.Context, id int64) (*models.SubCategory, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubCategories(ctx context.Context, parentID int64) ([]models.SubCategory, error)
	SubCategoryIDs(ctx context.Context, parentID int64) ([]int64, error)
}

// SettingsRepository holds the ledger scalars: service fee percentage
// and the accumulated fee pool.
type SettingsRepository interface {
	ServicePct(ctx context.Context) (int, error)
	SetServicePct(ctx context.Context, pct int) error
	FeePool(ctx context.Context) (int64, error)
	AddFeePool(ctx context.Context, amount int64) error
	// EnsureDefaults seeds missing settings rows at startup.
	EnsureDefaults(ctx context.Context, servicePct int) error
}

// PayoutRepository handles outbound transfer records.
type PayoutRepository interface {
	Create(ctx context.Context, p *models.Payout) error
	ListUnsent(ctx context.Context, maxAttempts int) ([]models.Payout, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// AdminUserRepository handles dashboard operator accounts.
type AdminUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, u *models.AdminUser) error
}

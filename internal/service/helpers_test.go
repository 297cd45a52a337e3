package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository/memory"
)

const (
	ownerAddr  = "0x0000000000000000000000000000000000000001"
	sellerAddr = "0x00000000000000000000000000000000000000aa"
	buyerAddr  = "0x00000000000000000000000000000000000000bb"
	otherAddr  = "0x00000000000000000000000000000000000000cc"
)

var (
	adminPrincipal  = models.Principal{Address: ownerAddr, Admin: true}
	sellerPrincipal = models.Principal{Address: sellerAddr}
	buyerPrincipal  = models.Principal{Address: buyerAddr}
	otherPrincipal  = models.Principal{Address: otherAddr}
)

// testEnv bundles a memory store with every service wired against it.
type testEnv struct {
	store    *memory.Store
	sellers  *SellerService
	catalog  *CatalogService
	escrow   *EscrowService
	reviews  *ReviewService
	category *CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Settings().EnsureDefaults(context.Background(), 5))
	return &testEnv{
		store:    store,
		sellers:  NewSellerService(store, nil, ownerAddr),
		catalog:  NewCatalogService(store, nil),
		escrow:   NewEscrowService(store, nil, nil),
		reviews:  NewReviewService(store),
		category: NewCategoryService(store),
	}
}

// registerVerifiedSeller walks a seller through registration and admin
// verification.
func (e *testEnv) registerVerifiedSeller(t *testing.T, addr string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.sellers.RegisterSeller(ctx, models.Principal{Address: addr}, &RegisterSellerInput{
		BusinessName: "Acme Goods",
		Email:        "acme@example.com",
		Phone:        "5550001111",
	})
	require.NoError(t, err)
	_, err = e.sellers.UpdateSellerStatus(ctx, adminPrincipal, addr, models.SellerVerified)
	require.NoError(t, err)
}

// seedCategory creates an active category with one sub-category and
// returns their ids.
func (e *testEnv) seedCategory(t *testing.T) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	cat, err := e.category.CreateCategory(ctx, adminPrincipal, "Apparel")
	require.NoError(t, err)
	sub, err := e.category.CreateSubCategory(ctx, adminPrincipal, cat.ID, "Shirts")
	require.NoError(t, err)
	return cat.ID, sub.ID
}

// seedProduct lists a product for sellerAddr with the given price and stock.
func (e *testEnv) seedProduct(t *testing.T, price, stock int64) *models.Product {
	t.Helper()
	catID, subID := e.seedCategory(t)
	product, err := e.catalog.CreateProduct(context.Background(), sellerPrincipal, &models.ProductInput{
		Name:          "Plain Tee",
		Description:   "A plain tee",
		Price:         price,
		Stock:         stock,
		Colors:        []string{"black", "white"},
		Sizes:         []string{"M", "L"},
		Images:        []string{"ipfs://img-1"},
		CategoryID:    catID,
		SubCategoryID: subID,
	})
	require.NoError(t, err)
	return product
}

func shipping() models.ShippingDetails {
	return models.ShippingDetails{
		FullName:      "Pat Buyer",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		State:         "IL",
		Country:       "US",
		PostalCode:    "62701",
		Phone:         "5552223333",
		Email:         "pat@example.com",
	}
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/utils"
)

func TestCreateProductRequiresVerifiedSeller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	catID, subID := env.seedCategory(t)

	input := &models.ProductInput{
		Name: "Plain Tee", Price: 1000, Stock: 5,
		Images: []string{"ipfs://img-1"}, CategoryID: catID, SubCategoryID: subID,
	}

	// Unknown address.
	_, err := env.catalog.CreateProduct(ctx, sellerPrincipal, input)
	assert.ErrorIs(t, err, utils.ErrSellerNotVerified)

	// Pending seller.
	_, err = env.sellers.RegisterSeller(ctx, sellerPrincipal, &RegisterSellerInput{
		BusinessName: "Acme Goods", Email: "acme@example.com", Phone: "5550001111",
	})
	require.NoError(t, err)
	_, err = env.catalog.CreateProduct(ctx, sellerPrincipal, input)
	assert.ErrorIs(t, err, utils.ErrSellerNotVerified)

	_, err = env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, models.SellerVerified)
	require.NoError(t, err)
	product, err := env.catalog.CreateProduct(ctx, sellerPrincipal, input)
	require.NoError(t, err)
	assert.Equal(t, sellerAddr, product.Seller)
	assert.Equal(t, int64(5), product.InitialStock)
	assert.False(t, product.Soldout)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	catID, subID := env.seedCategory(t)

	base := func() *models.ProductInput {
		return &models.ProductInput{
			Name: "Plain Tee", Price: 1000, Stock: 5,
			Images: []string{"ipfs://img-1"}, CategoryID: catID, SubCategoryID: subID,
		}
	}

	in := base()
	in.Price = 0
	_, err := env.catalog.CreateProduct(ctx, sellerPrincipal, in)
	assert.ErrorIs(t, err, utils.ErrInvalidPrice)

	in = base()
	in.Stock = -1
	_, err = env.catalog.CreateProduct(ctx, sellerPrincipal, in)
	assert.ErrorIs(t, err, utils.ErrInvalidStock)

	in = base()
	in.Images = nil
	_, err = env.catalog.CreateProduct(ctx, sellerPrincipal, in)
	assert.ErrorIs(t, err, utils.ErrNoImages)

	in = base()
	in.Images = []string{"a", "b", "c", "d", "e", "f"}
	_, err = env.catalog.CreateProduct(ctx, sellerPrincipal, in)
	assert.ErrorIs(t, err, utils.ErrTooManyImages)

	in = base()
	in.CategoryID = 999
	_, err = env.catalog.CreateProduct(ctx, sellerPrincipal, in)
	assert.ErrorIs(t, err, utils.ErrInvalidCategory)

	// Sub-category must belong to the named category.
	otherCat, err := env.category.CreateCategory(ctx, adminPrincipal, "Footwear")
	require.NoError(t, err)
	in = base()
	in.CategoryID = otherCat.ID
	_, err = env.catalog.CreateProduct(ctx, sellerPrincipal, in)
	assert.ErrorIs(t, err, utils.ErrInvalidCategory)

	// Deactivated categories stop accepting listings.
	require.NoError(t, env.category.DeleteCategory(ctx, adminPrincipal, catID))
	in = base()
	_, err = env.catalog.CreateProduct(ctx, sellerPrincipal, in)
	assert.ErrorIs(t, err, utils.ErrInvalidCategory)
}

func TestUpdateProductOwnershipAndInitialStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 5)

	update := &models.ProductInput{
		Name: "Restocked Tee", Price: 1200, Stock: 20,
		Images: []string{"ipfs://img-2"}, CategoryID: product.CategoryID, SubCategoryID: product.SubCategoryID,
	}

	_, err := env.catalog.UpdateProduct(ctx, otherPrincipal, product.ID, update)
	assert.ErrorIs(t, err, utils.ErrNotOwningSeller)

	updated, err := env.catalog.UpdateProduct(ctx, sellerPrincipal, product.ID, update)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), updated.Price)
	assert.Equal(t, int64(20), updated.Stock)
	// initialStock is fixed at listing time.
	assert.Equal(t, int64(5), updated.InitialStock)

	// Admins may update on the seller's behalf.
	update.Name = "Admin Touched"
	_, err = env.catalog.UpdateProduct(ctx, adminPrincipal, product.ID, update)
	require.NoError(t, err)
}

func TestUpdateProductRestockClearsSoldout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 1)

	_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	require.NoError(t, err)

	got, err := env.store.Products().Get(ctx, product.ID)
	require.NoError(t, err)
	require.True(t, got.Soldout)

	updated, err := env.catalog.UpdateProduct(ctx, sellerPrincipal, product.ID, &models.ProductInput{
		Name: "Plain Tee", Price: 1000, Stock: 7,
		Images: []string{"ipfs://img-1"}, CategoryID: product.CategoryID, SubCategoryID: product.SubCategoryID,
	})
	require.NoError(t, err)
	assert.False(t, updated.Soldout)
	assert.Equal(t, int64(7), updated.Stock)
}

func TestDeleteProductHidesListingKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 5)

	_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	require.NoError(t, err)

	require.ErrorIs(t, env.catalog.DeleteProduct(ctx, otherPrincipal, product.ID), utils.ErrNotOwningSeller)
	require.NoError(t, env.catalog.DeleteProduct(ctx, sellerPrincipal, product.ID))

	_, err = env.catalog.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	listing, err := env.catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, listing)

	// Purchase history survives the deletion.
	history, err := env.escrow.BuyerPurchaseHistory(ctx, buyerAddr)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, product.ID, history[0].ProductID)

	// Deleting again is a miss, and deleted products cannot be bought.
	assert.ErrorIs(t, env.catalog.DeleteProduct(ctx, sellerPrincipal, product.ID), utils.ErrProductNotFound)
	_, err = env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestListProductsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	catID, subID := env.seedCategory(t)

	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		_, err := env.catalog.CreateProduct(ctx, sellerPrincipal, &models.ProductInput{
			Name: name, Price: 100, Stock: 1,
			Images: []string{"ipfs://img"}, CategoryID: catID, SubCategoryID: subID,
		})
		require.NoError(t, err)
	}

	listing, err := env.catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 3)
	assert.Equal(t, "Third", listing[0].Name)
	assert.Equal(t, "First", listing[2].Name)

	bySeller, err := env.catalog.ListSellerProducts(ctx, sellerAddr)
	require.NoError(t, err)
	assert.Len(t, bySeller, 3)

	byCategory, err := env.catalog.ListProductsByCategory(ctx, catID)
	require.NoError(t, err)
	assert.Len(t, byCategory, 3)

	_, err = env.catalog.ListProductsByCategory(ctx, 999)
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
}

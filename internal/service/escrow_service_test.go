package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/utils"
)

func TestBuyProductSplitsPaymentAndDecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)

	purchase, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID:       product.ID,
		ShippingDetails: shipping(),
		SelectedColor:   "black",
		SelectedSize:    "M",
		Quantity:        3,
		PaymentAmount:   3000,
	})
	require.NoError(t, err)

	// 5% of 3000 goes to the fee pool, the rest to the seller.
	assert.Equal(t, int64(3000), purchase.TotalAmount)
	assert.Equal(t, int64(150), purchase.ServiceFee)
	assert.Equal(t, int64(1000), purchase.BasePrice)
	assert.False(t, purchase.IsDelivered)

	seller, err := env.store.Sellers().Get(ctx, sellerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(2850), seller.Balance)

	pool, err := env.store.Settings().FeePool(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(150), pool)

	got, err := env.store.Products().Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Stock)
	assert.False(t, got.Soldout)
}

func TestBuyProductSnapshotsOrderDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 500, 5)

	purchase, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID:       product.ID,
		ShippingDetails: shipping(),
		SelectedColor:   "white",
		SelectedSize:    "L",
		Quantity:        1,
		PaymentAmount:   500,
	})
	require.NoError(t, err)

	assert.Equal(t, "Plain Tee", purchase.OrderDetails.Name)
	assert.Equal(t, "white", purchase.OrderDetails.SelectedColor)
	assert.Equal(t, "L", purchase.OrderDetails.SelectedSize)
	assert.Equal(t, int64(500), purchase.OrderDetails.Price)

	// The snapshot survives later listing edits.
	_, err = env.catalog.UpdateProduct(ctx, sellerPrincipal, product.ID, &models.ProductInput{
		Name:          "Renamed Tee",
		Price:         900,
		Stock:         4,
		Images:        []string{"ipfs://img-2"},
		CategoryID:    product.CategoryID,
		SubCategoryID: product.SubCategoryID,
	})
	require.NoError(t, err)

	history, err := env.escrow.BuyerPurchaseHistory(ctx, buyerAddr)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Plain Tee", history[0].OrderDetails.Name)
}

func TestBuyProductExactStockMarksSoldout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 200, 2)

	_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID:       product.ID,
		ShippingDetails: shipping(),
		Quantity:        2,
		PaymentAmount:   400,
	})
	require.NoError(t, err)

	got, err := env.store.Products().Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Stock)
	assert.True(t, got.Soldout)

	// The next buyer cannot oversell.
	_, err = env.escrow.BuyProduct(ctx, otherPrincipal, &BuyProductInput{
		ProductID:       product.ID,
		ShippingDetails: shipping(),
		Quantity:        1,
		PaymentAmount:   200,
	})
	assert.ErrorIs(t, err, utils.ErrInsufficientStock)
}

func TestBuyProductValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)

	_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 0, PaymentAmount: 1000,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidQuantity)

	_, err = env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 11, PaymentAmount: 11000,
	})
	assert.ErrorIs(t, err, utils.ErrInsufficientStock)

	_, err = env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 2, PaymentAmount: 1999,
	})
	assert.ErrorIs(t, err, utils.ErrInsufficientPayment)

	_, err = env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: 9999, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestBuyProductRejectedWhenSellerNotVerified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)

	_, err := env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, models.SellerSuspended)
	require.NoError(t, err)

	_, err = env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	assert.ErrorIs(t, err, utils.ErrSellerNotVerified)

	// No partial effects: stock, balance and fee pool untouched.
	got, err := env.store.Products().Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)

	seller, err := env.store.Sellers().Get(ctx, sellerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seller.Balance)

	pool, err := env.store.Settings().FeePool(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pool)
}

func TestBuyProductOverpaymentQueuesRefund(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)

	purchase, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1250,
	})
	require.NoError(t, err)

	// Seller is credited from the exact total, not the overpayment.
	seller, err := env.store.Sellers().Get(ctx, sellerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(950), seller.Balance)

	payouts, err := env.store.Payouts().ListUnsent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, models.PayoutRefund, payouts[0].Kind)
	assert.Equal(t, buyerAddr, payouts[0].Address)
	assert.Equal(t, int64(250), payouts[0].Amount)
	assert.Equal(t, purchase.TotalAmount, int64(1000))
}

func TestServiceFeeRoundsDownInSellersFavor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	// 3 * 33 = 99; 5% of 99 = 4.95, fee truncates to 4.
	product := env.seedProduct(t, 33, 10)

	purchase, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 3, PaymentAmount: 99,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), purchase.ServiceFee)

	seller, err := env.store.Sellers().Get(ctx, sellerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(95), seller.Balance)
}

func TestChangeServicePctAppliesOnlyToLaterPurchases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)

	first, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), first.ServiceFee)

	require.NoError(t, env.escrow.ChangeServicePct(ctx, adminPrincipal, 10))

	second, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), second.ServiceFee)

	// The first purchase keeps the fee it settled with.
	history, err := env.escrow.BuyerPurchaseHistory(ctx, buyerAddr)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(50), history[0].ServiceFee)
}

func TestChangeServicePctAuthorizationAndBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.escrow.ChangeServicePct(ctx, sellerPrincipal, 10), utils.ErrUnauthorized)
	assert.ErrorIs(t, env.escrow.ChangeServicePct(ctx, adminPrincipal, 101), utils.ErrInvalidServicePct)
	assert.ErrorIs(t, env.escrow.ChangeServicePct(ctx, adminPrincipal, -1), utils.ErrInvalidServicePct)
	assert.NoError(t, env.escrow.ChangeServicePct(ctx, adminPrincipal, 0))
	assert.NoError(t, env.escrow.ChangeServicePct(ctx, adminPrincipal, 100))
}

func TestMarkPurchaseDelivered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)

	// Two purchases of the same product by the same buyer.
	for i := 0; i < 2; i++ {
		_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
			ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
		})
		require.NoError(t, err)
	}

	// Only the selling party may confirm delivery.
	_, err := env.escrow.MarkPurchaseDelivered(ctx, otherPrincipal, product.ID, buyerAddr)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	// Delivery lands on the oldest undelivered purchase first.
	first, err := env.escrow.MarkPurchaseDelivered(ctx, sellerPrincipal, product.ID, buyerAddr)
	require.NoError(t, err)
	assert.True(t, first.IsDelivered)
	require.NotNil(t, first.DeliveredAt)

	second, err := env.escrow.MarkPurchaseDelivered(ctx, sellerPrincipal, product.ID, buyerAddr)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// All delivered: confirming again is a conflict, not a rewrite.
	_, err = env.escrow.MarkPurchaseDelivered(ctx, sellerPrincipal, product.ID, buyerAddr)
	assert.ErrorIs(t, err, utils.ErrAlreadyDelivered)

	_, err = env.escrow.MarkPurchaseDelivered(ctx, sellerPrincipal, product.ID, otherAddr)
	assert.ErrorIs(t, err, utils.ErrPurchaseNotFound)
}

func TestAllOrdersIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)

	_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	require.NoError(t, err)

	_, err = env.escrow.AllOrders(ctx, buyerPrincipal)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	orders, err := env.escrow.AllOrders(ctx, adminPrincipal)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

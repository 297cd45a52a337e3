package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// fakeTransferrer records transfer calls and can be told to fail.
type fakeTransferrer struct {
	calls []string
	fail  bool
}

func (f *fakeTransferrer) Transfer(ctx context.Context, to string, amount int64, reference string) error {
	f.calls = append(f.calls, reference)
	if f.fail {
		return errors.New("gateway unavailable")
	}
	return nil
}

func TestRegisterSellerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	input := &RegisterSellerInput{BusinessName: "Acme Goods", Email: "acme@example.com", Phone: "5550001111"}

	seller, err := env.sellers.RegisterSeller(ctx, sellerPrincipal, input)
	require.NoError(t, err)
	assert.Equal(t, models.SellerPending, seller.Status)
	assert.True(t, seller.TermsAccepted)

	// Re-applying while the first application is open is a conflict.
	_, err = env.sellers.RegisterSeller(ctx, sellerPrincipal, input)
	assert.ErrorIs(t, err, utils.ErrAlreadyPending)

	_, err = env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, models.SellerVerified)
	require.NoError(t, err)

	_, err = env.sellers.RegisterSeller(ctx, sellerPrincipal, input)
	assert.ErrorIs(t, err, utils.ErrAlreadyVerified)

	// A suspended seller may re-apply and lands back in Pending.
	_, err = env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, models.SellerSuspended)
	require.NoError(t, err)
	seller, err = env.sellers.RegisterSeller(ctx, sellerPrincipal, input)
	require.NoError(t, err)
	assert.Equal(t, models.SellerPending, seller.Status)
}

func TestUpdateSellerStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sellers.RegisterSeller(ctx, sellerPrincipal, &RegisterSellerInput{
		BusinessName: "Acme Goods", Email: "acme@example.com", Phone: "5550001111",
	})
	require.NoError(t, err)

	// Non-admin callers cannot drive the state machine.
	_, err = env.sellers.UpdateSellerStatus(ctx, sellerPrincipal, sellerAddr, models.SellerVerified)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	// Same-state writes are rejected, not silently absorbed.
	_, err = env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, models.SellerPending)
	assert.ErrorIs(t, err, utils.ErrNoOpStatusChange)

	// Pending -> Unverified is not a defined edge.
	_, err = env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, models.SellerUnverified)
	assert.ErrorIs(t, err, utils.ErrInvalidStatusTransition)

	_, err = env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, "Bogus")
	assert.ErrorIs(t, err, utils.ErrInvalidStatusTransition)

	_, err = env.sellers.UpdateSellerStatus(ctx, adminPrincipal, otherAddr, models.SellerVerified)
	assert.ErrorIs(t, err, utils.ErrSellerNotFound)

	// Pending -> Verified -> Suspended -> Pending are all defined edges.
	for _, status := range []models.SellerStatus{models.SellerVerified, models.SellerSuspended, models.SellerPending} {
		seller, err := env.sellers.UpdateSellerStatus(ctx, adminPrincipal, sellerAddr, status)
		require.NoError(t, err)
		assert.Equal(t, status, seller.Status)
	}
}

func TestGetSellerDefaultsToUnverified(t *testing.T) {
	env := newTestEnv(t)

	seller, err := env.sellers.GetSeller(context.Background(), otherAddr)
	require.NoError(t, err)
	assert.Equal(t, models.SellerUnverified, seller.Status)
	assert.Equal(t, otherAddr, seller.Address)
	assert.Empty(t, seller.ProductIDs)
	assert.Zero(t, seller.Balance)
}

func TestListPendingSellersIsAdminOnlyAndOrdered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, addr := range []string{sellerAddr, otherAddr} {
		_, err := env.sellers.RegisterSeller(ctx, models.Principal{Address: addr}, &RegisterSellerInput{
			BusinessName: "Shop " + addr[len(addr)-2:], Email: "s@example.com", Phone: "5550001111",
		})
		require.NoError(t, err)
	}

	_, err := env.sellers.ListPendingSellers(ctx, sellerPrincipal)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	pending, err := env.sellers.ListPendingSellers(ctx, adminPrincipal)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, sellerAddr, pending[0].Address)
	assert.Equal(t, otherAddr, pending[1].Address)
}

func TestWithdrawZeroesBalanceBeforeTransfer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	transfer := &fakeTransferrer{}
	env.sellers = NewSellerService(env.store, transfer, ownerAddr)

	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)
	_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 2, PaymentAmount: 2000,
	})
	require.NoError(t, err)

	payout, err := env.sellers.Withdraw(ctx, sellerPrincipal)
	require.NoError(t, err)
	assert.Equal(t, int64(1900), payout.Amount)
	assert.Equal(t, models.PayoutWithdrawal, payout.Kind)
	require.Len(t, transfer.calls, 1)

	seller, err := env.store.Sellers().Get(ctx, sellerAddr)
	require.NoError(t, err)
	assert.Zero(t, seller.Balance)

	// Nothing left to withdraw.
	_, err = env.sellers.Withdraw(ctx, sellerPrincipal)
	assert.ErrorIs(t, err, utils.ErrZeroBalance)

	// The sent payout is not re-driven by the retry sweep.
	unsent, err := env.store.Payouts().ListUnsent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unsent)
}

func TestWithdrawGatewayFailureLeavesPayoutQueued(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	transfer := &fakeTransferrer{fail: true}
	env.sellers = NewSellerService(env.store, transfer, ownerAddr)

	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 10)
	_, err := env.escrow.BuyProduct(ctx, buyerPrincipal, &BuyProductInput{
		ProductID: product.ID, ShippingDetails: shipping(), Quantity: 1, PaymentAmount: 1000,
	})
	require.NoError(t, err)

	_, err = env.sellers.Withdraw(ctx, sellerPrincipal)
	require.NoError(t, err)

	// Balance is already zero, so a later successful retry cannot pay twice.
	seller, err := env.store.Sellers().Get(ctx, sellerAddr)
	require.NoError(t, err)
	assert.Zero(t, seller.Balance)

	unsent, err := env.store.Payouts().ListUnsent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unsent, 1)
	assert.Equal(t, models.PayoutFailed, unsent[0].Status)
	assert.Equal(t, 1, unsent[0].Attempts)
}

func TestWithdrawWithNoAccount(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sellers.Withdraw(context.Background(), otherPrincipal)
	assert.ErrorIs(t, err, utils.ErrZeroBalance)
}

func TestGrantOwnerSellerAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sellers.GrantOwnerSellerAccess(ctx, sellerPrincipal)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	seller, err := env.sellers.GrantOwnerSellerAccess(ctx, adminPrincipal)
	require.NoError(t, err)
	assert.Equal(t, ownerAddr, seller.Address)
	assert.Equal(t, models.SellerVerified, seller.Status)

	// Idempotent once the owner is verified.
	seller, err = env.sellers.GrantOwnerSellerAccess(ctx, adminPrincipal)
	require.NoError(t, err)
	assert.Equal(t, models.SellerVerified, seller.Status)
}

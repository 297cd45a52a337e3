package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
)

func TestInTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Sellers().Create(ctx, &models.Seller{
		Address: "0xaa", Status: models.SellerVerified, Balance: 100,
	}))

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Sellers().CreditBalance(ctx, "0xaa", 900); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	seller, err := store.Sellers().Get(ctx, "0xaa")
	require.NoError(t, err)
	assert.Equal(t, int64(100), seller.Balance)
}

func TestInTxCommitsAtomically(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Sellers().Create(ctx, &models.Seller{
		Address: "0xaa", Status: models.SellerVerified,
	}))

	err := store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Sellers().CreditBalance(ctx, "0xaa", 500); err != nil {
			return err
		}
		return tx.Settings().AddFeePool(ctx, 25)
	})
	require.NoError(t, err)

	seller, err := store.Sellers().Get(ctx, "0xaa")
	require.NoError(t, err)
	assert.Equal(t, int64(500), seller.Balance)

	pool, err := store.Settings().FeePool(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25), pool)
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Sellers().Get(ctx, "0xmissing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.Products().Get(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.Categories().GetCategory(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListingsReturnCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Sellers().Create(ctx, &models.Seller{
		Address: "0xaa", Status: models.SellerVerified,
	}))
	product := &models.Product{
		Seller: "0xaa", Name: "Tee", Price: 100, Stock: 1,
		Images: []string{"ipfs://img"},
	}
	require.NoError(t, store.Products().Create(ctx, product))

	listed, err := store.Products().ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Name = "Mutated"
	listed[0].Images[0] = "ipfs://mutated"

	got, err := store.Products().Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tee", got.Name)
	assert.Equal(t, "ipfs://img", got.Images[0])
}

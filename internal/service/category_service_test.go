package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemshop/hemshop-api/internal/utils"
)

func TestCategoryMutationsAreAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.category.CreateCategory(ctx, sellerPrincipal, "Apparel")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	cat, err := env.category.CreateCategory(ctx, adminPrincipal, "Apparel")
	require.NoError(t, err)

	_, err = env.category.CreateSubCategory(ctx, sellerPrincipal, cat.ID, "Shirts")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
	_, err = env.category.UpdateCategory(ctx, sellerPrincipal, cat.ID, "Clothing", true)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
	assert.ErrorIs(t, env.category.DeleteCategory(ctx, sellerPrincipal, cat.ID), utils.ErrUnauthorized)
}

func TestCreateSubCategoriesBulk(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, err := env.category.CreateCategory(ctx, adminPrincipal, "Apparel")
	require.NoError(t, err)

	subs, err := env.category.CreateSubCategoriesBulk(ctx, adminPrincipal, cat.ID, []string{"Shirts", "Pants", "Hats"})
	require.NoError(t, err)
	require.Len(t, subs, 3)
	for _, sub := range subs {
		assert.Equal(t, cat.ID, sub.ParentCategoryID)
		assert.True(t, sub.IsActive)
	}

	_, err = env.category.CreateSubCategoriesBulk(ctx, adminPrincipal, 999, []string{"Orphan"})
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)

	// Deactivated parents do not accept new sub-categories.
	require.NoError(t, env.category.DeleteCategory(ctx, adminPrincipal, cat.ID))
	_, err = env.category.CreateSubCategoriesBulk(ctx, adminPrincipal, cat.ID, []string{"Late"})
	assert.ErrorIs(t, err, utils.ErrInvalidCategory)
}

func TestUpdateAndDeactivateCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, err := env.category.CreateCategory(ctx, adminPrincipal, "Apparel")
	require.NoError(t, err)

	updated, err := env.category.UpdateCategory(ctx, adminPrincipal, cat.ID, "Clothing", true)
	require.NoError(t, err)
	assert.Equal(t, "Clothing", updated.Name)

	require.NoError(t, env.category.DeleteCategory(ctx, adminPrincipal, cat.ID))

	// Deactivation keeps the row and its name.
	got, err := env.category.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clothing", got.Name)
	assert.False(t, got.IsActive)

	// The listing keeps the row so admins can reactivate it later.
	all, err := env.category.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	_, err = env.category.UpdateCategory(ctx, adminPrincipal, 999, "Ghost", true)
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
}

func TestSubCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, err := env.category.CreateCategory(ctx, adminPrincipal, "Apparel")
	require.NoError(t, err)
	sub, err := env.category.CreateSubCategory(ctx, adminPrincipal, cat.ID, "Shirts")
	require.NoError(t, err)
	_, err = env.category.CreateSubCategory(ctx, adminPrincipal, cat.ID, "Pants")
	require.NoError(t, err)

	updated, err := env.category.UpdateSubCategory(ctx, adminPrincipal, sub.ID, "Tees", true)
	require.NoError(t, err)
	assert.Equal(t, "Tees", updated.Name)

	require.NoError(t, env.category.DeleteSubCategory(ctx, adminPrincipal, sub.ID))

	subs, err := env.category.ListSubCategories(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Tees", subs[0].Name)
	assert.False(t, subs[0].IsActive)
	assert.True(t, subs[1].IsActive)

	_, err = env.category.ListSubCategories(ctx, 999)
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
}

func TestGetCategoryAttachesSubCategoryIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, err := env.category.CreateCategory(ctx, adminPrincipal, "Apparel")
	require.NoError(t, err)
	subs, err := env.category.CreateSubCategoriesBulk(ctx, adminPrincipal, cat.ID, []string{"Shirts", "Pants"})
	require.NoError(t, err)

	got, err := env.category.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, got.SubCategoryIDs, 2)
	assert.Equal(t, subs[0].ID, got.SubCategoryIDs[0])
	assert.Equal(t, subs[1].ID, got.SubCategoryIDs[1])

	listing, err := env.category.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Len(t, listing[0].SubCategoryIDs, 2)

	_, err = env.category.GetCategory(ctx, 999)
	assert.ErrorIs(t, err, utils.ErrCategoryNotFound)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemshop/hemshop-api/internal/utils"
)

func TestCreateReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 5)

	for _, rating := range []int{0, 6, -1} {
		_, err := env.reviews.CreateReview(ctx, buyerPrincipal, &CreateReviewInput{
			ProductID: product.ID, Rating: rating, Comment: "nope",
		})
		assert.ErrorIs(t, err, utils.ErrRatingOutOfRange)
	}

	_, err := env.reviews.CreateReview(ctx, buyerPrincipal, &CreateReviewInput{
		ProductID: 999, Rating: 4, Comment: "ghost",
	})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	review, err := env.reviews.CreateReview(ctx, buyerPrincipal, &CreateReviewInput{
		ProductID: product.ID, Rating: 4, Comment: "fits well",
	})
	require.NoError(t, err)
	assert.Equal(t, buyerAddr, review.Reviewer)
	assert.Equal(t, 4, review.Rating)
}

func TestCreateReviewRejectsDeletedProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 5)

	require.NoError(t, env.catalog.DeleteProduct(ctx, sellerPrincipal, product.ID))

	_, err := env.reviews.CreateReview(ctx, buyerPrincipal, &CreateReviewInput{
		ProductID: product.ID, Rating: 5, Comment: "too late",
	})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestDeleteReviewAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 5)

	review, err := env.reviews.CreateReview(ctx, buyerPrincipal, &CreateReviewInput{
		ProductID: product.ID, Rating: 4, Comment: "fits well",
	})
	require.NoError(t, err)

	err = env.reviews.DeleteReview(ctx, otherPrincipal, product.ID, review.ID)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	require.NoError(t, env.reviews.DeleteReview(ctx, buyerPrincipal, product.ID, review.ID))

	// Already gone.
	err = env.reviews.DeleteReview(ctx, buyerPrincipal, product.ID, review.ID)
	assert.ErrorIs(t, err, utils.ErrReviewNotFound)

	// Admins may moderate other people's reviews.
	review, err = env.reviews.CreateReview(ctx, otherPrincipal, &CreateReviewInput{
		ProductID: product.ID, Rating: 1, Comment: "spam",
	})
	require.NoError(t, err)
	require.NoError(t, env.reviews.DeleteReview(ctx, adminPrincipal, product.ID, review.ID))
}

func TestAverageRatingExcludesDeletedReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerVerifiedSeller(t, sellerAddr)
	product := env.seedProduct(t, 1000, 5)

	first, err := env.reviews.CreateReview(ctx, buyerPrincipal, &CreateReviewInput{
		ProductID: product.ID, Rating: 5, Comment: "great",
	})
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, otherPrincipal, &CreateReviewInput{
		ProductID: product.ID, Rating: 2, Comment: "meh",
	})
	require.NoError(t, err)

	got, err := env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, got.AverageRating, 0.001)

	require.NoError(t, env.reviews.DeleteReview(ctx, buyerPrincipal, product.ID, first.ID))

	got, err = env.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got.AverageRating, 0.001)

	reviews, err := env.reviews.GetReviews(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, otherAddr, reviews[0].Reviewer)
}

func TestGetReviewsUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.reviews.GetReviews(context.Background(), 42)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

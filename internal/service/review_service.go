package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// ReviewService owns product reviews.
type ReviewService struct {
	store repository.Store
}

// NewReviewService constructs a ReviewService.
func NewReviewService(store repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

// CreateReviewInput is a submitted review.
type CreateReviewInput struct {
	ProductID int64  `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

// CreateReview attaches a review to a live product. Rating must be 1..5.
func (s *ReviewService) CreateReview(ctx context.Context, principal models.Principal, input *CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, utils.ErrRatingOutOfRange
	}

	var review *models.Review
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		product, err := tx.Products().Get(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrProductNotFound
			}
			return err
		}
		if product.Deleted {
			return utils.ErrProductNotFound
		}
		review = &models.Review{
			ProductID: input.ProductID,
			Reviewer:  principal.Address,
			Rating:    input.Rating,
			Comment:   input.Comment,
		}
		return tx.Reviews().Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("product_id", input.ProductID).Str("reviewer", principal.Address).Msg("Review created")
	return review, nil
}

// DeleteReview soft-deletes a review. Only its author or an admin may
// delete; the rating average recomputes without it from then on.
func (s *ReviewService) DeleteReview(ctx context.Context, principal models.Principal, productID, reviewID int64) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		review, err := tx.Reviews().Get(ctx, productID, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrReviewNotFound
			}
			return err
		}
		if review.Deleted {
			return utils.ErrReviewNotFound
		}
		if review.Reviewer != principal.Address && !principal.Admin {
			return utils.ErrUnauthorized
		}
		return tx.Reviews().SoftDelete(ctx, productID, reviewID)
	})
	if err != nil {
		return err
	}
	log.Info().Int64("review_id", reviewID).Msg("Review deleted")
	return nil
}

// GetReviews returns the live reviews of a product, newest first.
func (s *ReviewService) GetReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	if _, err := s.store.Products().Get(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return s.store.Reviews().ListByProduct(ctx, productID)
}

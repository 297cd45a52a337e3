package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/middleware"
	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// ReviewHandler exposes product review operations.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create handles POST /v1/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req service.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	review, err := h.reviews.CreateReview(c.Request.Context(), principal, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Review created", review)
}

// Delete handles DELETE /v1/products/:id/reviews/:reviewId.
func (h *ReviewHandler) Delete(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "reviewId")
	if !ok {
		return
	}

	principal := middleware.GetPrincipal(c)
	if err := h.reviews.DeleteReview(c.Request.Context(), principal, productID, reviewID); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Review deleted", gin.H{"reviewId": reviewID})
}

// ListByProduct handles GET /v1/products/:id/reviews.
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.reviews.GetReviews(c.Request.Context(), productID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Reviews retrieved", reviews)
}

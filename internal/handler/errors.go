package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/utils"
)

// statusFor maps service errors to HTTP status codes. Unknown errors are
// treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, utils.ErrUnauthorized),
		errors.Is(err, utils.ErrNotOwningSeller):
		return 403
	case errors.Is(err, utils.ErrProductNotFound),
		errors.Is(err, utils.ErrPurchaseNotFound),
		errors.Is(err, utils.ErrReviewNotFound),
		errors.Is(err, utils.ErrCategoryNotFound),
		errors.Is(err, utils.ErrSellerNotFound):
		return 404
	case errors.Is(err, utils.ErrAlreadyPending),
		errors.Is(err, utils.ErrAlreadyVerified),
		errors.Is(err, utils.ErrNoOpStatusChange),
		errors.Is(err, utils.ErrInvalidStatusTransition),
		errors.Is(err, utils.ErrAlreadyDelivered),
		errors.Is(err, utils.ErrInsufficientStock),
		errors.Is(err, utils.ErrZeroBalance):
		return 409
	case errors.Is(err, utils.ErrInsufficientPayment):
		return 402
	case errors.Is(err, utils.ErrSellerNotVerified),
		errors.Is(err, utils.ErrInvalidCategory),
		errors.Is(err, utils.ErrTooManyImages),
		errors.Is(err, utils.ErrNoImages),
		errors.Is(err, utils.ErrInvalidPrice),
		errors.Is(err, utils.ErrInvalidStock),
		errors.Is(err, utils.ErrInvalidQuantity),
		errors.Is(err, utils.ErrRatingOutOfRange),
		errors.Is(err, utils.ErrInvalidServicePct):
		return 400
	default:
		return 500
	}
}

// fail writes the standard error envelope for a service error.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == 500 {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Internal error")
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}
	utils.Error(c, status, err.Error(), err.Error())
}

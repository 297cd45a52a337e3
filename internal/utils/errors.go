package utils

import "errors"

// Common application errors used across services.
var (
	// Authorization
	ErrUnauthorized      = errors.New("UNAUTHORIZED")
	ErrSellerNotVerified = errors.New("SELLER_NOT_VERIFIED")
	ErrNotOwningSeller   = errors.New("NOT_OWNING_SELLER")

	// Validation
	ErrAlreadyPending          = errors.New("ALREADY_PENDING")
	ErrAlreadyVerified         = errors.New("ALREADY_VERIFIED")
	ErrNoOpStatusChange        = errors.New("NO_OP_STATUS_CHANGE")
	ErrInvalidStatusTransition = errors.New("INVALID_STATUS_TRANSITION")
	ErrInvalidCategory         = errors.New("INVALID_CATEGORY")
	ErrTooManyImages           = errors.New("TOO_MANY_IMAGES")
	ErrNoImages                = errors.New("NO_IMAGES")
	ErrInvalidPrice            = errors.New("INVALID_PRICE")
	ErrInvalidStock            = errors.New("INVALID_STOCK")
	ErrInvalidQuantity         = errors.New("INVALID_QUANTITY")
	ErrRatingOutOfRange        = errors.New("RATING_OUT_OF_RANGE")
	ErrInvalidServicePct       = errors.New("INVALID_SERVICE_PCT")

	// Resource state
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrPurchaseNotFound    = errors.New("PURCHASE_NOT_FOUND")
	ErrReviewNotFound      = errors.New("REVIEW_NOT_FOUND")
	ErrCategoryNotFound    = errors.New("CATEGORY_NOT_FOUND")
	ErrSellerNotFound      = errors.New("SELLER_NOT_FOUND")
	ErrInsufficientStock   = errors.New("INSUFFICIENT_STOCK")
	ErrInsufficientPayment = errors.New("INSUFFICIENT_PAYMENT")
	ErrZeroBalance         = errors.New("ZERO_BALANCE")
	ErrAlreadyDelivered    = errors.New("ALREADY_DELIVERED")
)

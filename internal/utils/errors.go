package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrLoginRequired      = errors.New("LOGIN_REQUIRED")
	ErrForbidden          = errors.New("FORBIDDEN")
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrValidation         = errors.New("VALIDATION_ERROR")
	ErrInvalidPassword    = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrAlreadyReviewed    = errors.New("ALREADY_REVIEWED")
	ErrStaleResult        = errors.New("STALE_RESULT")
	ErrImageRejected      = errors.New("IMAGE_REJECTED")
	ErrTooManyImages      = errors.New("TOO_MANY_IMAGES")
	ErrInvalidStatus      = errors.New("INVALID_STATUS")
	ErrPaymentConfirmed   = errors.New("PAYMENT_ALREADY_CONFIRMED")
	ErrFilterNameRequired = errors.New("FILTER_NAME_REQUIRED")
)

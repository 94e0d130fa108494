package models

import "github.com/go-faster/errors"

// Cart and coupon failures surfaced to callers. Handlers map these onto the
// JSON error shape and HTTP status; anything not in this list is treated as
// internal and logged with full detail.
var (
	ErrValidation        = errors.New("invalid request")
	ErrCSRF              = errors.New("csrf token mismatch")
	ErrNotFound          = errors.New("variant not found")
	ErrNotInCart         = errors.New("variant not in cart")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidCoupon     = errors.New("invalid coupon code")
	ErrMethodNotAllowed  = errors.New("method not allowed")
)

// Account failures.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("account not verified")
	ErrInvalidToken       = errors.New("invalid verification token")
)

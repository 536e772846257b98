package services

import "errors"

// Business-rule failures surfaced by the commerce engine. Controllers map
// these to HTTP statuses with errors.Is; anything else is treated as an
// internal error.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("currently unavailable")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrEmptyCart         = errors.New("your cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("order cannot be cancelled")
	ErrConflict          = errors.New("conflicting concurrent update")
)

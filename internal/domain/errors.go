package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalid marks input rejected before any state was touched.
	ErrInvalid = errors.New("invalid input")
	// ErrConflict indicates a uniqueness rule would be broken, e.g. a second enrollment for a course.
	ErrConflict = errors.New("conflict")
	// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentFailed is returned when the payment step fails. Nothing is committed, so it is safe to retry.
	ErrPaymentFailed = errors.New("payment failed")
)

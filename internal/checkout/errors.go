package checkout

import "errors"

var (
	// ErrEmptyCart means the cart is missing, empty, or none of its products
	// still exist.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrConcurrentModification means the cart changed while checkout was
	// running. The order placed for the stale cart has been cancelled and the
	// client may retry.
	ErrConcurrentModification = errors.New("cart was modified during checkout")

	// ErrRequestInProgress is returned for a replayed Idempotency-Key whose
	// first request has not finished.
	ErrRequestInProgress = errors.New("a request with this idempotency key is in progress")

	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)

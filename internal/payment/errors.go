package payment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount    = errors.New("amount must be at least 1.00")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrPaymentNotFound  = errors.New("payment not found")
	// ErrPaymentOwnership means the payment belongs to a different user.
	ErrPaymentOwnership = errors.New("payment belongs to another user")
	// ErrPaymentConflict means the payment was already settled by a different
	// provider payment id.
	ErrPaymentConflict = errors.New("payment already settled with a different payment id")
	ErrOrderNotFound   = errors.New("order not found or not awaiting payment")
	// ErrPaymentOrderMismatch means the caller named an order other than the
	// one the payment was created for.
	ErrPaymentOrderMismatch = errors.New("payment was created for a different order")
)

// PaymentIntentError wraps any gateway failure during intent creation.
type PaymentIntentError struct {
	Message string
	Err     error
}

func (e *PaymentIntentError) Error() string {
	return fmt.Sprintf("payment order creation failed: %s", e.Message)
}

func (e *PaymentIntentError) Unwrap() error { return e.Err }

// OrderLinkageError reports a payment that was marked paid while its order
// could not be confirmed. The money is captured, so this needs manual
// reconciliation rather than a client retry.
type OrderLinkageError struct {
	ProviderOrderRef string
	OrderID          string
	Reason           string
}

func (e *OrderLinkageError) Error() string {
	return fmt.Sprintf("payment %s recorded as paid but order %q was not confirmed: %s",
		e.ProviderOrderRef, e.OrderID, e.Reason)
}

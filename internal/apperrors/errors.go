// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the marketplace core. Services return these (possibly
// wrapped with %w) and handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("caller lacks authority for this action")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPaymentRequired    = errors.New("payment proof required")
	ErrPaymentCancelled   = errors.New("payment cancelled by user")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// PaymentError carries the gateway's failure reason so the caller can render
// a specific message.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

func NewPaymentError(reason string) *PaymentError {
	return &PaymentError{Reason: reason}
}

func IsPaymentError(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe)
}

package models

import (
	"errors"
	"fmt"
)

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInternalError      = errors.New("internal error")

	ErrOrderEmpty        = errors.New("order has no items")
	ErrInsufficientStock = errors.New("insufficient product stock")

	ErrOrderAlreadyPaid     = errors.New("order is already paid")
	ErrOrderNotPayable      = errors.New("order is not in a payable state")
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
)

// GatewayError wraps a failure reported by the payment gateway so callers
// can distinguish it from database errors.
type GatewayError struct {
	Err error
}

func (e GatewayError) Error() string {
	return fmt.Sprintf("gateway api error: %v", e.Err)
}

func (e GatewayError) Unwrap() error { return e.Err }

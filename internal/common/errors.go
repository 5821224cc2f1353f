// Package common contains shared constants and sentinel errors used across
// marketplace components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorInvalidArgument = errors.New("invalid argument")

	// Auth errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorNoSession          = errors.New("no session")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorForbidden          = errors.New("forbidden")
	ErrorRateLimited        = errors.New("rate limited")

	// Password reset lifecycle errors.
	ErrorResetTokenInvalid = errors.New("invalid or expired token")
	ErrorMailDelivery      = errors.New("mail delivery failed")

	// Checkout errors.
	ErrorEmptyCart = errors.New("cart is empty")
)

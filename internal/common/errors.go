// Package common defines shared sentinel errors used across the layers of
// CV on the Go. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrValidation marks user-actionable document-data problems. The
	// wrapped message names the missing field and is safe to show verbatim.
	ErrValidation = errors.New("validation error")

	// ErrInvalidToken marks invalid or malformed download tokens.
	ErrInvalidToken = errors.New("invalid token")
)

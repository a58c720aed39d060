package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// ErrValidation marks a malformed identifier or code, caught before any
	// store or network call. Always user-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrDelivery marks a transport or provider failure while sending a code.
	// Retryable only through an explicit user-initiated resend, never automatically.
	ErrDelivery = errors.New("delivery failed")

	// ErrCodeMismatch leaves the pending code valid for further attempts.
	// ErrCodeExpired covers both an expired and a missing record; the user
	// must request a new code either way.
	ErrCodeMismatch = errors.New("invalid code, check and try again")
	ErrCodeExpired  = errors.New("code expired, request a new one")

	// ErrFatal marks an unrecoverable condition, e.g. the secure random
	// source being unavailable. The sign-in flow cannot proceed at all.
	ErrFatal = errors.New("fatal")
)

// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrValidation indicates missing or malformed required fields.
	ErrValidation = errors.New("validation")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested entity does not exist for the acting owner.
	// Ownership mismatch is deliberately indistinguishable from absence.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the store rejected a write on the overlap constraint.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable flattens any unexpected store/backend failure.
	ErrUnavailable = errors.New("unavailable")
)

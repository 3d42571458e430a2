// Package apperrors defines the failure taxonomy shared by services and
// handlers. Services wrap these sentinels with %w and context; handlers
// map them to HTTP status codes with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks malformed input, reported before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an id that does not resolve to an entity.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a business-rule violation: an overlapping slot or a
	// state transition attempted on a terminal request.
	ErrConflict = errors.New("conflict")

	// ErrForbidden marks a caller lacking hall access or department match.
	// Responses built from it must not leak entity details.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized marks a missing or invalid identity.
	ErrUnauthorized = errors.New("unauthorized")
)

/*
errors.go - Centralized error types for the dairy engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Store implementations and the API layer wrap these with context.

ERROR CATEGORIES:
  1. Not-found errors - Lookups by id that matched nothing
  2. Validation errors - Bad input rejected before any store write
  3. Conflict errors - Uniqueness violations surfaced by the store

USAGE:
  if errors.Is(err, dairy.ErrFarmerNotFound) {
      writeError(w, http.StatusNotFound, ...)
  }

SEE ALSO:
  - store.go: operations returning these errors
  - api/handlers.go: maps them onto HTTP statuses
*/
package dairy

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrFarmerNotFound is returned when a farmer id matches no record.
	ErrFarmerNotFound = errors.New("farmer not found")

	// ErrLogNotFound is returned when a daily log id matches no record.
	ErrLogNotFound = errors.New("daily log not found")

	// ErrAdvanceNotFound is returned when an advance id matches no record.
	ErrAdvanceNotFound = errors.New("advance not found")

	// ErrDuplicateFarmerNo is returned when a farmer number is already taken.
	// Uniqueness of FarmerNo is enforced at the store layer.
	ErrDuplicateFarmerNo = errors.New("duplicate farmer number")

	// ErrInvalidRange is returned when a date range is malformed
	// (end sorts before start).
	ErrInvalidRange = errors.New("invalid range: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports input rejected before any store call. No state
// has changed when one of these is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFarmerNotFound) ||
		errors.Is(err, ErrLogNotFound) ||
		errors.Is(err, ErrAdvanceNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrDuplicateFarmerNo) ||
		errors.Is(err, ErrInvalidRange)
}

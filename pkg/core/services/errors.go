package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Failure taxonomy surfaced to callers. The engine retries only the
// per-shift write race internally; everything else is returned typed so the
// caller layer can map it to a transport response.
var (
	// ErrConflict covers duplicate sign-ups, duplicate zone leads and a
	// write race that persisted after the single internal retry
	ErrConflict = errors.New("scheduling: conflict")

	// ErrNotAvailable means the target is in the wrong status for the
	// requested operation, or the shift date has passed
	ErrNotAvailable = errors.New("scheduling: not available")

	// ErrFull means the shift has no remaining capacity
	ErrFull = errors.New("scheduling: shift full")

	// ErrNotFound means the requested identifier does not exist
	ErrNotFound = errors.New("scheduling: not found")

	// ErrForbidden means the actor lacks the capability for the operation
	ErrForbidden = errors.New("scheduling: forbidden")
)

// ValidationError captures field level input problems
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field, msg := range v.FieldErrors {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, "; ")
}

// HasErrors reports whether any field level issues were recorded
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// failureReason renders an error as a stable short code plus detail, used in
// bulk per-item outcomes.
func failureReason(err error) string {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return fmt.Sprintf("validation: %v", vErr)
	case errors.Is(err, ErrConflict):
		return fmt.Sprintf("conflict: %v", err)
	case errors.Is(err, ErrNotAvailable):
		return fmt.Sprintf("not_available: %v", err)
	case errors.Is(err, ErrFull):
		return fmt.Sprintf("full: %v", err)
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("not_found: %v", err)
	case errors.Is(err, ErrForbidden):
		return fmt.Sprintf("forbidden: %v", err)
	default:
		return fmt.Sprintf("internal: %v", err)
	}
}

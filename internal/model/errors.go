package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates an expired or missing bearer token;
	// callers should trigger re-authentication.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAuthenticated indicates an operation that requires an
	// active identity was attempted anonymously.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrMutationInFlight indicates a cart mutation was rejected
	// because another mutation for the same key is still outstanding.
	ErrMutationInFlight = errors.New("mutation already in flight")
	// ErrStaleIdentity indicates an operation completed after the
	// identity that issued it was signed out; its result was discarded.
	ErrStaleIdentity = errors.New("identity no longer active")
)

// QuantityRangeError reports a cart quantity outside the allowed
// bounds. It is raised client-side, before any network call.
type QuantityRangeError struct {
	Requested int
	Min       int
	Max       int
}

func (e *QuantityRangeError) Error() string {
	if e.Max < e.Min {
		return fmt.Sprintf("quantity %d must be at least %d", e.Requested, e.Min)
	}
	return fmt.Sprintf("quantity %d out of range [%d, %d]", e.Requested, e.Min, e.Max)
}

package workout

import "errors"

// Sentinel errors for the outcomes callers branch on. Handlers map these to
// HTTP statuses; everything else is treated as an internal failure.
var (
	// ErrNotFound covers both ids that do not exist and ids owned by
	// another user. The two are indistinguishable to the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals an operation that violates the session state
	// machine: starting while a session is in progress, or mutating a
	// finished session.
	ErrConflict = errors.New("conflict with current state")

	// ErrValidation signals malformed or out-of-range input.
	ErrValidation = errors.New("invalid input")
)

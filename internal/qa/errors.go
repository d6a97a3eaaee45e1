package qa

import "errors"

// Sentinel errors returned by the registries and entity operations.
//
// Lookups (Get, GetAnswer, Notification) return nil for a miss instead of a
// not-found error, and a second Unregister is an idempotent no-op rather than
// an error. Only conditions a caller must branch on get a sentinel.
var (
	// ErrDuplicateName is returned by Register when a case-insensitive
	// match for the requested user name already exists.
	ErrDuplicateName = errors.New("user name already taken")

	// ErrInvariantViolation signals a programmer error, such as marking an
	// answer as the best answer of a question it doesn't belong to. It is
	// never reachable from valid input.
	ErrInvariantViolation = errors.New("invariant violation")
)

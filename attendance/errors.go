/*
errors.go - Error types for the attendance ledger

PURPOSE:
  All attendance error types in one place. Callers match with errors.Is
  on the sentinels; the structured types carry context for messages.

ERROR CATEGORIES:
  1. Transition errors - Alternation invariant violations
  2. Input errors - Malformed punch kinds

SEE ALSO:
  - ledger.go: Raises these errors
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTransition is returned when a punch violates the in/out
	// alternation invariant: clocking in while already in, or clocking
	// out with nothing to close.
	ErrInvalidTransition = errors.New("invalid attendance transition")

	// ErrUnknownKind is returned for a punch kind outside the four
	// supported channels.
	ErrUnknownKind = errors.New("unknown punch kind")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidTransitionError reports which punch was rejected and what the
// ledger last saw on the in/out channel.
type InvalidTransitionError struct {
	UserID string
	Kind   Kind
	Last   Kind // empty when the user has never punched in/out
}

func (e *InvalidTransitionError) Error() string {
	if e.Kind == KindIn {
		return fmt.Sprintf("user %s already clocked in, clock out first", e.UserID)
	}
	if e.Last == "" {
		return fmt.Sprintf("user %s cannot clock out without clocking in first", e.UserID)
	}
	return fmt.Sprintf("user %s cannot punch %s after %s", e.UserID, e.Kind, e.Last)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

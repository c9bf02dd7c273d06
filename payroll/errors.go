/*
errors.go - Error types for the payroll core

PURPOSE:
  The composer has exactly one domain failure: a missing salary
  profile. Everything else degrades gracefully (empty attendance,
  zero holidays, malformed break pairs all yield zero tallies).

SEE ALSO:
  - composer.go: Raises ErrUserNotFound before any write
*/
package payroll

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when no salary profile exists for the
	// requested user. The computation aborts before any write.
	ErrUserNotFound = errors.New("user not found")
)

// UserNotFoundError carries the missing user's id.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("no salary profile for user %s", e.UserID)
}

func (e *UserNotFoundError) Unwrap() error { return ErrUserNotFound }

// IsNotFound returns true if the error indicates a missing user.
func IsNotFound(err error) bool { return errors.Is(err, ErrUserNotFound) }

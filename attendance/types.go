/*
Package attendance implements the punch-clock ledger.

PURPOSE:
  This package records raw attendance punches (clock-in/out and
  break-in/out) per user and exposes the ordered read path that the
  payroll classifier consumes. Events are immutable once recorded.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind: the punch channel (in/out vs break_in/break_out)
  - Event: an immutable punch record
  - Store: the append-only persistence interface

DESIGN PRINCIPLES:
  1. Immutability: events are never modified or deleted
  2. Two channels: in/out and break_in/break_out are logically
     independent; only the in/out channel enforces alternation
  3. Auditability: every punch keeps its timestamp and optional note

SEE ALSO:
  - ledger.go: Alternation invariant and the write/read operations
  - errors.go: InvalidTransitionError and sentinels
*/
package attendance

import (
	"context"
	"time"
)

// =============================================================================
// KIND - Punch channel
// =============================================================================

type Kind string

const (
	KindIn       Kind = "in"
	KindOut      Kind = "out"
	KindBreakIn  Kind = "break_in"
	KindBreakOut Kind = "break_out"
)

// IsInOut reports whether the kind belongs to the in/out channel.
// Break punches form a separate channel and skip the alternation check.
func (k Kind) IsInOut() bool { return k == KindIn || k == KindOut }

// Valid reports whether k is one of the four punch kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindIn, KindOut, KindBreakIn, KindBreakOut:
		return true
	}
	return false
}

// =============================================================================
// EVENT - Immutable punch record
// =============================================================================

type Event struct {
	ID        string
	UserID    string
	Kind      Kind
	Timestamp time.Time
	Note      string
}

// =============================================================================
// STORE - Append-only persistence interface
// =============================================================================

// Store handles persistence of punch events.
// IMPORTANT: Store is APPEND-ONLY. No Update, No Delete. Ever.
type Store interface {
	// AppendEvent persists a punch. This is the ONLY write operation.
	AppendEvent(ctx context.Context, ev Event) error

	// LastInOut returns the user's most recent in/out-channel event,
	// or nil when the user has never punched that channel.
	LastInOut(ctx context.Context, userID string) (*Event, error)

	// LoadEvents returns the user's events in [from, to), ascending
	// by timestamp. Break punches are included.
	LoadEvents(ctx context.Context, userID string, from, to time.Time) ([]Event, error)
}

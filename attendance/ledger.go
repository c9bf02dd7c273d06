/*
ledger.go - Punch recording and the alternation invariant

PURPOSE:
  The Ledger is the single write path for punches and the single read
  path the classifier uses. Recording enforces the in/out alternation
  invariant; reads return a point-in-time snapshot of an ordered,
  half-open window.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: punches are never updated or deleted
  2. ALTERNATION: on the in/out channel, an `in` must be closed by an
     `out` before the next `in`; an `out` requires an open `in`
  3. BREAKS ARE UNCHECKED HERE: break_in/break_out are a separate
     channel; the classifier decides what malformed break pairs mean

EXAMPLE FLOW:
  in@09:00  -> ok
  in@09:05  -> InvalidTransitionError (already clocked in)
  out@17:00 -> ok
  out@17:05 -> InvalidTransitionError (nothing to close)

SEE ALSO:
  - types.go: Event and Store definitions
  - payroll/classifier.go: Consumes Query output
*/
package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time.Now so tests can pin punch timestamps.
type Clock func() time.Time

// Ledger records and reads punch events for users.
type Ledger struct {
	store Store
	now   Clock
}

// NewLedger creates a ledger on top of an append-only store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// NewLedgerWithClock creates a ledger with an injected clock. Tests use
// this to punch at deterministic timestamps.
func NewLedgerWithClock(store Store, now Clock) *Ledger {
	return &Ledger{store: store, now: now}
}

// Record appends a punch for the user after checking the alternation
// invariant on the in/out channel. Break punches bypass the check.
func (l *Ledger) Record(ctx context.Context, userID string, kind Kind, note string) (Event, error) {
	if !kind.Valid() {
		return Event{}, ErrUnknownKind
	}

	if kind.IsInOut() {
		last, err := l.store.LastInOut(ctx, userID)
		if err != nil {
			return Event{}, err
		}
		if err := checkTransition(userID, kind, last); err != nil {
			return Event{}, err
		}
	}

	ev := Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Timestamp: l.now(),
		Note:      note,
	}
	if err := l.store.AppendEvent(ctx, ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Query returns the user's events in [from, to), ascending by
// timestamp. This is the sole read path used by the classifier and is
// a snapshot: punches recorded after the query do not appear.
func (l *Ledger) Query(ctx context.Context, userID string, from, to time.Time) ([]Event, error) {
	return l.store.LoadEvents(ctx, userID, from, to)
}

func checkTransition(userID string, kind Kind, last *Event) error {
	switch kind {
	case KindIn:
		if last != nil && last.Kind == KindIn {
			return &InvalidTransitionError{UserID: userID, Kind: kind, Last: last.Kind}
		}
	case KindOut:
		if last == nil {
			return &InvalidTransitionError{UserID: userID, Kind: kind}
		}
		if last.Kind != KindIn {
			return &InvalidTransitionError{UserID: userID, Kind: kind, Last: last.Kind}
		}
	}
	return nil
}

// Package memory provides an in-memory store implementation for
// testing and development. It implements the same interfaces as the
// SQLite store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kwan/payroll-engine/attendance"
	"github.com/kwan/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu       sync.RWMutex
	events   map[string][]attendance.Event // keyed by user id, ascending
	users    map[string]payroll.User       // keyed by user id
	profiles map[string]payroll.SalaryProfile
	holidays []payroll.Holiday
	records  []payroll.Record
}

func New() *Store {
	return &Store{
		events:   make(map[string][]attendance.Event),
		users:    make(map[string]payroll.User),
		profiles: make(map[string]payroll.SalaryProfile),
	}
}

// Compile-time interface checks.
var (
	_ attendance.Store        = (*Store)(nil)
	_ payroll.UserDirectory   = (*Store)(nil)
	_ payroll.HolidayCalendar = (*Store)(nil)
	_ payroll.RecordStore     = (*Store)(nil)
)

// =============================================================================
// ATTENDANCE EVENTS - Append-only
// =============================================================================

func (s *Store) AppendEvent(_ context.Context, ev attendance.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	evs := s.events[ev.UserID]
	i := sort.Search(len(evs), func(i int) bool {
		return evs[i].Timestamp.After(ev.Timestamp)
	})
	evs = append(evs, attendance.Event{})
	copy(evs[i+1:], evs[i:])
	evs[i] = ev
	s.events[ev.UserID] = evs
	return nil
}

func (s *Store) LastInOut(_ context.Context, userID string) (*attendance.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.events[userID]
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Kind.IsInOut() {
			ev := evs[i]
			return &ev, nil
		}
	}
	return nil, nil
}

func (s *Store) LoadEvents(_ context.Context, userID string, from, to time.Time) ([]attendance.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []attendance.Event
	for _, ev := range s.events[userID] {
		if !ev.Timestamp.Before(from) && ev.Timestamp.Before(to) {
			result = append(result, ev)
		}
	}
	return result, nil
}

// =============================================================================
// USERS & SALARY PROFILES
// =============================================================================

func (s *Store) SaveUser(_ context.Context, u payroll.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (*payroll.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[userID]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *Store) GetUserByUID(_ context.Context, uid string) (*payroll.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.UID == uid {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) ListUsers(_ context.Context) ([]payroll.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]payroll.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) SetSalaryProfile(_ context.Context, userID string, p payroll.SalaryProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return &payroll.UserNotFoundError{UserID: userID}
	}
	s.profiles[userID] = p
	return nil
}

func (s *Store) GetSalaryProfile(_ context.Context, userID string) (*payroll.SalaryProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(_ context.Context, h payroll.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, h)
	return nil
}

func (s *Store) Holidays(_ context.Context, from, to time.Time) ([]payroll.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []payroll.Holiday
	for _, h := range s.holidays {
		if !h.Date.Before(from) && h.Date.Before(to) {
			result = append(result, h)
		}
	}
	return result, nil
}

// =============================================================================
// PAYROLL RECORDS - Insert-only
// =============================================================================

func (s *Store) SaveRecord(_ context.Context, rec *payroll.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

func (s *Store) RecordsByMonth(_ context.Context, month payroll.Month) ([]payroll.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []payroll.Record
	for _, r := range s.records {
		if r.Month == month {
			result = append(result, r)
		}
	}
	return result, nil
}

/*
Package payroll implements the payroll computation core.

PURPOSE:
  Turns a month of attendance punches into classified hour totals,
  statutory deductions, and a net-pay record under Philippine
  labor-law rules. This is where the domain algorithms live: interval
  pairing, shift/holiday/weekend classification, bracket-table lookups,
  and rate derivation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Month: a calendar (year, month) pair with its half-open window
  - HourTotals: the four classified hour tallies
  - SalaryProfile: the salary composition snapshot
  - Record: the immutable payroll output (insert-only)
  - Ports: interfaces toward the excluded collaborators

DESIGN PRINCIPLES:
  1. Precision: uses decimal.Decimal for all peso amounts and hours
  2. Additive tallies: an hour can be night AND overtime AND holiday;
     the categories overlap to match the additive gross formula
  3. Ports, not singletons: every external collaborator is an injected
     interface so tests can substitute it

SEE ALSO:
  - classifier.go: Punches -> HourTotals
  - contributions.go: Salary -> SSS/PhilHealth/Pag-IBIG
  - composer.go: The full monthly computation
*/
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kwan/payroll-engine/attendance"
)

// =============================================================================
// MONTH - Calendar (year, month) pair
// =============================================================================

type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses the YYYY-MM wire format.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (use YYYY-MM): %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Window returns the half-open [start, end) covering the month.
func (m Month) Window() (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// WorkingDays counts the Monday-Friday dates in the month. Weekends are
// excluded unconditionally; holidays falling on weekdays still count.
func (m Month) WorkingDays() int {
	start, end := m.Window()
	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// =============================================================================
// HOUR TOTALS - Classified work hours for one window
// =============================================================================

// HourTotals holds the four classified tallies in decimal hours.
// The categories are additive and overlapping, not mutually exclusive:
// a Saturday night holiday shift counts in all four.
type HourTotals struct {
	Total    decimal.Decimal
	Overtime decimal.Decimal
	Night    decimal.Decimal
	Holiday  decimal.Decimal
}

func ZeroHourTotals() HourTotals {
	return HourTotals{
		Total:    decimal.Zero,
		Overtime: decimal.Zero,
		Night:    decimal.Zero,
		Holiday:  decimal.Zero,
	}
}

// =============================================================================
// HOLIDAY - Reference data from the calendar collaborator
// =============================================================================

type HolidayKind string

const (
	HolidayRegular HolidayKind = "regular"
	HolidaySpecial HolidayKind = "special"
)

type Holiday struct {
	ID   string
	Date time.Time // date component only; time-of-day is ignored
	Kind HolidayKind
	Name string
}

// =============================================================================
// USER & SALARY PROFILE - Snapshots from the user directory
// =============================================================================

type User struct {
	ID    string
	UID   string // external identity-provider subject
	Email string
	Name  string
	Role  string
}

// SalaryProfile is the salary composition used for both rate derivation
// and contribution lookups.
type SalaryProfile struct {
	BaseSalary  decimal.Decimal
	YearlyBonus decimal.Decimal
	ClientBonus decimal.Decimal
}

// TotalMonthly returns baseSalary + yearlyBonus/12 + clientBonus.
func (p SalaryProfile) TotalMonthly() decimal.Decimal {
	return p.BaseSalary.
		Add(p.YearlyBonus.Div(decimal.NewFromInt(12))).
		Add(p.ClientBonus)
}

// =============================================================================
// PAYROLL RECORD - Insert-only computation output
// =============================================================================

// Record is created exactly once per computation invocation. Lifecycle
// is create-only: repeated computations for the same (user, month) each
// produce a new record.
type Record struct {
	ID            string
	UserID        string
	Month         Month
	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	NightHours    decimal.Decimal
	HolidayHours  decimal.Decimal
	Gross         decimal.Decimal
	Deductions    decimal.Decimal
	Net           decimal.Decimal
	SSS           decimal.Decimal
	PhilHealth    decimal.Decimal
	PagIbig       decimal.Decimal
	CreatedAt     time.Time
}

// Summary is the human-readable companion to a Record, including the
// intermediate figures a payslip shows.
type Summary struct {
	User          string
	Month         string
	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	NightHours    decimal.Decimal
	HolidayHours  decimal.Decimal
	DailyRate     decimal.Decimal
	HourlyRate    decimal.Decimal
	Gross         decimal.Decimal
	Deductions    decimal.Decimal
	Net           decimal.Decimal
}

// =============================================================================
// PORTS - Interfaces toward the excluded collaborators
// =============================================================================

// AttendanceSource is the read path into the attendance ledger.
type AttendanceSource interface {
	Query(ctx context.Context, userID string, from, to time.Time) ([]attendance.Event, error)
}

// UserDirectory supplies user and salary snapshots.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	GetSalaryProfile(ctx context.Context, userID string) (*SalaryProfile, error)
}

// HolidayCalendar supplies the holidays intersecting [from, to).
type HolidayCalendar interface {
	Holidays(ctx context.Context, from, to time.Time) ([]Holiday, error)
}

// RecordStore accepts finished payroll records. Insert-only: the store
// must not assume (userID, month) uniqueness.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec *Record) error
	RecordsByMonth(ctx context.Context, month Month) ([]Record, error)
}

// Notifier consumes a finished record. Best-effort and fire-and-forget:
// failures must not roll back the payroll record.
type Notifier interface {
	Notify(rec Record, sum Summary)
}

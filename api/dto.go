/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/kwan/payroll-engine/attendance"
	"github.com/kwan/payroll-engine/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PunchRequest is the body for the four punch endpoints.
type PunchRequest struct {
	Note string `json:"note,omitempty"`
}

// EventDTO represents a punch in API responses.
type EventDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

// DayHoursDTO is the classified result for a single day.
type DayHoursDTO struct {
	Date          string   `json:"date"`
	TotalHours    float64  `json:"total_hours"`
	OvertimeHours float64  `json:"overtime_hours"`
	NightHours    float64  `json:"night_hours"`
	HolidayHours  float64  `json:"holiday_hours"`
	DroppedDates  []string `json:"dropped_dates,omitempty"`
}

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID    string `json:"id"`
	UID   string `json:"uid,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// SalaryProfileRequest sets a user's salary composition.
type SalaryProfileRequest struct {
	BaseSalary  float64 `json:"base_salary"`
	YearlyBonus float64 `json:"yearly_bonus"`
	ClientBonus float64 `json:"client_bonus"`
}

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

// CreateHolidayRequest adds a holiday to the calendar.
type CreateHolidayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Kind string `json:"kind"` // regular | special
	Name string `json:"name,omitempty"`
}

// ComputePayrollRequest triggers a monthly computation.
type ComputePayrollRequest struct {
	UserID string `json:"user_id"`
	Month  string `json:"month"` // YYYY-MM
}

// PayrollRecordDTO represents a computed payroll record.
type PayrollRecordDTO struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Month         string  `json:"month"`
	TotalHours    float64 `json:"total_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	NightHours    float64 `json:"night_hours"`
	HolidayHours  float64 `json:"holiday_hours"`
	Gross         float64 `json:"gross"`
	Deductions    float64 `json:"deductions"`
	Net           float64 `json:"net"`
	SSS           float64 `json:"sss"`
	PhilHealth    float64 `json:"philhealth"`
	PagIbig       float64 `json:"pagibig"`
	CreatedAt     string  `json:"created_at"`
}

// PayrollSummaryDTO is the human-readable companion to a record.
type PayrollSummaryDTO struct {
	User          string  `json:"user"`
	Month         string  `json:"month"`
	TotalHours    float64 `json:"total_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	NightHours    float64 `json:"night_hours"`
	HolidayHours  float64 `json:"holiday_hours"`
	DailyRate     float64 `json:"daily_rate"`
	HourlyRate    float64 `json:"hourly_rate"`
	Gross         float64 `json:"gross"`
	Deductions    float64 `json:"deductions"`
	Net           float64 `json:"net"`
}

// ComputePayrollResponse bundles the record and its summary.
type ComputePayrollResponse struct {
	Payroll PayrollRecordDTO  `json:"payroll"`
	Summary PayrollSummaryDTO `json:"summary"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEventDTO(ev attendance.Event) EventDTO {
	return EventDTO{
		ID:        ev.ID,
		UserID:    ev.UserID,
		Kind:      string(ev.Kind),
		Timestamp: ev.Timestamp.Format(time.RFC3339),
		Note:      ev.Note,
	}
}

func toUserDTO(u payroll.User) UserDTO {
	return UserDTO{ID: u.ID, UID: u.UID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func toRecordDTO(rec payroll.Record) PayrollRecordDTO {
	return PayrollRecordDTO{
		ID:            rec.ID,
		UserID:        rec.UserID,
		Month:         rec.Month.String(),
		TotalHours:    rec.TotalHours.InexactFloat64(),
		OvertimeHours: rec.OvertimeHours.InexactFloat64(),
		NightHours:    rec.NightHours.InexactFloat64(),
		HolidayHours:  rec.HolidayHours.InexactFloat64(),
		Gross:         rec.Gross.InexactFloat64(),
		Deductions:    rec.Deductions.InexactFloat64(),
		Net:           rec.Net.InexactFloat64(),
		SSS:           rec.SSS.InexactFloat64(),
		PhilHealth:    rec.PhilHealth.InexactFloat64(),
		PagIbig:       rec.PagIbig.InexactFloat64(),
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
	}
}

func toSummaryDTO(sum payroll.Summary) PayrollSummaryDTO {
	return PayrollSummaryDTO{
		User:          sum.User,
		Month:         sum.Month,
		TotalHours:    sum.TotalHours.InexactFloat64(),
		OvertimeHours: sum.OvertimeHours.InexactFloat64(),
		NightHours:    sum.NightHours.InexactFloat64(),
		HolidayHours:  sum.HolidayHours.InexactFloat64(),
		DailyRate:     sum.DailyRate.InexactFloat64(),
		HourlyRate:    sum.HourlyRate.InexactFloat64(),
		Gross:         sum.Gross.InexactFloat64(),
		Deductions:    sum.Deductions.InexactFloat64(),
		Net:           sum.Net.InexactFloat64(),
	}
}

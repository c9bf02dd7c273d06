/*
composer.go - Monthly payroll computation

PURPOSE:
  Combines the classified hour totals with the salary composition and
  the statutory calculator into a payroll record. The only domain
  failure is a missing salary profile; empty attendance degrades to a
  contribution-only computation.

RATE DERIVATION:
  totalMonthlySalary = base + yearlyBonus/12 + clientBonus
  dailyRate  = totalMonthlySalary / workingDays (Mon-Fri count)
  hourlyRate = dailyRate / 8
  overtime   = hourly * 1.25
  nightDiff  = hourly * 0.10
  holiday    = hourly * 2.00

WRITE DISCIPLINE:
  Insert-only. Every invocation for the same (user, month) produces a
  new record; the store must not assume uniqueness. Notification is
  fire-and-forget after the insert and never rolls it back.

SEE ALSO:
  - classifier.go: Produces the hour totals
  - contributions.go: Produces the deductions
  - types.go: Ports toward the collaborators
*/
package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	overtimeMultiplier  = decimal.NewFromFloat(1.25)
	nightDiffMultiplier = decimal.NewFromFloat(0.10)
	holidayMultiplier   = decimal.NewFromInt(2)
)

// Composer wires the payroll core to its collaborators.
type Composer struct {
	Attendance AttendanceSource
	Users      UserDirectory
	Calendar   HolidayCalendar
	Records    RecordStore
	Notifier   Notifier // optional
}

// ComputeMonthly runs the full computation for one user and month and
// persists the resulting record. Returns ErrUserNotFound (wrapped in
// UserNotFoundError) when no salary profile exists; no write happens
// in that case.
func (c *Composer) ComputeMonthly(ctx context.Context, userID string, month Month) (*Record, *Summary, error) {
	user, err := c.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := c.Users.GetSalaryProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || profile == nil {
		return nil, nil, &UserNotFoundError{UserID: userID}
	}

	from, to := month.Window()
	events, err := c.Attendance.Query(ctx, userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	holidays, err := c.Calendar.Holidays(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}

	hours := Classify(events, holidays)

	salary := profile.TotalMonthly()
	workingDays := decimal.NewFromInt(int64(month.WorkingDays()))
	dailyRate := salary.Div(workingDays)
	hourlyRate := dailyRate.Div(eight)

	overtimeRate := hourlyRate.Mul(overtimeMultiplier)
	nightDiffRate := hourlyRate.Mul(nightDiffMultiplier)
	holidayRate := hourlyRate.Mul(holidayMultiplier)

	gross := hours.Total.Mul(hourlyRate).
		Add(hours.Overtime.Mul(overtimeRate)).
		Add(hours.Night.Mul(nightDiffRate)).
		Add(hours.Holiday.Mul(holidayRate))

	sss := SSS(salary)
	philHealth := PhilHealth(salary)
	pagIbig := PagIbig(salary)
	deductions := sss.EmployeeMonthly.Add(philHealth).Add(pagIbig)
	net := gross.Sub(deductions)

	rec := &Record{
		ID:            uuid.NewString(),
		UserID:        userID,
		Month:         month,
		TotalHours:    hours.Total,
		OvertimeHours: hours.Overtime,
		NightHours:    hours.Night,
		HolidayHours:  hours.Holiday,
		Gross:         gross,
		Deductions:    deductions,
		Net:           net,
		SSS:           sss.EmployeeMonthly,
		PhilHealth:    philHealth,
		PagIbig:       pagIbig,
		CreatedAt:     time.Now().UTC(),
	}

	if err := c.Records.SaveRecord(ctx, rec); err != nil {
		return nil, nil, err
	}

	sum := &Summary{
		User:          user.Name,
		Month:         month.String(),
		TotalHours:    hours.Total,
		OvertimeHours: hours.Overtime,
		NightHours:    hours.Night,
		HolidayHours:  hours.Holiday,
		DailyRate:     dailyRate,
		HourlyRate:    hourlyRate,
		Gross:         gross,
		Deductions:    deductions,
		Net:           net,
	}

	if c.Notifier != nil {
		c.Notifier.Notify(*rec, *sum)
	}

	return rec, sum, nil
}

// Report returns every record computed for a month, across users.
// Duplicates are possible: the write path is insert-only.
func (c *Composer) Report(ctx context.Context, month Month) ([]Record, error) {
	return c.Records.RecordsByMonth(ctx, month)
}

/*
classifier.go - Punches to classified hour totals

PURPOSE:
  Turns one calendar-month window of punch events plus the holiday
  calendar into the four hour tallies the composer prices. This is the
  heart of the payroll core: interval pairing, break subtraction, and
  whole-day shift classification.

ALGORITHM:
  1. Partition events by calendar date
  2. Per date: first `in`, last `out`; either absent -> zero hours
  3. Raw duration = out - in
  4. Subtract adjacent (break_in, break_out) pairs; ignore unmatched or
     non-adjacent break punches; clamp at zero
  5. Classify the WHOLE day's net duration:
       night    if in-hour >= 22 or out-hour <= 6
       holiday  if the date is in the calendar
       weekend  -> entire duration is overtime
       weekday  -> overtime is the excess over 8h
     Total accumulates unconditionally; tallies overlap by design.

SILENT DEGRADATION:
  Incomplete days (missing in or out) contribute nothing and raise no
  error. ClassifyWithDiagnostics surfaces the dropped dates for
  observability without changing the numeric contract.

SEE ALSO:
  - composer.go: Prices the tallies
  - attendance/ledger.go: Produces the ordered event stream
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kwan/payroll-engine/attendance"
)

const dateLayout = "2006-01-02"

var eight = decimal.NewFromInt(8)

// Classify computes the four hour tallies for an ordered event
// sequence. Events must already be ascending by timestamp (the ledger
// query guarantees this).
func Classify(events []attendance.Event, holidays []Holiday) HourTotals {
	totals, _ := ClassifyWithDiagnostics(events, holidays)
	return totals
}

// ClassifyWithDiagnostics is Classify plus the list of dates that were
// silently dropped for lacking a complete in/out pair. The numeric
// result is identical to Classify.
func ClassifyWithDiagnostics(events []attendance.Event, holidays []Holiday) (HourTotals, []string) {
	totals := ZeroHourTotals()

	holidayDates := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidayDates[h.Date.Format(dateLayout)] = true
	}

	byDate := make(map[string][]attendance.Event)
	var order []string
	for _, ev := range events {
		d := ev.Timestamp.Format(dateLayout)
		if _, seen := byDate[d]; !seen {
			order = append(order, d)
		}
		byDate[d] = append(byDate[d], ev)
	}

	var dropped []string
	for _, date := range order {
		day := byDate[date]

		in := firstOfKind(day, attendance.KindIn)
		out := lastOfKind(day, attendance.KindOut)
		if in == nil || out == nil {
			dropped = append(dropped, date)
			continue
		}

		duration := hoursBetween(in.Timestamp, out.Timestamp).
			Sub(breakHours(day))
		if duration.IsNegative() {
			duration = decimal.Zero
		}

		if in.Timestamp.Hour() >= 22 || out.Timestamp.Hour() <= 6 {
			totals.Night = totals.Night.Add(duration)
		}
		if holidayDates[date] {
			totals.Holiday = totals.Holiday.Add(duration)
		}
		if isWeekend(in.Timestamp) {
			totals.Overtime = totals.Overtime.Add(duration)
		} else if duration.GreaterThan(eight) {
			totals.Overtime = totals.Overtime.Add(duration.Sub(eight))
		}
		totals.Total = totals.Total.Add(duration)
	}

	return totals, dropped
}

// breakHours sums the adjacent (break_in, break_out) pairs in a day's
// events. A break_in not immediately followed by a break_out is
// ignored, as is any stray break_out.
func breakHours(day []attendance.Event) decimal.Decimal {
	total := decimal.Zero
	for i := 0; i < len(day)-1; i++ {
		if day[i].Kind == attendance.KindBreakIn && day[i+1].Kind == attendance.KindBreakOut {
			total = total.Add(hoursBetween(day[i].Timestamp, day[i+1].Timestamp))
			i++ // consumed the pair
		}
	}
	return total
}

func firstOfKind(events []attendance.Event, kind attendance.Kind) *attendance.Event {
	for i := range events {
		if events[i].Kind == kind {
			return &events[i]
		}
	}
	return nil
}

func lastOfKind(events []attendance.Event, kind attendance.Kind) *attendance.Event {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == kind {
			return &events[i]
		}
	}
	return nil
}

func hoursBetween(from, to time.Time) decimal.Decimal {
	// Minute precision is enough for punch clocks and keeps the
	// decimal arithmetic exact (1/60 divisions only).
	minutes := to.Sub(from).Minutes()
	return decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60))
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

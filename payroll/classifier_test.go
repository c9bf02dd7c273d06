package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kwan/payroll-engine/attendance"
	"github.com/kwan/payroll-engine/payroll"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// 2025-03-12 is a Wednesday, 2025-03-15 a Saturday.
var (
	wednesday = time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	saturday  = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
)

func punch(day time.Time, kind attendance.Kind, hour, min int) attendance.Event {
	return attendance.Event{
		ID:        string(kind) + day.Format("0102") + time.Date(0, 1, 1, hour, min, 0, 0, time.UTC).Format("1504"),
		UserID:    "emp-1",
		Kind:      kind,
		Timestamp: time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.UTC),
	}
}

func hoursEqual(t *testing.T, expected float64, actual decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, decimal.NewFromFloat(expected).Equal(actual),
		"%s: expected %v, got %s", label, expected, actual)
}

// =============================================================================
// PAIRING AND CLASSIFICATION
// =============================================================================

func TestClassify_EmptyEvents_AllZero(t *testing.T) {
	// Zero attendance is idempotent regardless of the holiday set.
	holidays := []payroll.Holiday{{Date: wednesday, Kind: payroll.HolidayRegular}}

	totals := payroll.Classify(nil, holidays)

	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Overtime.IsZero())
	assert.True(t, totals.Night.IsZero())
	assert.True(t, totals.Holiday.IsZero())
}

func TestClassify_PlainWeekday_EightHours(t *testing.T) {
	// in@09:00, out@17:00 on a non-holiday weekday => 8h total, nothing else
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindOut, 17, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 8, totals.Total, "total")
	hoursEqual(t, 0, totals.Overtime, "overtime")
	hoursEqual(t, 0, totals.Night, "night")
	hoursEqual(t, 0, totals.Holiday, "holiday")
}

func TestClassify_WeekdayOvertime_ExcessOverEight(t *testing.T) {
	// in@09:00, out@19:00 (10h) on a weekday => overtime is the 2h excess
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindOut, 19, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 10, totals.Total, "total")
	hoursEqual(t, 2, totals.Overtime, "overtime")
}

func TestClassify_Weekend_EntireDurationIsOvertime(t *testing.T) {
	// Same 10h span on a Saturday => all 10h are overtime, not just 2
	events := []attendance.Event{
		punch(saturday, attendance.KindIn, 9, 0),
		punch(saturday, attendance.KindOut, 19, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 10, totals.Total, "total")
	hoursEqual(t, 10, totals.Overtime, "overtime")
}

func TestClassify_BreakSubtraction(t *testing.T) {
	// in@09, break_in@12, break_out@13, out@18 => 8h net, not 9
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindBreakIn, 12, 0),
		punch(wednesday, attendance.KindBreakOut, 13, 0),
		punch(wednesday, attendance.KindOut, 18, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 8, totals.Total, "total")
	hoursEqual(t, 0, totals.Overtime, "overtime")
}

func TestClassify_NonAdjacentBreaks_Ignored(t *testing.T) {
	// A break_in not immediately followed by break_out contributes nothing.
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindBreakIn, 12, 0),
		punch(wednesday, attendance.KindBreakIn, 12, 30),
		punch(wednesday, attendance.KindOut, 17, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 8, totals.Total, "total")
}

func TestClassify_AdjacentBreakAfterStray_StillPaired(t *testing.T) {
	// stray break_in, then an adjacent (break_in, break_out) pair:
	// only the adjacent pair is subtracted.
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindBreakIn, 11, 0),
		punch(wednesday, attendance.KindBreakIn, 12, 0),
		punch(wednesday, attendance.KindBreakOut, 12, 30),
		punch(wednesday, attendance.KindOut, 17, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 7.5, totals.Total, "total")
}

func TestClassify_NightShift_ByInHour(t *testing.T) {
	// Clock-in at 22:00 flags the whole day's duration as night hours.
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 22, 0),
		punch(wednesday, attendance.KindOut, 23, 30),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 1.5, totals.Total, "total")
	hoursEqual(t, 1.5, totals.Night, "night")
}

func TestClassify_NightShift_ByOutHour(t *testing.T) {
	// Clock-out at or before 06:00 also counts as a night shift.
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 1, 0),
		punch(wednesday, attendance.KindOut, 5, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 4, totals.Total, "total")
	hoursEqual(t, 4, totals.Night, "night")
}

func TestClassify_Holiday_FullDuration(t *testing.T) {
	holidays := []payroll.Holiday{{Date: wednesday, Kind: payroll.HolidayRegular, Name: "Araw ng Kagitingan"}}
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindOut, 17, 0),
	}

	totals := payroll.Classify(events, holidays)

	hoursEqual(t, 8, totals.Total, "total")
	hoursEqual(t, 8, totals.Holiday, "holiday")
}

func TestClassify_CategoriesOverlap(t *testing.T) {
	// A Saturday holiday night shift lands in every tally at once:
	// the categories are additive, not mutually exclusive.
	holidays := []payroll.Holiday{{Date: saturday, Kind: payroll.HolidaySpecial}}
	events := []attendance.Event{
		punch(saturday, attendance.KindIn, 22, 0),
		punch(saturday, attendance.KindOut, 23, 0),
	}

	totals := payroll.Classify(events, holidays)

	hoursEqual(t, 1, totals.Total, "total")
	hoursEqual(t, 1, totals.Overtime, "overtime")
	hoursEqual(t, 1, totals.Night, "night")
	hoursEqual(t, 1, totals.Holiday, "holiday")
}

// =============================================================================
// SILENT DEGRADATION
// =============================================================================

func TestClassify_IncompleteDay_DroppedSilently(t *testing.T) {
	// An `in` with no `out` contributes zero hours and no error.
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
	}

	totals, dropped := payroll.ClassifyWithDiagnostics(events, nil)

	assert.True(t, totals.Total.IsZero())
	assert.Equal(t, []string{"2025-03-12"}, dropped)
}

func TestClassify_MidnightCrossing_BothDaysDropped(t *testing.T) {
	// in@22:00 with the out falling on the next calendar date splits
	// into two incomplete days; both are dropped. Documented behavior,
	// surfaced through diagnostics.
	thursday := wednesday.AddDate(0, 0, 1)
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 22, 0),
		punch(thursday, attendance.KindOut, 6, 0),
	}

	totals, dropped := payroll.ClassifyWithDiagnostics(events, nil)

	assert.True(t, totals.Total.IsZero())
	assert.Equal(t, []string{"2025-03-12", "2025-03-13"}, dropped)
}

func TestClassify_BreaksLongerThanShift_ClampedToZero(t *testing.T) {
	// Net duration never goes negative. The break pair here falls
	// after the out punch, so it exceeds the 1h raw duration.
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindOut, 10, 0),
		punch(wednesday, attendance.KindBreakIn, 10, 30),
		punch(wednesday, attendance.KindBreakOut, 12, 30),
	}

	totals := payroll.Classify(events, nil)

	assert.False(t, totals.Total.IsNegative())
	assert.True(t, totals.Total.IsZero())
}

func TestClassify_MultipleDaysSum(t *testing.T) {
	thursday := wednesday.AddDate(0, 0, 1)
	events := []attendance.Event{
		punch(wednesday, attendance.KindIn, 9, 0),
		punch(wednesday, attendance.KindOut, 17, 0),
		punch(thursday, attendance.KindIn, 9, 0),
		punch(thursday, attendance.KindOut, 19, 0),
	}

	totals := payroll.Classify(events, nil)

	hoursEqual(t, 18, totals.Total, "total")
	hoursEqual(t, 2, totals.Overtime, "overtime")
}

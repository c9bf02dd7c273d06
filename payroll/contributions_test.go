package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kwan/payroll-engine/payroll"
)

func peso(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// =============================================================================
// SSS
// =============================================================================

func TestSSS_BelowFirstBracket_Zero(t *testing.T) {
	c := payroll.SSS(peso(4999))
	assert.True(t, c.EmployeeMonthly.IsZero())
	assert.True(t, c.EmployerMonthly.IsZero())
}

func TestSSS_KnownBrackets(t *testing.T) {
	cases := []struct {
		salary   float64
		employee float64
		employer float64
	}{
		{5000, 250, 510},
		{5249.99, 250, 510},
		{5250, 275, 560},
		{10000, 500, 1010}, // 9750 floor
		{21000, 1050, 2110},
		{28250, 1425, 2860},
		{28750, 1425, 2880},
		{1000000, 1425, 2880}, // capped at the top bracket
	}

	for _, tc := range cases {
		c := payroll.SSS(peso(tc.salary))
		assert.True(t, peso(tc.employee).Equal(c.EmployeeMonthly),
			"salary %v employee: expected %v, got %s", tc.salary, tc.employee, c.EmployeeMonthly)
		assert.True(t, peso(tc.employer).Equal(c.EmployerMonthly),
			"salary %v employer: expected %v, got %s", tc.salary, tc.employer, c.EmployerMonthly)
	}
}

func TestSSS_SemiMonthlyIsHalf(t *testing.T) {
	c := payroll.SSS(peso(21000))
	assert.True(t, c.EmployeeMonthly.Div(decimal.NewFromInt(2)).Equal(c.EmployeeSemiMonthly))
	assert.True(t, c.EmployerMonthly.Div(decimal.NewFromInt(2)).Equal(c.EmployerSemiMonthly))
}

func TestSSS_MonotonicInSalary(t *testing.T) {
	// The step table never decreases with higher salary. Sweep in 250
	// peso steps across the whole table range.
	prev := decimal.Zero
	for salary := 0; salary <= 40000; salary += 250 {
		c := payroll.SSS(decimal.NewFromInt(int64(salary)))
		assert.True(t, c.EmployeeMonthly.GreaterThanOrEqual(prev),
			"employee contribution decreased at salary %d", salary)
		prev = c.EmployeeMonthly
	}
}

// =============================================================================
// PHILHEALTH
// =============================================================================

func TestPhilHealth_ClampsLowSalaries(t *testing.T) {
	assert.True(t, payroll.PhilHealth(peso(5000)).Equal(payroll.PhilHealth(peso(10000))))
}

func TestPhilHealth_ClampsHighSalaries(t *testing.T) {
	assert.True(t, payroll.PhilHealth(peso(150000)).Equal(payroll.PhilHealth(peso(100000))))
}

func TestPhilHealth_MidRange(t *testing.T) {
	// 20000 * 0.05 * 0.5 = 500 monthly employee share, 250 semi-monthly
	assert.True(t, peso(250).Equal(payroll.PhilHealth(peso(20000))))
}

// =============================================================================
// PAG-IBIG
// =============================================================================

func TestPagIbig_LowRateUnderThreshold(t *testing.T) {
	// 1% at or below 1500: 1500 * 0.01 = 15 monthly, 7.50 semi-monthly
	assert.True(t, peso(7.5).Equal(payroll.PagIbig(peso(1500))))
}

func TestPagIbig_HighRateAboveThreshold(t *testing.T) {
	// 2% above 1500: 2000 * 0.02 = 40 monthly, 20 semi-monthly
	assert.True(t, peso(20).Equal(payroll.PagIbig(peso(2000))))
}

func TestPagIbig_CappedAtHundred(t *testing.T) {
	// 2% of 50000 would be 1000; the monthly cap is 100, so 50.
	assert.True(t, peso(50).Equal(payroll.PagIbig(peso(50000))))
	assert.True(t, peso(50).Equal(payroll.PagIbig(peso(500000))))
}

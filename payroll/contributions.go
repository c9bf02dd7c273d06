/*
contributions.go - Philippine statutory contribution calculator

PURPOSE:
  Pure lookup/formula functions mapping a total monthly salary to
  SSS, PhilHealth, and Pag-IBIG deduction amounts. No state, no
  failure modes: any non-negative salary maps to an amount.

SOURCES:
  SSS:        Circular No. 2024-006 table, effective January 2025
  PhilHealth: 5% of salary shared equally, base clamped to
              [10,000, 100,000]
  Pag-IBIG:   1% up to 1,500 salary, else 2%, capped at 100/month

SEMI-MONTHLY:
  Payroll runs twice a month, so each monthly figure also has a
  halved semi-monthly form.

SEE ALSO:
  - composer.go: Sums the employee shares into deductions
*/
package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// SSS - Bracket step table
// =============================================================================

// SSSContribution is the employee/employer split for one salary bracket.
type SSSContribution struct {
	EmployeeMonthly     decimal.Decimal
	EmployerMonthly     decimal.Decimal
	EmployeeSemiMonthly decimal.Decimal
	EmployerSemiMonthly decimal.Decimal
}

// sssBracket maps the bracket floor to fixed peso amounts. The table is
// a step function: a salary belongs to the highest floor it reaches,
// and anything at or above the top floor pays the capped amounts.
type sssBracket struct {
	floor    int64 // peso floor, inclusive
	employee int64
	employer int64
}

// Fixed peso amounts per the 2025 schedule. Floors ascend; the lookup
// relies on that ordering.
var sssTable = []sssBracket{
	{0, 0, 0},
	{5000, 250, 510},
	{5250, 275, 560},
	{5750, 300, 610},
	{6250, 325, 660},
	{6750, 350, 710},
	{7250, 375, 760},
	{7750, 400, 810},
	{8250, 425, 860},
	{8750, 450, 910},
	{9250, 475, 960},
	{9750, 500, 1010},
	{10250, 525, 1060},
	{10750, 550, 1110},
	{11250, 575, 1160},
	{11750, 600, 1210},
	{12250, 625, 1260},
	{12750, 650, 1310},
	{13250, 675, 1360},
	{13750, 700, 1410},
	{14250, 725, 1460},
	{14750, 750, 1510},
	{15250, 775, 1560},
	{15750, 800, 1610},
	{16250, 825, 1660},
	{16750, 850, 1710},
	{17250, 875, 1760},
	{17750, 900, 1810},
	{18250, 925, 1860},
	{18750, 950, 1910},
	{19250, 975, 1960},
	{19750, 1000, 2010},
	{20250, 1025, 2060},
	{20750, 1050, 2110},
	{21250, 1075, 2160},
	{21750, 1100, 2210},
	{22250, 1125, 2260},
	{22750, 1150, 2310},
	{23250, 1175, 2360},
	{23750, 1200, 2410},
	{24250, 1225, 2460},
	{24750, 1250, 2510},
	{25250, 1275, 2560},
	{25750, 1300, 2610},
	{26250, 1325, 2660},
	{26750, 1350, 2710},
	{27250, 1375, 2760},
	{27750, 1400, 2810},
	{28250, 1425, 2860},
	{28750, 1425, 2880}, // max MSC 35,000
}

var two = decimal.NewFromInt(2)

// SSS returns the employee and employer contributions for a total
// monthly salary, monthly and semi-monthly.
func SSS(salary decimal.Decimal) SSSContribution {
	match := sssTable[0]
	for _, b := range sssTable {
		if salary.GreaterThanOrEqual(decimal.NewFromInt(b.floor)) {
			match = b
		} else {
			break
		}
	}

	employee := decimal.NewFromInt(match.employee)
	employer := decimal.NewFromInt(match.employer)
	return SSSContribution{
		EmployeeMonthly:     employee,
		EmployerMonthly:     employer,
		EmployeeSemiMonthly: employee.Div(two),
		EmployerSemiMonthly: employer.Div(two),
	}
}

// =============================================================================
// PHILHEALTH - 5% shared equally, clamped base
// =============================================================================

var (
	philHealthMin  = decimal.NewFromInt(10000)
	philHealthMax  = decimal.NewFromInt(100000)
	philHealthRate = decimal.NewFromFloat(0.05)
	half           = decimal.NewFromFloat(0.5)
)

// PhilHealth returns the semi-monthly employee share.
func PhilHealth(salary decimal.Decimal) decimal.Decimal {
	clamped := salary
	if clamped.LessThan(philHealthMin) {
		clamped = philHealthMin
	}
	if clamped.GreaterThan(philHealthMax) {
		clamped = philHealthMax
	}
	monthly := clamped.Mul(philHealthRate).Mul(half)
	return monthly.Div(two)
}

// =============================================================================
// PAG-IBIG - 1%/2% with a 100 peso cap
// =============================================================================

var (
	pagIbigThreshold = decimal.NewFromInt(1500)
	pagIbigLowRate   = decimal.NewFromFloat(0.01)
	pagIbigHighRate  = decimal.NewFromFloat(0.02)
	pagIbigCap       = decimal.NewFromInt(100)
)

// PagIbig returns the semi-monthly employee share.
func PagIbig(salary decimal.Decimal) decimal.Decimal {
	rate := pagIbigHighRate
	if salary.LessThanOrEqual(pagIbigThreshold) {
		rate = pagIbigLowRate
	}
	monthly := salary.Mul(rate)
	if monthly.GreaterThan(pagIbigCap) {
		monthly = pagIbigCap
	}
	return monthly.Div(two)
}

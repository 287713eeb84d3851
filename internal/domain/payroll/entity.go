package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionType names a deduction line on the payslip.
type DeductionType string

const (
	DeductionAbsences             DeductionType = "Absences"
	DeductionLateness             DeductionType = "Retards"
	DeductionUnjustifiedDeparture DeductionType = "Sortie non justifiée"
)

// Rules are the monetary and time thresholds of the salary computation.
type Rules struct {
	AbsencePenalty decimal.Decimal

	// LatenessThreshold is the lateness above which a clock-in is penalised.
	LatenessThreshold     time.Duration
	LatenessBasePenalty   decimal.Decimal
	LatenessHourlyPenalty decimal.Decimal

	// DepartureGrace is how long after the shift end a final clock-out stays unpenalised.
	DepartureGrace              time.Duration
	UnjustifiedDeparturePenalty decimal.Decimal

	Currency string
}

func DefaultRules() Rules {
	return Rules{
		AbsencePenalty:              decimal.NewFromInt(10000),
		LatenessThreshold:           60 * time.Minute,
		LatenessBasePenalty:         decimal.NewFromInt(3000),
		LatenessHourlyPenalty:       decimal.NewFromInt(1500),
		DepartureGrace:              3 * time.Hour,
		UnjustifiedDeparturePenalty: decimal.NewFromInt(7000),
		Currency:                    "Ar",
	}
}

type Deduction struct {
	Type   DeductionType   `json:"type"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// MonthlySalaryResult is the derived salary of one employee for one month.
type MonthlySalaryResult struct {
	EmployeeID      string
	Month           time.Month
	Year            int
	BaseSalary      decimal.Decimal
	Deductions      []Deduction
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	ExpectedDays              int
	WorkedDays                int
	AbsencesCount             int
	LateOverThresholdCount    int
	UnjustifiedDepartureCount int
}

// NegativeNet reports deductions exceeding the base salary. The net is never clamped.
func (r MonthlySalaryResult) NegativeNet() bool {
	return r.NetSalary.IsNegative()
}

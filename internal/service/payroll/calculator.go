package payroll

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
	"github.com/shopspring/decimal"
)

// MonthlyInput gathers everything the salary of one employee for one month depends on.
type MonthlyInput struct {
	Employee employee.Employee
	Month    time.Month
	Year     int
	Resolver *calendar.Resolver
	Leaves   []leave.Request
	// Punches are the employee's punches of the month.
	Punches []attendance.Punch
	AsOf    time.Time
}

// ComputeMonthlySalary derives the net salary and its deductions. Days from
// today on are left out, so the result only moves as the month elapses.
func ComputeMonthlySalary(in MonthlyInput, rules payroll.Rules) payroll.MonthlySalaryResult {
	today := dateutil.Day(in.AsOf)
	first, next := dateutil.MonthBounds(in.Year, in.Month)

	expected := make(map[time.Time]bool)
	dateutil.EachDay(first, next, func(d time.Time) {
		if !d.Before(today) || !in.Employee.HiredBefore(d) {
			return
		}
		if ok, err := in.Resolver.IsExpectedWorkingDay(in.Employee, d); err != nil || !ok {
			return
		}
		if _, covered := leave.ActiveCovering(in.Leaves, d); covered {
			return
		}
		expected[d] = true
	})

	punches := monthPunches(in.Punches, first, next)

	worked := make(map[time.Time]bool)
	for _, p := range punches {
		if d := dateutil.Day(p.PunchedAt); p.Kind == attendance.KindClockIn && d.Before(today) {
			worked[d] = true
		}
	}

	absences := 0
	for d := range expected {
		if !worked[d] {
			absences++
		}
	}

	lateCount, latePenalty := latenessPenalty(punches, rules)
	departures := unjustifiedDepartures(in.Employee, in.Resolver, punches, rules)

	var deductions []payroll.Deduction
	if absences > 0 {
		deductions = append(deductions, payroll.Deduction{
			Type:   payroll.DeductionAbsences,
			Count:  absences,
			Amount: rules.AbsencePenalty.Mul(decimal.NewFromInt(int64(absences))),
		})
	}
	if lateCount > 0 {
		deductions = append(deductions, payroll.Deduction{
			Type:   payroll.DeductionLateness,
			Count:  lateCount,
			Amount: latePenalty,
			Note:   latenessNote(rules),
		})
	}
	if departures > 0 {
		deductions = append(deductions, payroll.Deduction{
			Type:   payroll.DeductionUnjustifiedDeparture,
			Count:  departures,
			Amount: rules.UnjustifiedDeparturePenalty.Mul(decimal.NewFromInt(int64(departures))),
		})
	}

	total := decimal.Zero
	for _, d := range deductions {
		total = total.Add(d.Amount)
	}

	return payroll.MonthlySalaryResult{
		EmployeeID:                in.Employee.ID,
		Month:                     in.Month,
		Year:                      in.Year,
		BaseSalary:                in.Employee.MonthlySalary,
		Deductions:                deductions,
		TotalDeductions:           total,
		NetSalary:                 in.Employee.MonthlySalary.Sub(total),
		ExpectedDays:              len(expected),
		WorkedDays:                len(worked),
		AbsencesCount:             absences,
		LateOverThresholdCount:    lateCount,
		UnjustifiedDepartureCount: departures,
	}
}

// LatenessPenalty is the deduction for one clock-in: the base penalty plus the
// hourly penalty for every full hour past the first.
func LatenessPenalty(lateness time.Duration, rules payroll.Rules) decimal.Decimal {
	extraHours := int64(lateness/time.Hour) - 1
	if extraHours < 0 {
		extraHours = 0
	}
	return rules.LatenessBasePenalty.Add(rules.LatenessHourlyPenalty.Mul(decimal.NewFromInt(extraHours)))
}

func latenessPenalty(punches []attendance.Punch, rules payroll.Rules) (int, decimal.Decimal) {
	count, total := 0, decimal.Zero
	for _, p := range punches {
		if !p.LateBeyond(rules.LatenessThreshold) {
			continue
		}
		count++
		total = total.Add(LatenessPenalty(minutes(*p.Lateness), rules))
	}
	return count, total
}

// minutes truncates to whole minutes, the precision lateness is judged at.
func minutes(d time.Duration) time.Duration {
	return d.Truncate(time.Minute)
}

func latenessNote(rules payroll.Rules) string {
	return fmt.Sprintf("%s %s au-delà de %d min, puis %s %s par heure supplémentaire",
		rules.LatenessBasePenalty.StringFixed(0), rules.Currency,
		int(rules.LatenessThreshold.Minutes()),
		rules.LatenessHourlyPenalty.StringFixed(0), rules.Currency)
}

// unjustifiedDepartures counts the dates with a clock-out that is neither
// followed by a return from break nor by an end of day, and that happened more
// than the grace period after the end of the shift. A date counts at most once.
func unjustifiedDepartures(emp employee.Employee, resolver *calendar.Resolver, punches []attendance.Punch, rules payroll.Rules) int {
	flagged := make(map[time.Time]bool)
	for i, p := range punches {
		day := dateutil.Day(p.PunchedAt)
		if p.Kind != attendance.KindClockOut || flagged[day] {
			continue
		}
		if i+1 < len(punches) && dateutil.SameDay(punches[i+1].PunchedAt, p.PunchedAt) {
			if k := punches[i+1].Kind; k == attendance.KindReturnFromBreak || k == attendance.KindEndOfDay {
				continue
			}
		}
		limit := resolver.ShiftEnd(emp, day).On(p.PunchedAt).Add(rules.DepartureGrace)
		if p.PunchedAt.After(limit) {
			flagged[day] = true
		}
	}
	return len(flagged)
}

// monthPunches keeps the punches whose wall date falls in [first, next), oldest first.
func monthPunches(punches []attendance.Punch, first, next time.Time) []attendance.Punch {
	out := make([]attendance.Punch, 0, len(punches))
	for _, p := range punches {
		d := dateutil.Day(p.PunchedAt)
		if !d.Before(first) && d.Before(next) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PunchedAt.Before(out[j].PunchedAt)
	})
	return out
}

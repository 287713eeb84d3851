package leave

import (
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
)

// DefaultAnnualQuota is the number of leave days an employee may take per calendar year.
const DefaultAnnualQuota = 30

// Proposal is a leave period to check before it is stored.
type Proposal struct {
	EmployeeID string
	Motive     string
	Start      time.Time
	Return     time.Time

	// Employee is nil when EmployeeID matched nobody.
	Employee *employee.Employee
	// Existing holds the employee's other requests; the one being edited is left out.
	Existing []leave.Request
	Resolver *calendar.Resolver

	// SkipFutureCheck lets HR edit a pending request whose start is unchanged.
	SkipFutureCheck bool
	AnnualQuota     int
}

// ValidateLeaveRequest runs the leave rules in order and stops at the first
// failure. On success it returns the number of working days the leave consumes.
func ValidateLeaveRequest(p Proposal, asOf time.Time) (int, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(p.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(p.Motive) {
		errs.Add("motive", "motive is required")
	}
	if p.Start.IsZero() {
		errs.Add("start_date", "start_date is required")
	}
	if p.Return.IsZero() {
		errs.Add("return_date", "return_date is required")
	}
	if err := errs.Err(); err != nil {
		return 0, err
	}

	start, end := dateutil.Day(p.Start), dateutil.Day(p.Return)
	if !start.Before(end) {
		return 0, leave.ErrInvalidPeriod
	}
	if !p.SkipFutureCheck && !start.After(dateutil.Day(asOf)) {
		return 0, leave.ErrStartNotInFuture
	}
	if p.Employee == nil {
		return 0, employee.ErrEmployeeNotFound
	}

	active := activeOnly(p.Existing)
	workingDays := p.Resolver.WorkingDays(*p.Employee, start, end, active)
	if workingDays <= 0 {
		return 0, leave.ErrNoWorkingDays
	}

	quota := p.AnnualQuota
	if quota <= 0 {
		quota = DefaultAnnualQuota
	}
	taken := DaysTaken(active, start.Year())
	if taken+workingDays > quota {
		return 0, &leave.QuotaExceededError{Quota: quota, Taken: taken, Requested: workingDays}
	}

	for _, r := range active {
		if r.Overlaps(start, end) {
			return 0, leave.ErrOverlap
		}
	}

	return workingDays, nil
}

// DaysTaken sums the day counts of active requests starting in year.
func DaysTaken(requests []leave.Request, year int) int {
	total := 0
	for _, r := range requests {
		if r.Status.IsActive() && r.StartDate.Year() == year {
			total += r.Days
		}
	}
	return total
}

func activeOnly(requests []leave.Request) []leave.Request {
	active := make([]leave.Request, 0, len(requests))
	for _, r := range requests {
		if r.Status.IsActive() {
			active = append(active, r)
		}
	}
	return active
}

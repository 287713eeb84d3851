package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, time.February, 20, 10, 0, 0, 0, time.UTC)

func testEmployee() *employee.Employee {
	return &employee.Employee{
		ID:         "emp-1",
		LastName:   "Rakoto",
		FirstName:  "Jean",
		Post:       "Comptable",
		ShiftStart: dateutil.MustClock("08:00:00"),
		ShiftEnd:   dateutil.MustClock("17:00:00"),
		WorkDays:   employee.Weekdays(),
		HireDate:   dateutil.NewDate(2023, time.June, 1),
	}
}

func proposal(start, end time.Time) Proposal {
	return Proposal{
		EmployeeID:  "emp-1",
		Motive:      "Vacances",
		Start:       start,
		Return:      end,
		Employee:    testEmployee(),
		Resolver:    calendar.NewResolver(nil),
		AnnualQuota: 30,
	}
}

func approved(start, end time.Time, days int) leave.Request {
	return leave.Request{ID: "existing", EmployeeID: "emp-1", Status: leave.StatusApproved, StartDate: start, ReturnDate: end, Days: days}
}

func TestValidateLeaveRequest_CountsWorkingDays(t *testing.T) {
	// Mon 2025-03-03 to Mon 2025-03-10: five weekdays, return day excluded.
	days, err := ValidateLeaveRequest(proposal(dateutil.NewDate(2025, time.March, 3), dateutil.NewDate(2025, time.March, 10)), asOf)
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestValidateLeaveRequest_RequiredFields(t *testing.T) {
	p := proposal(time.Time{}, time.Time{})
	p.Motive = "  "

	_, err := ValidateLeaveRequest(p, asOf)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "motive")
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "return_date")
	assert.NotContains(t, fields, "employee_id")
}

func TestValidateLeaveRequest_RuleOrder(t *testing.T) {
	march3 := dateutil.NewDate(2025, time.March, 3)
	march10 := dateutil.NewDate(2025, time.March, 10)

	cases := []struct {
		name   string
		mutate func(p *Proposal)
		want   error
	}{
		{"return before start", func(p *Proposal) { p.Start, p.Return = march10, march3 }, leave.ErrInvalidPeriod},
		{"same day", func(p *Proposal) { p.Return = p.Start }, leave.ErrInvalidPeriod},
		{"start today", func(p *Proposal) { p.Start = dateutil.Day(asOf) }, leave.ErrStartNotInFuture},
		{"start in the past", func(p *Proposal) { p.Start = dateutil.NewDate(2025, time.February, 1) }, leave.ErrStartNotInFuture},
		{"unknown employee", func(p *Proposal) { p.Employee = nil }, employee.ErrEmployeeNotFound},
		{"weekend only", func(p *Proposal) {
			p.Start, p.Return = dateutil.NewDate(2025, time.March, 8), dateutil.NewDate(2025, time.March, 10)
		}, leave.ErrNoWorkingDays},
		{"past start is fine when waived", func(p *Proposal) {
			p.Start = dateutil.NewDate(2025, time.February, 17)
			p.SkipFutureCheck = true
		}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := proposal(march3, march10)
			c.mutate(&p)
			_, err := ValidateLeaveRequest(p, asOf)
			if c.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestValidateLeaveRequest_Quota(t *testing.T) {
	// 25 days already approved this year.
	existing := []leave.Request{approved(dateutil.NewDate(2025, time.April, 1), dateutil.NewDate(2025, time.May, 6), 25)}

	// Mon 2025-06-02 .. Tue 2025-06-10: six weekdays.
	p := proposal(dateutil.NewDate(2025, time.June, 2), dateutil.NewDate(2025, time.June, 10))
	p.Existing = existing
	_, err := ValidateLeaveRequest(p, asOf)
	require.ErrorIs(t, err, leave.ErrQuotaExceeded)

	var quotaErr *leave.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 5, quotaErr.Remaining())
	assert.Contains(t, err.Error(), "5 remaining")

	// Five weekdays fit exactly.
	p.Return = dateutil.NewDate(2025, time.June, 9)
	days, err := ValidateLeaveRequest(p, asOf)
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestValidateLeaveRequest_QuotaIgnoresOtherYearsAndInactive(t *testing.T) {
	lastYear := approved(dateutil.NewDate(2024, time.March, 1), dateutil.NewDate(2024, time.April, 15), 30)
	rejected := approved(dateutil.NewDate(2025, time.April, 1), dateutil.NewDate(2025, time.May, 6), 25)
	rejected.Status = leave.StatusRejected

	p := proposal(dateutil.NewDate(2025, time.June, 2), dateutil.NewDate(2025, time.June, 10))
	p.Existing = []leave.Request{lastYear, rejected}
	days, err := ValidateLeaveRequest(p, asOf)
	require.NoError(t, err)
	assert.Equal(t, 6, days)
}

func TestValidateLeaveRequest_Overlap(t *testing.T) {
	existing := approved(dateutil.NewDate(2025, time.March, 1), dateutil.NewDate(2025, time.March, 10), 5)

	p := proposal(dateutil.NewDate(2025, time.March, 5), dateutil.NewDate(2025, time.March, 15))
	p.Existing = []leave.Request{existing}
	_, err := ValidateLeaveRequest(p, asOf)
	assert.ErrorIs(t, err, leave.ErrOverlap)

	// Back to back is not an overlap: the return day is not leave.
	p = proposal(dateutil.NewDate(2025, time.March, 10), dateutil.NewDate(2025, time.March, 15))
	p.Existing = []leave.Request{existing}
	_, err = ValidateLeaveRequest(p, asOf)
	assert.NoError(t, err)

	// Pending requests never block.
	pending := existing
	pending.Status = leave.StatusPending
	p = proposal(dateutil.NewDate(2025, time.March, 5), dateutil.NewDate(2025, time.March, 15))
	p.Existing = []leave.Request{pending}
	_, err = ValidateLeaveRequest(p, asOf)
	assert.NoError(t, err)
}

func TestDaysTaken(t *testing.T) {
	requests := []leave.Request{
		approved(dateutil.NewDate(2025, time.January, 6), dateutil.NewDate(2025, time.January, 8), 2),
		{Status: leave.StatusCompleted, StartDate: dateutil.NewDate(2025, time.February, 3), Days: 4},
		{Status: leave.StatusPending, StartDate: dateutil.NewDate(2025, time.March, 3), Days: 7},
		{Status: leave.StatusInProgress, StartDate: dateutil.NewDate(2024, time.December, 30), Days: 3},
	}
	assert.Equal(t, 6, DaysTaken(requests, 2025))
	assert.Equal(t, 3, DaysTaken(requests, 2024))
}

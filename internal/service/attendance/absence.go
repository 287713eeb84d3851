package attendance

import (
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
)

// DayFacts are the records of a single date that absence detection looks at.
type DayFacts struct {
	Resolver *calendar.Resolver
	// Punched holds the ids of employees with at least one punch of any kind on the date.
	Punched map[string]bool
	// Leaves are the requests covering the date; only active ones excuse an absence.
	Leaves []leave.Request
}

// DetectAbsent returns the employees hired strictly before date who were
// expected to work, did not punch and were not on active leave.
func DetectAbsent(date time.Time, employees []employee.Employee, facts DayFacts) []employee.Employee {
	day := dateutil.Day(date)

	onLeave := make(map[string]bool)
	for _, r := range facts.Leaves {
		if r.Status.IsActive() && r.Covers(day) {
			onLeave[r.EmployeeID] = true
		}
	}

	absent := make([]employee.Employee, 0)
	for _, emp := range employees {
		if !emp.HiredBefore(day) {
			continue
		}
		expected, err := facts.Resolver.IsExpectedWorkingDay(emp, day)
		if err != nil || !expected {
			continue
		}
		if facts.Punched[emp.ID] || onLeave[emp.ID] {
			continue
		}
		absent = append(absent, emp)
	}
	return absent
}

// Package calendar decides, for an employee and a civil date, which shift applies
// and whether work is expected at all.
package calendar

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
)

// Matcher reports whether an override targets the employee.
type Matcher func(emp employee.Employee, o schedule.Override) bool

func MatchEmployee(emp employee.Employee, o schedule.Override) bool {
	return o.Scope.Kind == schedule.ScopeEmployee && o.Scope.EmployeeID == emp.ID
}

func MatchPost(emp employee.Employee, o schedule.Override) bool {
	return o.Scope.Kind == schedule.ScopePost && o.Scope.Post == emp.Post
}

func MatchGlobal(_ employee.Employee, o schedule.Override) bool {
	return o.Scope.Kind == schedule.ScopeGlobal
}

// Precedence is the order in which matchers are tried; the first hit wins.
var Precedence = []Matcher{MatchEmployee, MatchPost, MatchGlobal}

// Resolver answers schedule questions from an in-memory set of overrides, so a
// whole month of facts can be loaded once and queried per day.
type Resolver struct {
	overrides []schedule.Override
	matchers  []Matcher
}

// NewResolver keeps the most recently updated override first within a precedence level.
func NewResolver(overrides []schedule.Override) *Resolver {
	sorted := make([]schedule.Override, len(overrides))
	copy(sorted, overrides)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	return &Resolver{overrides: sorted, matchers: Precedence}
}

// Override returns the override applying to the employee on date, if any.
func (r *Resolver) Override(emp employee.Employee, date time.Time) (schedule.Override, bool) {
	for _, match := range r.matchers {
		for _, o := range r.overrides {
			if o.Covers(date) && match(emp, o) {
				return o, true
			}
		}
	}
	return schedule.Override{}, false
}

// IsExpectedWorkingDay fails with ErrNoExpectationBeforeHire for dates on or
// before the hire date. Any applicable override makes the day a working day,
// whatever its hours; otherwise the weekly pattern decides.
func (r *Resolver) IsExpectedWorkingDay(emp employee.Employee, date time.Time) (bool, error) {
	if !emp.HiredBefore(date) {
		return false, schedule.ErrNoExpectationBeforeHire
	}
	if _, ok := r.Override(emp, date); ok {
		return true, nil
	}
	return emp.WorkDays.Works(dateutil.Day(date).Weekday()), nil
}

// ShiftStart is the override start time when one applies, else the default start.
func (r *Resolver) ShiftStart(emp employee.Employee, date time.Time) dateutil.Clock {
	if o, ok := r.Override(emp, date); ok {
		return o.StartTime
	}
	return emp.ShiftStart
}

// ShiftEnd is the employee's default end of shift. Overrides do not move it.
func (r *Resolver) ShiftEnd(emp employee.Employee, _ time.Time) dateutil.Clock {
	return emp.ShiftEnd
}

// WorkingDays counts the dates of [start, end) that fall after the hire date,
// are expected working days and are not already covered by one of the given
// active leaves.
func (r *Resolver) WorkingDays(emp employee.Employee, start, end time.Time, leaves []leave.Request) int {
	count := 0
	dateutil.EachDay(start, end, func(d time.Time) {
		if !emp.HiredBefore(d) {
			return
		}
		if _, covered := leave.ActiveCovering(leaves, d); covered {
			return
		}
		if expected, err := r.IsExpectedWorkingDay(emp, d); err == nil && expected {
			count++
		}
	})
	return count
}

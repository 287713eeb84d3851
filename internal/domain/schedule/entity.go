package schedule

import (
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
)

// ScopeKind tags which population a schedule override applies to.
type ScopeKind string

const (
	ScopeEmployee ScopeKind = "employee"
	ScopePost     ScopeKind = "post"
	ScopeGlobal   ScopeKind = "global"
)

// Scope targets a single employee, every employee of a post, or everyone.
// Build it with EmployeeScope, PostScope or GlobalScope so that at most one target is set.
type Scope struct {
	Kind       ScopeKind
	EmployeeID string
	Post       string
}

func EmployeeScope(employeeID string) Scope {
	return Scope{Kind: ScopeEmployee, EmployeeID: employeeID}
}

func PostScope(post string) Scope {
	return Scope{Kind: ScopePost, Post: post}
}

func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// ScopeFromColumns rebuilds a scope from the nullable employee_id and post columns.
func ScopeFromColumns(employeeID, post *string) Scope {
	switch {
	case employeeID != nil && *employeeID != "":
		return EmployeeScope(*employeeID)
	case post != nil && *post != "":
		return PostScope(*post)
	default:
		return GlobalScope()
	}
}

// Columns is the inverse of ScopeFromColumns.
func (s Scope) Columns() (employeeID, post *string) {
	switch s.Kind {
	case ScopeEmployee:
		id := s.EmployeeID
		return &id, nil
	case ScopePost:
		p := s.Post
		return nil, &p
	}
	return nil, nil
}

// Override is a temporary shift superseding the default weekly pattern
// between StartDate and EndDate, both inclusive.
type Override struct {
	ID        string
	Scope     Scope
	StartDate time.Time
	EndDate   time.Time
	StartTime dateutil.Clock
	EndTime   dateutil.Clock
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the civil date d lies within the override's range.
func (o Override) Covers(d time.Time) bool {
	day := dateutil.Day(d)
	return !day.Before(dateutil.Day(o.StartDate)) && !day.After(dateutil.Day(o.EndDate))
}

// NotifyTarget selects who is told about a new or changed override.
type NotifyTarget string

const (
	NotifyNone     NotifyTarget = "none"
	NotifyAll      NotifyTarget = "all"
	NotifyPost     NotifyTarget = "post"
	NotifySelected NotifyTarget = "selected"
)

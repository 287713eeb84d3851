package leave

import (
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ActiveStatuses are the statuses that consume quota, block overlapping requests
// and excuse absences.
var ActiveStatuses = []Status{StatusApproved, StatusInProgress, StatusCompleted}

func (s Status) IsActive() bool {
	return s == StatusApproved || s == StatusInProgress || s == StatusCompleted
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Request is a leave period [StartDate, ReturnDate). ReturnDate is the day the
// employee is back at work and is not part of the leave.
type Request struct {
	ID          string
	EmployeeID  string
	Motive      string
	StartDate   time.Time
	ReturnDate  time.Time
	Days        int
	Status      Status
	RequestedAt time.Time
	UpdatedAt   time.Time

	// Joined from employees
	EmployeeLastName  string
	EmployeeFirstName string
}

// Covers reports whether the civil date d falls inside the leave.
func (r Request) Covers(d time.Time) bool {
	day := dateutil.Day(d)
	return !day.Before(dateutil.Day(r.StartDate)) && day.Before(dateutil.Day(r.ReturnDate))
}

// Overlaps reports whether [start, end) intersects the leave.
func (r Request) Overlaps(start, end time.Time) bool {
	return dateutil.Day(start).Before(dateutil.Day(r.ReturnDate)) && dateutil.Day(end).After(dateutil.Day(r.StartDate))
}

// ProgressedStatus is the status the request should have on asOf's date.
// Approved leave moves to in_progress once started and to completed once the
// return date is reached; other statuses never move by themselves.
func (r Request) ProgressedStatus(asOf time.Time) Status {
	if r.Status != StatusApproved && r.Status != StatusInProgress {
		return r.Status
	}
	today := dateutil.Day(asOf)
	switch {
	case !today.Before(dateutil.Day(r.ReturnDate)):
		return StatusCompleted
	case !today.Before(dateutil.Day(r.StartDate)):
		return StatusInProgress
	}
	return r.Status
}

// ActiveCovering returns the first active request covering d.
func ActiveCovering(requests []Request, d time.Time) (Request, bool) {
	for _, r := range requests {
		if r.Status.IsActive() && r.Covers(d) {
			return r, true
		}
	}
	return Request{}, false
}

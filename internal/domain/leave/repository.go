package leave

import (
	"context"
	"time"
)

type Filter struct {
	EmployeeID *string
	// Start and End, when both set, keep requests overlapping [Start, End].
	Start *time.Time
	End   *time.Time
}

// RequestRepository - interface for leave_requests table
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter Filter) ([]Request, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	// ListActiveCovering returns active requests with start <= date < return.
	ListActiveCovering(ctx context.Context, date time.Time) ([]Request, error)
	// ListActiveInRange returns active requests overlapping [start, end).
	ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]Request, error)
	// ListNonRejectedInRange returns pending or active requests overlapping [start, end].
	ListNonRejectedInRange(ctx context.Context, employeeID string, start, end time.Time) ([]Request, error)
	SumActiveDays(ctx context.Context, employeeID string, year int) (int, error)
	Create(ctx context.Context, request Request) (Request, error)
	Update(ctx context.Context, request Request) (Request, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	// ProgressStatuses applies the wall-clock progression to every approved or
	// in-progress request and returns the number of rows changed.
	ProgressStatuses(ctx context.Context, asOf time.Time) (int64, error)
}

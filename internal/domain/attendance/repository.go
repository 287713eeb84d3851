package attendance

import (
	"context"
	"time"
)

// PunchRepository - interface for punches table. Time bounds are instants, [from, to).
type PunchRepository interface {
	GetByID(ctx context.Context, id string) (Punch, error)
	// List returns punches newest first, all employees when employeeID is nil.
	List(ctx context.Context, employeeID *string) ([]Punch, error)
	// ListForEmployee returns the employee's punches in [from, to), oldest first.
	ListForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Punch, error)
	// ListInRange returns every employee's punches in [from, to), oldest first.
	ListInRange(ctx context.Context, from, to time.Time) ([]Punch, error)
	// LastForEmployee returns the latest punch in [from, to) or ErrPunchNotFound.
	LastForEmployee(ctx context.Context, employeeID string, from, to time.Time) (Punch, error)
	Create(ctx context.Context, punch Punch) (Punch, error)
	Delete(ctx context.Context, id string) error
}

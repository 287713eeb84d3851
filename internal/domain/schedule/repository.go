package schedule

import (
	"context"
	"time"
)

type OverrideRepository interface {
	GetByID(ctx context.Context, id string) (Override, error)
	List(ctx context.Context) ([]Override, error)
	// ListInRange returns overrides intersecting [start, end], both inclusive.
	ListInRange(ctx context.Context, start, end time.Time) ([]Override, error)
	// FindApplicable returns the highest-precedence override covering date for the
	// employee: exact employee, then post, then global. Returns ErrOverrideNotFound if none.
	FindApplicable(ctx context.Context, employeeID, post string, date time.Time) (Override, error)
	Create(ctx context.Context, override Override) (Override, error)
	Update(ctx context.Context, override Override) (Override, error)
	Delete(ctx context.Context, id string) error
}

package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// LockForUpdate reads the employee with a row lock held until the surrounding transaction ends.
	LockForUpdate(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	ListByPost(ctx context.Context, post string) ([]Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, employee Employee) (Employee, error)
	SoftDelete(ctx context.Context, id string) error
}

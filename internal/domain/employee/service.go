package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists active employees, optionally filtered by a name query
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee soft deletes an employee, keeping attendance and leave history
	DeleteEmployee(ctx context.Context, id string) error
}

// PhotoService stores employee photos and returns their public URL.
type PhotoService interface {
	UploadPhoto(ctx context.Context, req UploadPhotoRequest) (PhotoResponse, error)
}

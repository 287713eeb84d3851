package notification

import (
	"context"
	"time"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListAll(ctx context.Context) ([]*Notification, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]*Notification, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedBy string) error

	// Absence notices
	HasAbsenceNotice(ctx context.Context, employeeID string, date time.Time) (bool, error)
	ListNoticedEmployees(ctx context.Context, date time.Time) (map[string]bool, error)
}

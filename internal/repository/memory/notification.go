package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
)

type NotificationRepository struct {
	mu    sync.Mutex
	Items []*notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *n
	r.Items = append(r.Items, &copied)
	return nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.Items {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, notification.ErrNotificationNotFound
}

func (r *NotificationRepository) ListAll(_ context.Context) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*notification.Notification(nil), r.Items...), nil
}

func (r *NotificationRepository) ListForEmployee(_ context.Context, employeeID string) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.Items {
		if n.EmployeeID == employeeID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *NotificationRepository) UpdateStatus(_ context.Context, id string, status notification.Status, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.Items {
		if n.ID == id {
			n.Status = status
			n.UpdatedBy = &updatedBy
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (r *NotificationRepository) HasAbsenceNotice(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	noticed, err := r.ListNoticedEmployees(ctx, date)
	return noticed[employeeID], err
}

func (r *NotificationRepository) ListNoticedEmployees(_ context.Context, date time.Time) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, n := range r.Items {
		if n.Type == notification.TypeAbsence && n.Notified && n.AbsenceDate != nil && dateutil.SameDay(*n.AbsenceDate, date) {
			out[n.EmployeeID] = true
		}
	}
	return out, nil
}

// OfType returns the stored notifications of type t.
func (r *NotificationRepository) OfType(t notification.NotificationType) []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.Items {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

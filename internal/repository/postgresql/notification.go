package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

const notificationSelect = `
	SELECT n.id, n.employee_id, n.type, n.title, n.message, n.status, n.notified, n.absence_date,
		n.updated_by, n.created_at, n.updated_at, e.last_name, e.first_name
	FROM notifications n
	JOIN employees e ON e.id = n.employee_id
`

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(
		&n.ID,
		&n.EmployeeID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.Status,
		&n.Notified,
		&n.AbsenceDate,
		&n.UpdatedBy,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.EmployeeLastName,
		&n.EmployeeFirstName,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) list(ctx context.Context, sql string, args ...interface{}) ([]*notification.Notification, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// Create creates a new notification. A second absence notice for the same
// employee and date is ignored.
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	var absenceDate pgtype.Date
	if n.AbsenceDate != nil {
		absenceDate = toPgDate(*n.AbsenceDate)
	}

	query := `
		INSERT INTO notifications (id, employee_id, type, title, message, status, notified, absence_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT DO NOTHING
	`
	_, err := q.Exec(ctx, query,
		n.ID,
		n.EmployeeID,
		string(n.Type),
		n.Title,
		n.Message,
		string(n.Status),
		n.Notified,
		absenceDate,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by ID
func (r *notificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	n, err := scanNotification(q.QueryRow(ctx, notificationSelect+` WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// ListAll returns every notification, newest first.
func (r *notificationRepository) ListAll(ctx context.Context) ([]*notification.Notification, error) {
	return r.list(ctx, notificationSelect+` ORDER BY n.created_at DESC`)
}

// ListForEmployee returns the employee's notifications, newest first.
func (r *notificationRepository) ListForEmployee(ctx context.Context, employeeID string) ([]*notification.Notification, error) {
	return r.list(ctx, notificationSelect+` WHERE n.employee_id = $1 ORDER BY n.created_at DESC`, employeeID)
}

// UpdateStatus marks a notification read or unread.
func (r *notificationRepository) UpdateStatus(ctx context.Context, id string, status notification.Status, updatedBy string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET status = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, string(status), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// HasAbsenceNotice reports whether an absence email went out for the employee on date.
func (r *notificationRepository) HasAbsenceNotice(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE employee_id = $1 AND type = 'absence' AND notified AND absence_date = $2
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, toPgDate(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check absence notice: %w", err)
	}
	return exists, nil
}

// ListNoticedEmployees returns the employees already sent an absence notice for date.
func (r *notificationRepository) ListNoticedEmployees(ctx context.Context, date time.Time) (map[string]bool, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT employee_id FROM notifications
		WHERE type = 'absence' AND notified AND absence_date = $1
	`, toPgDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list absence notices: %w", err)
	}
	defer rows.Close()

	noticed := make(map[string]bool)
	for rows.Next() {
		var employeeID string
		if err := rows.Scan(&employeeID); err != nil {
			return nil, fmt.Errorf("failed to scan absence notice: %w", err)
		}
		noticed[employeeID] = true
	}
	return noticed, rows.Err()
}

package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveRequest   NotificationType = "leave_request"
	TypeLeaveStatus    NotificationType = "leave_status"
	TypeAbsence        NotificationType = "absence"
	TypeScheduleChange NotificationType = "schedule_change"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeLeaveRequest,
		TypeLeaveStatus,
		TypeAbsence,
		TypeScheduleChange,
	}
}

type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

func (s Status) IsValid() bool {
	return s == StatusUnread || s == StatusRead
}

// Notification is a message addressed to one employee. Notified records that the
// matching email went out; AbsenceDate is set on absence notices only.
type Notification struct {
	ID          string
	EmployeeID  string
	Type        NotificationType
	Title       string
	Message     string
	Status      Status
	Notified    bool
	AbsenceDate *time.Time
	UpdatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	EmployeeLastName  string
	EmployeeFirstName string
}

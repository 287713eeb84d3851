package notification

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
)

// ============= Request DTOs =============

// CreateNotificationRequest is built by the services that notify employees.
type CreateNotificationRequest struct {
	EmployeeID  string
	Type        NotificationType
	Title       string
	Message     string
	Notified    bool
	AbsenceDate *time.Time
}

// UpdateStatusRequest marks a notification read or unread.
type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status" validate:"required,oneof=read unread"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validator.Struct(r)
}

// AbsenceNoticeQuery asks whether an absence notice went out for an employee and day.
type AbsenceNoticeQuery struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required,date"`

	Day time.Time `json:"-"`
}

func (r *AbsenceNoticeQuery) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	r.Day, _ = dateutil.ParseDate(r.Date)
	return nil
}

// SendAbsenceNoticesRequest targets the absentees of Date, optionally narrowed to EmployeeIDs.
type SendAbsenceNoticesRequest struct {
	Date        string   `json:"date" validate:"required,date"`
	EmployeeIDs []string `json:"employee_ids"`

	Day time.Time `json:"-"`
}

func (r *SendAbsenceNoticesRequest) Validate() error {
	r.Date = strings.TrimSpace(r.Date)
	if err := validator.Struct(r); err != nil {
		return err
	}
	r.Day, _ = dateutil.ParseDate(r.Date)
	return nil
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	EmployeeLastName  string           `json:"employee_last_name,omitempty"`
	EmployeeFirstName string           `json:"employee_first_name,omitempty"`
	Type              NotificationType `json:"type"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	Status            Status           `json:"status"`
	Notified          bool             `json:"notified"`
	AbsenceDate       *string          `json:"absence_date,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func ToResponse(n *Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:                n.ID,
		EmployeeID:        n.EmployeeID,
		EmployeeLastName:  n.EmployeeLastName,
		EmployeeFirstName: n.EmployeeFirstName,
		Type:              n.Type,
		Title:             n.Title,
		Message:           n.Message,
		Status:            n.Status,
		Notified:          n.Notified,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
	}
	if n.AbsenceDate != nil {
		d := n.AbsenceDate.Format(dateutil.DateLayout)
		resp.AbsenceDate = &d
	}
	return resp
}

type AbsenceNoticeStatus struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Notified   bool   `json:"notified"`
}

// SendAbsenceNoticesResponse tallies one run of absence notices.
type SendAbsenceNoticesResponse struct {
	Date              string   `json:"date"`
	Absent            int      `json:"absent"`
	AlreadyNotified   int      `json:"already_notified"`
	EmailsSent        int      `json:"emails_sent"`
	EmailsFailed      int      `json:"emails_failed"`
	FailedEmployeeIDs []string `json:"failed_employee_ids,omitempty"`
}

// SSETokenResponse represents the SSE token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ============= SSE Event =============

// SSEEvent represents a Server-Sent Event
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}

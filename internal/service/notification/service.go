package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/email"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/sse"
	"github.com/google/uuid"
)

const eventNotification = "notification"

type service struct {
	repo           notification.Repository
	hub            *sse.Hub
	emailService   email.EmailService
	absenceService attendance.AbsenceService
	now            func() time.Time
}

// NewNotificationService creates the notification service. New notifications are
// stored synchronously and pushed to live SSE subscribers.
func NewNotificationService(
	repo notification.Repository,
	hub *sse.Hub,
	emailService email.EmailService,
	absenceService attendance.AbsenceService,
	now func() time.Time,
) notification.Service {
	return &service{
		repo:           repo,
		hub:            hub,
		emailService:   emailService,
		absenceService: absenceService,
		now:            now,
	}
}

// Record stores a notification and pushes it to the employee and HR streams
func (s *service) Record(ctx context.Context, req notification.CreateNotificationRequest) (*notification.Notification, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notification id: %w", err)
	}

	now := s.now()
	n := &notification.Notification{
		ID:          id.String(),
		EmployeeID:  req.EmployeeID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Status:      notification.StatusUnread,
		Notified:    req.Notified,
		AbsenceDate: req.AbsenceDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.hub.Publish(sse.Event{
		Topic: n.EmployeeID,
		Event: eventNotification,
		Data:  notification.ToResponse(n),
	})

	return n, nil
}

func (s *service) ListAll(ctx context.Context) ([]notification.NotificationResponse, error) {
	notifications, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return toResponses(notifications), nil
}

func (s *service) ListMine(ctx context.Context, actor user.Actor) ([]notification.NotificationResponse, error) {
	if actor.EmployeeID == nil {
		return nil, notification.ErrNoLinkedEmployee
	}

	notifications, err := s.repo.ListForEmployee(ctx, *actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return toResponses(notifications), nil
}

// UpdateStatus marks a notification read or unread. Regular users may only
// touch their own notifications.
func (s *service) UpdateStatus(ctx context.Context, actor user.Actor, req notification.UpdateStatusRequest) (notification.NotificationResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.NotificationResponse{}, err
	}

	n, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	if !actor.CanActOn(n.EmployeeID) {
		return notification.NotificationResponse{}, notification.ErrUnauthorized
	}

	if err := s.repo.UpdateStatus(ctx, req.ID, req.Status, actor.UserID); err != nil {
		return notification.NotificationResponse{}, fmt.Errorf("failed to update notification: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	return notification.ToResponse(updated), nil
}

func (s *service) HasAbsenceNotice(ctx context.Context, req notification.AbsenceNoticeQuery) (notification.AbsenceNoticeStatus, error) {
	if err := req.Validate(); err != nil {
		return notification.AbsenceNoticeStatus{}, err
	}

	notified, err := s.repo.HasAbsenceNotice(ctx, req.EmployeeID, req.Day)
	if err != nil {
		return notification.AbsenceNoticeStatus{}, fmt.Errorf("failed to check absence notice: %w", err)
	}
	return notification.AbsenceNoticeStatus{EmployeeID: req.EmployeeID, Date: req.Date, Notified: notified}, nil
}

// SendAbsenceNotices emails every absentee of the day who has not been warned
// yet. A notification is recorded for each email that went out; failures are
// reported and can be retried by calling again.
func (s *service) SendAbsenceNotices(ctx context.Context, req notification.SendAbsenceNoticesRequest) (notification.SendAbsenceNoticesResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.SendAbsenceNoticesResponse{}, err
	}

	absent, err := s.absenceService.FindAbsentEmployees(ctx, attendance.AbsenceRequest{Date: req.Date, Day: req.Day})
	if err != nil {
		return notification.SendAbsenceNoticesResponse{}, err
	}

	if len(req.EmployeeIDs) > 0 {
		wanted := make(map[string]bool, len(req.EmployeeIDs))
		for _, id := range req.EmployeeIDs {
			wanted[id] = true
		}
		selected := absent[:0]
		for _, a := range absent {
			if wanted[a.ID] {
				selected = append(selected, a)
			}
		}
		absent = selected
	}

	noticed, err := s.repo.ListNoticedEmployees(ctx, req.Day)
	if err != nil {
		return notification.SendAbsenceNoticesResponse{}, fmt.Errorf("failed to list absence notices: %w", err)
	}

	res := notification.SendAbsenceNoticesResponse{Date: req.Date, Absent: len(absent)}
	for _, a := range absent {
		if noticed[a.ID] {
			res.AlreadyNotified++
			continue
		}

		data := email.AbsenceNoticeData{LastName: a.LastName, FirstName: a.FirstName, Date: req.Day}
		if err := s.emailService.SendAbsenceNotice(a.Email, data); err != nil {
			slog.Warn("Failed to send absence notice", "employee_id", a.ID, "date", req.Date, "error", err)
			res.EmailsFailed++
			res.FailedEmployeeIDs = append(res.FailedEmployeeIDs, a.ID)
			continue
		}
		res.EmailsSent++

		day := req.Day
		if _, err := s.Record(ctx, notification.CreateNotificationRequest{
			EmployeeID:  a.ID,
			Type:        notification.TypeAbsence,
			Title:       data.Subject(),
			Message:     data.Text(),
			Notified:    true,
			AbsenceDate: &day,
		}); err != nil {
			return res, err
		}
	}

	slog.Info("Absence notices processed", "date", req.Date, "absent", res.Absent,
		"sent", res.EmailsSent, "failed", res.EmailsFailed, "already_notified", res.AlreadyNotified)
	return res, nil
}

// Subscribe streams new notifications: HR staff receive every notification,
// other users those addressed to their employee record. The returned function
// ends the subscription.
func (s *service) Subscribe(ctx context.Context, actor user.Actor) (<-chan notification.SSEEvent, func()) {
	out := make(chan notification.SSEEvent, 10)

	topic := sse.TopicHR
	if !actor.IsHR() {
		if actor.EmployeeID == nil {
			close(out)
			return out, func() {}
		}
		topic = *actor.EmployeeID
	}

	events, unsubscribe := s.hub.Subscribe(topic)
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				data, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: data}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel
}

func toResponses(notifications []*notification.Notification) []notification.NotificationResponse {
	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}
	return responses
}

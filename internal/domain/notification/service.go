package notification

import (
	"context"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
)

// Service defines the notification service interface
type Service interface {
	ListAll(ctx context.Context) ([]NotificationResponse, error)
	ListMine(ctx context.Context, actor user.Actor) ([]NotificationResponse, error)
	UpdateStatus(ctx context.Context, actor user.Actor, req UpdateStatusRequest) (NotificationResponse, error)

	// Record stores a notification and pushes it to live subscribers.
	Record(ctx context.Context, req CreateNotificationRequest) (*Notification, error)

	// Absence notices
	HasAbsenceNotice(ctx context.Context, req AbsenceNoticeQuery) (AbsenceNoticeStatus, error)
	SendAbsenceNotices(ctx context.Context, req SendAbsenceNoticesRequest) (SendAbsenceNoticesResponse, error)

	// SSE subscription
	Subscribe(ctx context.Context, actor user.Actor) (<-chan SSEEvent, func())
}

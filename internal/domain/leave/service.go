package leave

import (
	"context"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
)

type LeaveService interface {
	Create(ctx context.Context, actor user.Actor, req CreateLeaveRequest) (LeaveMutationResponse, error)
	// Update edits a pending request (HR only).
	Update(ctx context.Context, actor user.Actor, req UpdateLeaveRequest) (LeaveMutationResponse, error)
	// UpdateStatus approves or rejects a pending request (HR only).
	UpdateStatus(ctx context.Context, actor user.Actor, req UpdateStatusRequest) (LeaveMutationResponse, error)
	// List returns every request for HR and the caller's own for regular users,
	// persisting any wall-clock status progression.
	List(ctx context.Context, actor user.Actor) ([]LeaveResponse, error)
	ListInRange(ctx context.Context, actor user.Actor, req RangeRequest) ([]LeaveResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (LeaveResponse, error)
	Remaining(ctx context.Context, employeeID string, year int) (RemainingResponse, error)
	ProgressStatuses(ctx context.Context) (int64, error)
}

package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/email"
	"github.com/google/uuid"
)

type scheduleServiceImpl struct {
	tx                  domain.Transactor
	overrideRepo        schedule.OverrideRepository
	employeeRepo        employee.EmployeeRepository
	leaveRepo           leave.RequestRepository
	notificationService notification.Service
	emailService        email.EmailService
	now                 func() time.Time
}

func NewScheduleService(
	tx domain.Transactor,
	overrideRepo schedule.OverrideRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.RequestRepository,
	notificationService notification.Service,
	emailService email.EmailService,
	now func() time.Time,
) schedule.ScheduleService {
	return &scheduleServiceImpl{
		tx:                  tx,
		overrideRepo:        overrideRepo,
		employeeRepo:        employeeRepo,
		leaveRepo:           leaveRepo,
		notificationService: notificationService,
		emailService:        emailService,
		now:                 now,
	}
}

// List implements schedule.ScheduleService.
func (s *scheduleServiceImpl) List(ctx context.Context) ([]schedule.OverrideResponse, error) {
	overrides, err := s.overrideRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule overrides: %w", err)
	}
	return toResponses(overrides), nil
}

// ListInRange implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListInRange(ctx context.Context, req schedule.RangeRequest) ([]schedule.OverrideResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	overrides, err := s.overrideRepo.ListInRange(ctx, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule overrides: %w", err)
	}
	return toResponses(overrides), nil
}

// Get implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Get(ctx context.Context, id string) (schedule.OverrideResponse, error) {
	o, err := s.overrideRepo.GetByID(ctx, id)
	if err != nil {
		return schedule.OverrideResponse{}, err
	}
	return schedule.ToResponse(o), nil
}

// Create implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Create(ctx context.Context, req schedule.CreateOverrideRequest) (schedule.OverrideMutationResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.OverrideMutationResponse{}, err
	}

	var created schedule.Override
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.checkAvailability(txCtx, req.Scope, req.Start, req.End); err != nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate override id: %w", err)
		}
		now := s.now()
		created, err = s.overrideRepo.Create(txCtx, schedule.Override{
			ID:        id.String(),
			Scope:     req.Scope,
			StartDate: req.Start,
			EndDate:   req.End,
			StartTime: req.StartHour,
			EndTime:   req.EndHour,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to create schedule override: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.OverrideMutationResponse{}, err
	}

	sent, failed := s.notify(ctx, created, req.Notify, false)
	return schedule.OverrideMutationResponse{Override: schedule.ToResponse(created), EmailsSent: sent, EmailsFailed: failed}, nil
}

// Update implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Update(ctx context.Context, req schedule.UpdateOverrideRequest) (schedule.OverrideMutationResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.OverrideMutationResponse{}, err
	}

	var updated schedule.Override
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.overrideRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := s.checkAvailability(txCtx, req.Scope, req.Start, req.End); err != nil {
			return err
		}

		current.Scope = req.Scope
		current.StartDate = req.Start
		current.EndDate = req.End
		current.StartTime = req.StartHour
		current.EndTime = req.EndHour
		current.UpdatedAt = s.now()

		updated, err = s.overrideRepo.Update(txCtx, current)
		if err != nil {
			return fmt.Errorf("failed to update schedule override: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.OverrideMutationResponse{}, err
	}

	sent, failed := s.notify(ctx, updated, req.CreateOverrideRequest.Notify, true)
	return schedule.OverrideMutationResponse{Override: schedule.ToResponse(updated), EmailsSent: sent, EmailsFailed: failed}, nil
}

// Delete implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Delete(ctx context.Context, id string) error {
	return s.overrideRepo.Delete(ctx, id)
}

// checkAvailability rejects overrides whose targets are away on leave during
// [start, end]. Employees are locked so a concurrent leave write waits.
func (s *scheduleServiceImpl) checkAvailability(ctx context.Context, scope schedule.Scope, start, end time.Time) error {
	switch scope.Kind {
	case schedule.ScopeEmployee:
		emp, err := s.employeeRepo.LockForUpdate(ctx, scope.EmployeeID)
		if err != nil {
			return err
		}
		onLeave, err := s.hasLeave(ctx, emp.ID, start, end)
		if err != nil {
			return err
		}
		if onLeave {
			return schedule.ErrEmployeeOnLeave
		}

	case schedule.ScopePost:
		holders, err := s.employeeRepo.ListByPost(ctx, scope.Post)
		if err != nil {
			return fmt.Errorf("failed to list employees by post: %w", err)
		}
		if len(holders) == 0 {
			return schedule.ErrPostHasNoEmployees
		}
		if len(holders) == 1 {
			if _, err := s.employeeRepo.LockForUpdate(ctx, holders[0].ID); err != nil {
				return err
			}
			onLeave, err := s.hasLeave(ctx, holders[0].ID, start, end)
			if err != nil {
				return err
			}
			if onLeave {
				return schedule.ErrOnlyPostEmployeeOnLeave
			}
		}
	}
	return nil
}

func (s *scheduleServiceImpl) hasLeave(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	requests, err := s.leaveRepo.ListNonRejectedInRange(ctx, employeeID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to load leave: %w", err)
	}
	return len(requests) > 0, nil
}

// recipients resolves the notify target. Post holders with leave in the
// override's range are not told about it.
func (s *scheduleServiceImpl) recipients(ctx context.Context, o schedule.Override, req schedule.NotifyRequest) ([]employee.Employee, error) {
	switch schedule.NotifyTarget(req.Target) {
	case schedule.NotifyAll:
		return s.employeeRepo.List(ctx, employee.EmployeeFilter{})

	case schedule.NotifyPost:
		if o.Scope.Kind != schedule.ScopePost {
			return nil, nil
		}
		holders, err := s.employeeRepo.ListByPost(ctx, o.Scope.Post)
		if err != nil {
			return nil, err
		}
		available := make([]employee.Employee, 0, len(holders))
		for _, emp := range holders {
			onLeave, err := s.hasLeave(ctx, emp.ID, o.StartDate, o.EndDate)
			if err != nil {
				return nil, err
			}
			if !onLeave {
				available = append(available, emp)
			}
		}
		return available, nil

	case schedule.NotifySelected:
		return s.employeeRepo.ListByIDs(ctx, req.EmployeeIDs)
	}
	return nil, nil
}

// notify emails every recipient and records a schedule_change notification for
// each email that went out. It never fails the operation.
func (s *scheduleServiceImpl) notify(ctx context.Context, o schedule.Override, req schedule.NotifyRequest, update bool) (sent, failed int) {
	employees, err := s.recipients(ctx, o, req)
	if err != nil {
		slog.Error("Failed to resolve schedule notification recipients", "override_id", o.ID, "target", req.Target, "error", err)
		return 0, 0
	}

	for _, emp := range employees {
		data := email.ScheduleChangeData{
			LastName:  emp.LastName,
			FirstName: emp.FirstName,
			Start:     o.StartDate,
			End:       o.EndDate,
			From:      o.StartTime.String(),
			To:        o.EndTime.String(),
			Update:    update,
		}
		if err := s.emailService.SendScheduleChange(emp.Email, data); err != nil {
			failed++
			slog.Warn("Failed to send schedule change email", "employee_id", emp.ID, "override_id", o.ID, "error", err)
			continue
		}
		sent++

		if _, err := s.notificationService.Record(ctx, notification.CreateNotificationRequest{
			EmployeeID: emp.ID,
			Type:       notification.TypeScheduleChange,
			Title:      data.Subject(),
			Message:    data.Text(),
			Notified:   true,
		}); err != nil {
			slog.Error("Failed to record schedule notification", "employee_id", emp.ID, "error", err)
		}
	}

	if len(employees) > 0 {
		slog.Info("Schedule change notified", "override_id", o.ID, "sent", sent, "failed", failed)
	}
	return sent, failed
}

func toResponses(overrides []schedule.Override) []schedule.OverrideResponse {
	responses := make([]schedule.OverrideResponse, len(overrides))
	for i, o := range overrides {
		responses[i] = schedule.ToResponse(o)
	}
	return responses
}

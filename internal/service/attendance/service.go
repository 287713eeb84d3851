package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx domain.Transactor
	attendance.PunchRepository
	employee.EmployeeRepository
	schedule.OverrideRepository
	leave.RequestRepository
	loc *time.Location
	now func() time.Time
}

// RecordPunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordPunch(ctx context.Context, actor user.Actor, req attendance.RecordPunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	var recorded attendance.Punch
	err := a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		// The row lock serialises concurrent punches of the same employee.
		emp, err := a.EmployeeRepository.LockForUpdate(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !actor.CanActOn(emp.ID) {
			return attendance.ErrSelfServiceOnly
		}

		now := a.now().In(a.loc)
		today := dateutil.Day(now)

		resolver, err := a.resolverFor(txCtx, emp, today)
		if err != nil {
			return err
		}
		expected, err := resolver.IsExpectedWorkingDay(emp, today)
		if err != nil || !expected {
			return attendance.ErrNoPunchExpected
		}

		leaves, err := a.RequestRepository.ListActiveInRange(txCtx, emp.ID, today, dateutil.AddDays(today, 1))
		if err != nil {
			return fmt.Errorf("failed to load leave: %w", err)
		}
		if _, onLeave := leave.ActiveCovering(leaves, today); onLeave {
			return attendance.ErrOnLeave
		}

		dayStart := dateutil.StartOfDay(today, a.loc)
		var lastKind *attendance.PunchKind
		last, err := a.PunchRepository.LastForEmployee(txCtx, emp.ID, dayStart, dayStart.AddDate(0, 0, 1))
		switch {
		case err == nil:
			lastKind = &last.Kind
		case !errors.Is(err, attendance.ErrPunchNotFound):
			return fmt.Errorf("failed to load last punch: %w", err)
		}
		if err := attendance.CheckTransition(lastKind, req.Kind); err != nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate punch id: %w", err)
		}
		punch := attendance.Punch{
			ID:         id.String(),
			EmployeeID: emp.ID,
			PunchedAt:  now,
			Kind:       req.Kind,
			CreatedAt:  now,
		}
		if req.Kind == attendance.KindClockIn {
			shiftStart := resolver.ShiftStart(emp, today).On(dayStart)
			if late := now.Sub(shiftStart).Truncate(time.Second); late > 0 {
				punch.Lateness = &late
			}
		}

		recorded, err = a.PunchRepository.Create(txCtx, punch)
		if err != nil {
			return fmt.Errorf("failed to record punch: %w", err)
		}
		recorded.EmployeeLastName = emp.LastName
		recorded.EmployeeFirstName = emp.FirstName
		return nil
	})
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	return attendance.ToResponse(recorded), nil
}

// resolverFor loads the override that applies to the employee on day.
func (a *AttendanceServiceImpl) resolverFor(ctx context.Context, emp employee.Employee, day time.Time) (*calendar.Resolver, error) {
	var overrides []schedule.Override
	o, err := a.OverrideRepository.FindApplicable(ctx, emp.ID, emp.Post, day)
	switch {
	case err == nil:
		overrides = append(overrides, o)
	case !errors.Is(err, schedule.ErrOverrideNotFound):
		return nil, fmt.Errorf("failed to load schedule override: %w", err)
	}
	return calendar.NewResolver(overrides), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, actor user.Actor) ([]attendance.PunchResponse, error) {
	var employeeID *string
	if !actor.IsHR() {
		if actor.EmployeeID == nil {
			return nil, attendance.ErrSelfServiceOnly
		}
		employeeID = actor.EmployeeID
	}

	punches, err := a.PunchRepository.List(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}

	responses := make([]attendance.PunchResponse, len(punches))
	for i, p := range punches {
		responses[i] = attendance.ToResponse(p)
	}
	return responses, nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (attendance.PunchResponse, error) {
	punch, err := a.PunchRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	if !actor.CanActOn(punch.EmployeeID) {
		return attendance.PunchResponse{}, attendance.ErrSelfServiceOnly
	}
	return attendance.ToResponse(punch), nil
}

// LastToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) LastToday(ctx context.Context, actor user.Actor, employeeID string) (*attendance.PunchResponse, error) {
	if !actor.CanActOn(employeeID) {
		return nil, attendance.ErrSelfServiceOnly
	}
	if _, err := a.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	dayStart := dateutil.StartOfDay(dateutil.Day(a.now().In(a.loc)), a.loc)
	last, err := a.PunchRepository.LastForEmployee(ctx, employeeID, dayStart, dayStart.AddDate(0, 0, 1))
	if errors.Is(err, attendance.ErrPunchNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last punch: %w", err)
	}

	resp := attendance.ToResponse(last)
	return &resp, nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	return a.PunchRepository.Delete(ctx, id)
}

func NewAttendanceService(
	tx domain.Transactor,
	punchRepo attendance.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	overrideRepo schedule.OverrideRepository,
	leaveRepo leave.RequestRepository,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                 tx,
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		OverrideRepository: overrideRepo,
		RequestRepository:  leaveRepo,
		loc:                loc,
		now:                now,
	}
}

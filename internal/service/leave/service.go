package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/email"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	tx domain.Transactor
	leave.RequestRepository
	employee.EmployeeRepository
	schedule.OverrideRepository
	notificationService notification.Service
	emailService        email.EmailService
	annualQuota         int
	loc                 *time.Location
	now                 func() time.Time
}

// Create implements leave.LeaveService.
func (l *LeaveServiceImpl) Create(ctx context.Context, actor user.Actor, req leave.CreateLeaveRequest) (leave.LeaveMutationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveMutationResponse{}, err
	}
	if !actor.CanActOn(req.EmployeeID) {
		return leave.LeaveMutationResponse{}, leave.ErrSelfServiceOnly
	}

	var (
		created leave.Request
		emp     employee.Employee
	)
	err := l.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var (
			proposal leave.Request
			err      error
		)
		emp, proposal, err = l.validate(txCtx, proposalFrom(req), "", false)
		if err != nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate leave request id: %w", err)
		}
		now := l.now().In(l.loc)
		proposal.ID = id.String()
		proposal.Status = leave.StatusPending
		proposal.RequestedAt = now
		proposal.UpdatedAt = now

		created, err = l.RequestRepository.Create(txCtx, proposal)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveMutationResponse{}, err
	}

	created.EmployeeLastName = emp.LastName
	created.EmployeeFirstName = emp.FirstName
	sent := l.notifyRequest(ctx, emp, created, false)
	return leave.LeaveMutationResponse{Leave: leave.ToResponse(created), EmailSent: sent}, nil
}

// Update implements leave.LeaveService.
func (l *LeaveServiceImpl) Update(ctx context.Context, actor user.Actor, req leave.UpdateLeaveRequest) (leave.LeaveMutationResponse, error) {
	if !actor.IsHR() {
		return leave.LeaveMutationResponse{}, leave.ErrHROnly
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveMutationResponse{}, err
	}

	var (
		updated leave.Request
		emp     employee.Employee
	)
	err := l.tx.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := l.RequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if current.Status != leave.StatusPending {
			return leave.ErrNotPending
		}

		// An unchanged start date may already be in the past.
		skipFuture := current.EmployeeID == req.EmployeeID && dateutil.SameDay(current.StartDate, req.Start)

		var proposal leave.Request
		emp, proposal, err = l.validate(txCtx, proposalFrom(req.CreateLeaveRequest), current.ID, skipFuture)
		if err != nil {
			return err
		}

		proposal.ID = current.ID
		proposal.Status = current.Status
		proposal.RequestedAt = current.RequestedAt
		proposal.UpdatedAt = l.now().In(l.loc)

		updated, err = l.RequestRepository.Update(txCtx, proposal)
		if err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveMutationResponse{}, err
	}

	updated.EmployeeLastName = emp.LastName
	updated.EmployeeFirstName = emp.FirstName
	sent := l.notifyRequest(ctx, emp, updated, true)
	return leave.LeaveMutationResponse{Leave: leave.ToResponse(updated), EmailSent: sent}, nil
}

// validate locks the employee and runs the leave rules against the employee's
// other requests. excludeID leaves the request being edited out of the checks.
func (l *LeaveServiceImpl) validate(ctx context.Context, p Proposal, excludeID string, skipFuture bool) (employee.Employee, leave.Request, error) {
	emp, err := l.EmployeeRepository.LockForUpdate(ctx, p.EmployeeID)
	switch {
	case err == nil:
		p.Employee = &emp
	case !errors.Is(err, employee.ErrEmployeeNotFound):
		return employee.Employee{}, leave.Request{}, fmt.Errorf("failed to load employee: %w", err)
	}

	if p.Employee != nil {
		existing, err := l.RequestRepository.ListByEmployee(ctx, emp.ID)
		if err != nil {
			return employee.Employee{}, leave.Request{}, fmt.Errorf("failed to load leave requests: %w", err)
		}
		for _, r := range existing {
			if r.ID != excludeID {
				p.Existing = append(p.Existing, r)
			}
		}
	}

	resolver := calendar.NewResolver(nil)
	if !p.Start.IsZero() && p.Start.Before(p.Return) {
		overrides, err := l.OverrideRepository.ListInRange(ctx, p.Start, dateutil.AddDays(p.Return, -1))
		if err != nil {
			return employee.Employee{}, leave.Request{}, fmt.Errorf("failed to load schedule overrides: %w", err)
		}
		resolver = calendar.NewResolver(overrides)
	}
	p.Resolver = resolver
	p.SkipFutureCheck = skipFuture
	p.AnnualQuota = l.annualQuota

	days, err := ValidateLeaveRequest(p, l.now().In(l.loc))
	if err != nil {
		return employee.Employee{}, leave.Request{}, err
	}

	return emp, leave.Request{
		EmployeeID: emp.ID,
		Motive:     p.Motive,
		StartDate:  dateutil.Day(p.Start),
		ReturnDate: dateutil.Day(p.Return),
		Days:       days,
	}, nil
}

// UpdateStatus implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateStatus(ctx context.Context, actor user.Actor, req leave.UpdateStatusRequest) (leave.LeaveMutationResponse, error) {
	if !actor.IsHR() {
		return leave.LeaveMutationResponse{}, leave.ErrHROnly
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveMutationResponse{}, err
	}
	status := leave.Status(req.Status)

	var (
		decided leave.Request
		emp     employee.Employee
	)
	err := l.tx.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := l.RequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if current.Status != leave.StatusPending {
			return leave.ErrNotPending
		}

		emp, err = l.EmployeeRepository.LockForUpdate(txCtx, current.EmployeeID)
		if err != nil {
			return err
		}

		if status == leave.StatusApproved {
			others, err := l.RequestRepository.ListByEmployee(txCtx, current.EmployeeID)
			if err != nil {
				return fmt.Errorf("failed to load leave requests: %w", err)
			}
			if err := l.checkApproval(current, others); err != nil {
				return err
			}
		}

		if err := l.RequestRepository.UpdateStatus(txCtx, current.ID, status); err != nil {
			return fmt.Errorf("failed to update leave status: %w", err)
		}
		decided = current
		decided.Status = status
		decided.UpdatedAt = l.now().In(l.loc)
		return nil
	})
	if err != nil {
		return leave.LeaveMutationResponse{}, err
	}

	decided.EmployeeLastName = emp.LastName
	decided.EmployeeFirstName = emp.FirstName

	data := email.LeaveStatusData{
		LastName:  emp.LastName,
		FirstName: emp.FirstName,
		Start:     decided.StartDate,
		Return:    decided.ReturnDate,
		Approved:  status == leave.StatusApproved,
	}
	sent := l.deliver(ctx, emp, notification.TypeLeaveStatus, data.Subject(), data.Text(), func() error {
		return l.emailService.SendLeaveStatus(emp.Email, data)
	})
	return leave.LeaveMutationResponse{Leave: leave.ToResponse(decided), EmailSent: sent}, nil
}

// checkApproval re-runs the overlap and quota rules against the leave approved
// since the request was filed. A violation means a concurrent decision won.
func (l *LeaveServiceImpl) checkApproval(req leave.Request, others []leave.Request) error {
	active := make([]leave.Request, 0, len(others))
	for _, r := range others {
		if r.ID != req.ID && r.Status.IsActive() {
			active = append(active, r)
		}
	}

	for _, r := range active {
		if r.Overlaps(req.StartDate, req.ReturnDate) {
			return fmt.Errorf("%w: %w", domain.ErrConflict, leave.ErrOverlap)
		}
	}

	quota := l.annualQuota
	if quota <= 0 {
		quota = DefaultAnnualQuota
	}
	if taken := DaysTaken(active, req.StartDate.Year()); taken+req.Days > quota {
		return fmt.Errorf("%w: %w", domain.ErrConflict, &leave.QuotaExceededError{Quota: quota, Taken: taken, Requested: req.Days})
	}
	return nil
}

func (l *LeaveServiceImpl) notifyRequest(ctx context.Context, emp employee.Employee, r leave.Request, update bool) bool {
	data := email.LeaveRequestData{
		LastName:  emp.LastName,
		FirstName: emp.FirstName,
		Days:      r.Days,
		Start:     r.StartDate,
		Return:    r.ReturnDate,
		Motive:    r.Motive,
		RequestID: r.ID,
		Update:    update,
	}
	return l.deliver(ctx, emp, notification.TypeLeaveRequest, data.Subject(), data.Text(), func() error {
		return l.emailService.SendLeaveRequest(emp.Email, data)
	})
}

// deliver sends the email and records the in-app notification when it went out.
// Failures are logged and reported, never returned.
func (l *LeaveServiceImpl) deliver(ctx context.Context, emp employee.Employee, kind notification.NotificationType, title, message string, send func() error) bool {
	if err := send(); err != nil {
		slog.Warn("Failed to send leave email", "employee_id", emp.ID, "type", kind, "error", err)
		return false
	}

	_, err := l.notificationService.Record(ctx, notification.CreateNotificationRequest{
		EmployeeID: emp.ID,
		Type:       kind,
		Title:      title,
		Message:    message,
		Notified:   true,
	})
	if err != nil {
		slog.Error("Failed to record leave notification", "employee_id", emp.ID, "type", kind, "error", err)
	}
	return true
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, actor user.Actor) ([]leave.LeaveResponse, error) {
	filter, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}
	if _, err := l.ProgressStatuses(ctx); err != nil {
		return nil, err
	}

	requests, err := l.RequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

// ListInRange implements leave.LeaveService.
func (l *LeaveServiceImpl) ListInRange(ctx context.Context, actor user.Actor, req leave.RangeRequest) ([]leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	filter, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}
	filter.Start = &req.Start
	filter.End = &req.End

	requests, err := l.RequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	now := l.now().In(l.loc)
	for i := range requests {
		requests[i].Status = requests[i].ProgressedStatus(now)
	}
	return toResponses(requests), nil
}

// Get implements leave.LeaveService.
func (l *LeaveServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (leave.LeaveResponse, error) {
	request, err := l.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !actor.CanActOn(request.EmployeeID) {
		return leave.LeaveResponse{}, leave.ErrSelfServiceOnly
	}
	request.Status = request.ProgressedStatus(l.now().In(l.loc))
	return leave.ToResponse(request), nil
}

// Remaining implements leave.LeaveService.
func (l *LeaveServiceImpl) Remaining(ctx context.Context, employeeID string, year int) (leave.RemainingResponse, error) {
	if _, err := l.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.RemainingResponse{}, err
	}
	if year == 0 {
		year = l.now().In(l.loc).Year()
	}

	taken, err := l.RequestRepository.SumActiveDays(ctx, employeeID, year)
	if err != nil {
		return leave.RemainingResponse{}, fmt.Errorf("failed to sum leave days: %w", err)
	}

	quota := l.annualQuota
	if quota <= 0 {
		quota = DefaultAnnualQuota
	}
	return leave.RemainingResponse{
		EmployeeID: employeeID,
		Year:       year,
		Quota:      quota,
		Taken:      taken,
		Remaining:  quota - taken,
	}, nil
}

// ProgressStatuses implements leave.LeaveService.
func (l *LeaveServiceImpl) ProgressStatuses(ctx context.Context) (int64, error) {
	changed, err := l.RequestRepository.ProgressStatuses(ctx, l.now().In(l.loc))
	if err != nil {
		return 0, fmt.Errorf("failed to progress leave statuses: %w", err)
	}
	if changed > 0 {
		slog.Info("Leave statuses progressed", "changed", changed)
	}
	return changed, nil
}

func proposalFrom(req leave.CreateLeaveRequest) Proposal {
	return Proposal{
		EmployeeID: req.EmployeeID,
		Motive:     req.Motive,
		Start:      req.Start,
		Return:     req.Return,
	}
}

func scopeFor(actor user.Actor) (leave.Filter, error) {
	if actor.IsHR() {
		return leave.Filter{}, nil
	}
	if actor.EmployeeID == nil {
		return leave.Filter{}, leave.ErrSelfServiceOnly
	}
	return leave.Filter{EmployeeID: actor.EmployeeID}, nil
}

func toResponses(requests []leave.Request) []leave.LeaveResponse {
	responses := make([]leave.LeaveResponse, len(requests))
	for i, r := range requests {
		responses[i] = leave.ToResponse(r)
	}
	return responses
}

func NewLeaveService(
	tx domain.Transactor,
	requestRepo leave.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	overrideRepo schedule.OverrideRepository,
	notificationService notification.Service,
	emailService email.EmailService,
	annualQuota int,
	loc *time.Location,
	now func() time.Time,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                  tx,
		RequestRepository:   requestRepo,
		EmployeeRepository:  employeeRepo,
		OverrideRepository:  overrideRepo,
		notificationService: notificationService,
		emailService:        emailService,
		annualQuota:         annualQuota,
		loc:                 loc,
		now:                 now,
	}
}

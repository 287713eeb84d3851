package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/email"
	"github.com/cmlabs-hris/pointage-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	email.EmailService
	fail     bool
	requests []email.LeaveRequestData
	statuses []email.LeaveStatusData
}

func (m *fakeMailer) SendLeaveRequest(_ string, data email.LeaveRequestData) error {
	if m.fail {
		return email.ErrNotConfigured
	}
	m.requests = append(m.requests, data)
	return nil
}

func (m *fakeMailer) SendLeaveStatus(_ string, data email.LeaveStatusData) error {
	if m.fail {
		return email.ErrNotConfigured
	}
	m.statuses = append(m.statuses, data)
	return nil
}

type fakeNotifications struct {
	notification.Service
	recorded []notification.CreateNotificationRequest
}

func (f *fakeNotifications) Record(_ context.Context, req notification.CreateNotificationRequest) (*notification.Notification, error) {
	f.recorded = append(f.recorded, req)
	return &notification.Notification{EmployeeID: req.EmployeeID, Type: req.Type}, nil
}

type leaveFixture struct {
	svc           leave.LeaveService
	repo          *memory.LeaveRepository
	mailer        *fakeMailer
	notifications *fakeNotifications
	now           time.Time
}

func newLeaveFixture(existing ...leave.Request) *leaveFixture {
	f := &leaveFixture{
		repo:          memory.NewLeaveRepository(existing...),
		mailer:        &fakeMailer{},
		notifications: &fakeNotifications{},
		now:           asOf,
	}
	emp := *testEmployee()
	emp.Email = "jean@example.com"
	other := *testEmployee()
	other.ID = "emp-2"
	f.svc = NewLeaveService(&memory.Transactor{}, f.repo, memory.NewEmployeeRepository(emp, other),
		memory.NewOverrideRepository(), f.notifications, f.mailer, 30, time.UTC, func() time.Time { return f.now })
	return f
}

func hrActor() user.Actor {
	return user.Actor{UserID: "hr", Role: user.RoleAdmin}
}

func employeeActor(id string) user.Actor {
	return user.Actor{UserID: "u-" + id, Role: user.RoleUser, EmployeeID: &id}
}

func createReq(start, end string) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{EmployeeID: "emp-1", Motive: "Vacances", StartDate: start, ReturnDate: end}
}

func approvedDays(id string, start, end time.Time, days int) leave.Request {
	return leave.Request{ID: id, EmployeeID: "emp-1", Motive: "Congé", StartDate: start, ReturnDate: end, Days: days, Status: leave.StatusApproved}
}

func TestCreate_QuotaBoundary(t *testing.T) {
	f := newLeaveFixture(approvedDays("old", dateutil.NewDate(2025, time.January, 6), dateutil.NewDate(2025, time.February, 10), 25))
	ctx := context.Background()

	_, err := f.svc.Create(ctx, employeeActor("emp-1"), createReq("2025-03-03", "2025-03-11"))
	var quotaErr *leave.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 5, quotaErr.Remaining())

	resp, err := f.svc.Create(ctx, employeeActor("emp-1"), createReq("2025-03-03", "2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Leave.Days)
	assert.Equal(t, leave.StatusPending, resp.Leave.Status)
	assert.Equal(t, "Rakoto", resp.Leave.EmployeeLastName)
	assert.True(t, resp.EmailSent)

	require.Len(t, f.notifications.recorded, 1)
	assert.Equal(t, notification.TypeLeaveRequest, f.notifications.recorded[0].Type)
	assert.True(t, f.notifications.recorded[0].Notified)
}

func TestCreate_OnlyForSelf(t *testing.T) {
	f := newLeaveFixture()

	_, err := f.svc.Create(context.Background(), employeeActor("emp-2"), createReq("2025-03-03", "2025-03-05"))
	assert.ErrorIs(t, err, leave.ErrSelfServiceOnly)

	_, err = f.svc.Create(context.Background(), hrActor(), createReq("2025-03-03", "2025-03-05"))
	assert.NoError(t, err)
}

func TestCreate_EmailFailureKeepsRequest(t *testing.T) {
	f := newLeaveFixture()
	f.mailer.fail = true

	resp, err := f.svc.Create(context.Background(), employeeActor("emp-1"), createReq("2025-03-03", "2025-03-05"))
	require.NoError(t, err)
	assert.False(t, resp.EmailSent)
	assert.Empty(t, f.notifications.recorded)

	stored, err := f.repo.GetByID(context.Background(), resp.Leave.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Days)
}

func TestUpdate_PendingOnlyAndHROnly(t *testing.T) {
	f := newLeaveFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, employeeActor("emp-1"), createReq("2025-03-03", "2025-03-05"))
	require.NoError(t, err)

	update := leave.UpdateLeaveRequest{ID: created.Leave.ID, CreateLeaveRequest: createReq("2025-03-03", "2025-03-07")}
	_, err = f.svc.Update(ctx, employeeActor("emp-1"), update)
	assert.ErrorIs(t, err, leave.ErrHROnly)

	// The start date has passed but is unchanged.
	f.now = time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	resp, err := f.svc.Update(ctx, hrActor(), update)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Leave.Days)
	assert.True(t, f.mailer.requests[len(f.mailer.requests)-1].Update)

	_, err = f.svc.UpdateStatus(ctx, hrActor(), leave.UpdateStatusRequest{ID: created.Leave.ID, Status: "rejected"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, hrActor(), update)
	assert.ErrorIs(t, err, leave.ErrNotPending)
}

func TestUpdateStatus_ApproveSendsDecision(t *testing.T) {
	f := newLeaveFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, employeeActor("emp-1"), createReq("2025-03-03", "2025-03-05"))
	require.NoError(t, err)

	resp, err := f.svc.UpdateStatus(ctx, hrActor(), leave.UpdateStatusRequest{ID: created.Leave.ID, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Leave.Status)
	assert.True(t, resp.EmailSent)
	require.Len(t, f.mailer.statuses, 1)
	assert.True(t, f.mailer.statuses[0].Approved)

	_, err = f.svc.UpdateStatus(ctx, hrActor(), leave.UpdateStatusRequest{ID: created.Leave.ID, Status: "rejected"})
	assert.ErrorIs(t, err, leave.ErrNotPending)
}

func TestUpdateStatus_ConcurrentApprovalConflicts(t *testing.T) {
	f := newLeaveFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, employeeActor("emp-1"), createReq("2025-03-03", "2025-03-10"))
	require.NoError(t, err)

	// Approved behind our back after the pending request was validated.
	_, err = f.repo.Create(ctx, approvedDays("rival", dateutil.NewDate(2025, time.March, 5), dateutil.NewDate(2025, time.March, 15), 7))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, hrActor(), leave.UpdateStatusRequest{ID: created.Leave.ID, Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, leave.ErrOverlap)

	stored, err := f.repo.GetByID(ctx, created.Leave.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status)
}

func TestList_PersistsProgressionAndScopes(t *testing.T) {
	f := newLeaveFixture(
		approvedDays("running", dateutil.NewDate(2025, time.February, 17), dateutil.NewDate(2025, time.February, 24), 5),
		leave.Request{ID: "other", EmployeeID: "emp-2", Motive: "Maladie", StartDate: dateutil.NewDate(2025, time.March, 3), ReturnDate: dateutil.NewDate(2025, time.March, 4), Days: 1, Status: leave.StatusPending},
	)
	ctx := context.Background()

	mine, err := f.svc.List(ctx, employeeActor("emp-1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, leave.StatusInProgress, mine[0].Status)

	stored, err := f.repo.GetByID(ctx, "running")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusInProgress, stored.Status)

	all, err := f.svc.List(ctx, hrActor())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.Get(ctx, employeeActor("emp-1"), "other")
	assert.ErrorIs(t, err, leave.ErrSelfServiceOnly)

	inRange, err := f.svc.ListInRange(ctx, hrActor(), leave.RangeRequest{StartDate: "2025-03-01", EndDate: "2025-03-31"})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "other", inRange[0].ID)
}

func TestRemaining(t *testing.T) {
	f := newLeaveFixture(approvedDays("old", dateutil.NewDate(2025, time.January, 6), dateutil.NewDate(2025, time.January, 13), 5))

	resp, err := f.svc.Remaining(context.Background(), "emp-1", 2025)
	require.NoError(t, err)
	assert.Equal(t, leave.RemainingResponse{EmployeeID: "emp-1", Year: 2025, Quota: 30, Taken: 5, Remaining: 25}, resp)

	resp, err = f.svc.Remaining(context.Background(), "emp-1", 2024)
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Remaining)
}

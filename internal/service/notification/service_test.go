package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/email"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/pointage-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	email.EmailService
	sent   []string
	failTo map[string]bool
}

func (m *fakeMailer) SendAbsenceNotice(to string, _ email.AbsenceNoticeData) error {
	if m.failTo[to] {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeAbsences struct {
	attendance.AbsenceService
	absent []attendance.AbsentEmployee
}

func (f *fakeAbsences) FindAbsentEmployees(context.Context, attendance.AbsenceRequest) ([]attendance.AbsentEmployee, error) {
	out := make([]attendance.AbsentEmployee, len(f.absent))
	copy(out, f.absent)
	return out, nil
}

func absentee(id, mail string) attendance.AbsentEmployee {
	return attendance.AbsentEmployee{Summary: employee.Summary{ID: id, LastName: "Rakoto", FirstName: id, Email: mail}}
}

var fixedNow = time.Date(2025, time.July, 2, 9, 0, 0, 0, time.UTC)

func newTestService(repo *memory.NotificationRepository, mailer *fakeMailer, absences *fakeAbsences) (notification.Service, *sse.Hub) {
	hub := sse.NewHub()
	return NewNotificationService(repo, hub, mailer, absences, func() time.Time { return fixedNow }), hub
}

func TestSendAbsenceNotices_SkipsAlreadyNotifiedAndTalliesFailures(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	mailer := &fakeMailer{failTo: map[string]bool{"c@example.com": true}}
	absences := &fakeAbsences{absent: []attendance.AbsentEmployee{
		absentee("a", "a@example.com"),
		absentee("b", "b@example.com"),
		absentee("c", "c@example.com"),
	}}
	svc, _ := newTestService(repo, mailer, absences)

	req := notification.SendAbsenceNoticesRequest{Date: "2025-07-01"}
	res, err := svc.SendAbsenceNotices(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Absent)
	assert.Equal(t, 2, res.EmailsSent)
	assert.Equal(t, 1, res.EmailsFailed)
	assert.Equal(t, []string{"c"}, res.FailedEmployeeIDs)
	assert.Len(t, repo.Items, 2)

	// a second run only retries the failed employee
	mailer.failTo = nil
	res, err = svc.SendAbsenceNotices(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.AlreadyNotified)
	assert.Equal(t, 1, res.EmailsSent)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, mailer.sent)

	status, err := svc.HasAbsenceNotice(ctx, notification.AbsenceNoticeQuery{EmployeeID: "c", Date: "2025-07-01"})
	require.NoError(t, err)
	assert.True(t, status.Notified)

	status, err = svc.HasAbsenceNotice(ctx, notification.AbsenceNoticeQuery{EmployeeID: "c", Date: "2025-07-02"})
	require.NoError(t, err)
	assert.False(t, status.Notified)
}

func TestSendAbsenceNotices_SelectedEmployeesOnly(t *testing.T) {
	repo := memory.NewNotificationRepository()
	mailer := &fakeMailer{}
	absences := &fakeAbsences{absent: []attendance.AbsentEmployee{
		absentee("a", "a@example.com"),
		absentee("b", "b@example.com"),
	}}
	svc, _ := newTestService(repo, mailer, absences)

	res, err := svc.SendAbsenceNotices(context.Background(), notification.SendAbsenceNoticesRequest{
		Date:        "2025-07-01",
		EmployeeIDs: []string{"b", "unknown"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Absent)
	assert.Equal(t, []string{"b@example.com"}, mailer.sent)
	require.Len(t, repo.Items, 1)
	assert.Equal(t, notification.TypeAbsence, repo.Items[0].Type)
	assert.Equal(t, dateutil.NewDate(2025, time.July, 1), *repo.Items[0].AbsenceDate)
}

func TestSendAbsenceNotices_InvalidDate(t *testing.T) {
	svc, _ := newTestService(memory.NewNotificationRepository(), &fakeMailer{}, &fakeAbsences{})
	_, err := svc.SendAbsenceNotices(context.Background(), notification.SendAbsenceNoticesRequest{Date: "01/07/2025"})
	assert.Error(t, err)
}

func TestUpdateStatus_OwnershipRules(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc, _ := newTestService(repo, &fakeMailer{}, &fakeAbsences{})

	n, err := svc.Record(ctx, notification.CreateNotificationRequest{EmployeeID: "emp-1", Type: notification.TypeLeaveStatus, Title: "Congé"})
	require.NoError(t, err)
	assert.Equal(t, notification.StatusUnread, n.Status)

	owner := "emp-1"
	other := "emp-2"

	_, err = svc.UpdateStatus(ctx, user.Actor{UserID: "u-2", Role: user.RoleUser, EmployeeID: &other},
		notification.UpdateStatusRequest{ID: n.ID, Status: notification.StatusRead})
	assert.ErrorIs(t, err, notification.ErrUnauthorized)

	resp, err := svc.UpdateStatus(ctx, user.Actor{UserID: "u-1", Role: user.RoleUser, EmployeeID: &owner},
		notification.UpdateStatusRequest{ID: n.ID, Status: notification.StatusRead})
	require.NoError(t, err)
	assert.Equal(t, notification.StatusRead, resp.Status)

	resp, err = svc.UpdateStatus(ctx, user.Actor{UserID: "hr", Role: user.RoleSuperuser},
		notification.UpdateStatusRequest{ID: n.ID, Status: notification.StatusUnread})
	require.NoError(t, err)
	assert.Equal(t, notification.StatusUnread, resp.Status)

	_, err = svc.UpdateStatus(ctx, user.Actor{UserID: "hr", Role: user.RoleAdmin},
		notification.UpdateStatusRequest{ID: n.ID, Status: "archived"})
	assert.Error(t, err)
}

func TestListMine_RequiresLinkedEmployee(t *testing.T) {
	svc, _ := newTestService(memory.NewNotificationRepository(), &fakeMailer{}, &fakeAbsences{})
	_, err := svc.ListMine(context.Background(), user.Actor{UserID: "u", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, notification.ErrNoLinkedEmployee)
}

func TestSubscribe_DeliversOwnAndHRStreams(t *testing.T) {
	ctx := context.Background()
	svc, hub := newTestService(memory.NewNotificationRepository(), &fakeMailer{}, &fakeAbsences{})

	owner := "emp-1"
	mine, stopMine := svc.Subscribe(ctx, user.Actor{UserID: "u-1", Role: user.RoleUser, EmployeeID: &owner})
	defer stopMine()
	hr, stopHR := svc.Subscribe(ctx, user.Actor{UserID: "hr", Role: user.RoleAdmin})
	defer stopHR()
	require.Eventually(t, func() bool { return hub.TotalSubscribers() == 2 }, time.Second, 5*time.Millisecond)

	_, err := svc.Record(ctx, notification.CreateNotificationRequest{EmployeeID: "emp-1", Type: notification.TypeAbsence, Title: "Absence"})
	require.NoError(t, err)

	for _, stream := range []<-chan notification.SSEEvent{mine, hr} {
		select {
		case ev := <-stream:
			assert.Equal(t, "notification", ev.Event)
			assert.Equal(t, "emp-1", ev.Data.EmployeeID)
		case <-time.After(time.Second):
			t.Fatal("no event received")
		}
	}

	stopMine()
	require.Eventually(t, func() bool { return hub.SubscriberCount("emp-1") == 0 }, time.Second, 5*time.Millisecond)

	unlinked, stop := svc.Subscribe(ctx, user.Actor{UserID: "u-3", Role: user.RoleUser})
	defer stop()
	_, open := <-unlinked
	assert.False(t, open)
}

package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
)

// DailyJobs keeps leave statuses in step with the calendar and, when enabled,
// warns yesterday's absentees.
type DailyJobs struct {
	leaveService        leave.LeaveService
	notificationService notification.Service
	runHour             int
	autoNotify          bool
	now                 func() time.Time
}

func NewDailyJobs(
	leaveService leave.LeaveService,
	notificationService notification.Service,
	runHour int,
	autoNotify bool,
	now func() time.Time,
) *DailyJobs {
	return &DailyJobs{
		leaveService:        leaveService,
		notificationService: notificationService,
		runHour:             runHour,
		autoNotify:          autoNotify,
		now:                 now,
	}
}

func (j *DailyJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddDailyJob("progress_leave_statuses", j.runHour, j.ProgressLeaveStatuses)
	if j.autoNotify {
		scheduler.AddDailyJob("send_absence_notices", j.runHour, j.SendAbsenceNotices)
	}
}

func (j *DailyJobs) ProgressLeaveStatuses(ctx context.Context) error {
	changed, err := j.leaveService.ProgressStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to progress leave statuses: %w", err)
	}
	slog.Info("Cron: leave statuses progressed", "changed", changed)
	return nil
}

func (j *DailyJobs) SendAbsenceNotices(ctx context.Context) error {
	yesterday := dateutil.AddDays(dateutil.Day(j.now()), -1)
	req := notification.SendAbsenceNoticesRequest{
		Date: yesterday.Format(dateutil.DateLayout),
		Day:  yesterday,
	}

	res, err := j.notificationService.SendAbsenceNotices(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send absence notices: %w", err)
	}
	slog.Info("Cron: absence notices sent",
		"date", res.Date,
		"absent", res.Absent,
		"already_notified", res.AlreadyNotified,
		"emails_sent", res.EmailsSent,
		"emails_failed", res.EmailsFailed,
	)
	return nil
}

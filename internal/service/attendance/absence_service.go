package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
)

// ProfileWindowDays is how far back an employee absence profile looks.
const ProfileWindowDays = 60

type AbsenceServiceImpl struct {
	employeeRepo     employee.EmployeeRepository
	punchRepo        attendance.PunchRepository
	overrideRepo     schedule.OverrideRepository
	leaveRepo        leave.RequestRepository
	notificationRepo notification.Repository
	lateThreshold    time.Duration
	loc              *time.Location
	now              func() time.Time
}

func NewAbsenceService(
	employeeRepo employee.EmployeeRepository,
	punchRepo attendance.PunchRepository,
	overrideRepo schedule.OverrideRepository,
	leaveRepo leave.RequestRepository,
	notificationRepo notification.Repository,
	lateThreshold time.Duration,
	loc *time.Location,
	now func() time.Time,
) attendance.AbsenceService {
	return &AbsenceServiceImpl{
		employeeRepo:     employeeRepo,
		punchRepo:        punchRepo,
		overrideRepo:     overrideRepo,
		leaveRepo:        leaveRepo,
		notificationRepo: notificationRepo,
		lateThreshold:    lateThreshold,
		loc:              loc,
		now:              now,
	}
}

// FindAbsentEmployees lists the employees absent on the requested date, flagged
// with whether they were already sent an absence notice.
func (s *AbsenceServiceImpl) FindAbsentEmployees(ctx context.Context, req attendance.AbsenceRequest) ([]attendance.AbsentEmployee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return s.absentOn(ctx, req.Day, employees)
}

// FindAbsentEmployeesInRange runs the daily detection over every date of
// [start, end]. The range must be over before today.
func (s *AbsenceServiceImpl) FindAbsentEmployeesInRange(ctx context.Context, req attendance.AbsenceRangeRequest) ([]attendance.DailyAbsence, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.End.Before(dateutil.Day(s.now().In(s.loc))) {
		return nil, attendance.ErrRangeNotInThePast
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	days := make([]attendance.DailyAbsence, 0)
	for d := req.Start; !d.After(req.End); d = dateutil.AddDays(d, 1) {
		absent, err := s.absentOn(ctx, d, employees)
		if err != nil {
			return nil, err
		}
		days = append(days, attendance.DailyAbsence{Date: d.Format(dateutil.DateLayout), Employees: absent})
	}
	return days, nil
}

func (s *AbsenceServiceImpl) absentOn(ctx context.Context, day time.Time, employees []employee.Employee) ([]attendance.AbsentEmployee, error) {
	overrides, err := s.overrideRepo.ListInRange(ctx, day, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule overrides: %w", err)
	}

	from := dateutil.StartOfDay(day, s.loc)
	punches, err := s.punchRepo.ListInRange(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load punches: %w", err)
	}
	punched := make(map[string]bool, len(punches))
	for _, p := range punches {
		punched[p.EmployeeID] = true
	}

	leaves, err := s.leaveRepo.ListActiveCovering(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave: %w", err)
	}

	absent := DetectAbsent(day, employees, DayFacts{
		Resolver: calendar.NewResolver(overrides),
		Punched:  punched,
		Leaves:   leaves,
	})

	noticed, err := s.notificationRepo.ListNoticedEmployees(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load absence notices: %w", err)
	}

	result := make([]attendance.AbsentEmployee, len(absent))
	for i, emp := range absent {
		result[i] = attendance.AbsentEmployee{Summary: employee.ToSummary(emp), NoticeSent: noticed[emp.ID]}
	}
	return result, nil
}

// EmployeeProfile lists the employee's absences and late arrivals over the last
// ProfileWindowDays days, today excluded.
func (s *AbsenceServiceImpl) EmployeeProfile(ctx context.Context, employeeID string) (attendance.ProfileResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.ProfileResponse{}, err
	}

	today := dateutil.Day(s.now().In(s.loc))
	from := dateutil.AddDays(today, -ProfileWindowDays)

	overrides, err := s.overrideRepo.ListInRange(ctx, from, dateutil.AddDays(today, -1))
	if err != nil {
		return attendance.ProfileResponse{}, fmt.Errorf("failed to load schedule overrides: %w", err)
	}
	leaves, err := s.leaveRepo.ListActiveInRange(ctx, emp.ID, from, today)
	if err != nil {
		return attendance.ProfileResponse{}, fmt.Errorf("failed to load leave: %w", err)
	}
	punches, err := s.punchRepo.ListForEmployee(ctx, emp.ID, dateutil.StartOfDay(from, s.loc), dateutil.StartOfDay(today, s.loc))
	if err != nil {
		return attendance.ProfileResponse{}, fmt.Errorf("failed to load punches: %w", err)
	}

	punched := make(map[time.Time]bool)
	lateDates := make([]string, 0)
	for _, p := range punches {
		day := dateutil.Day(p.PunchedAt.In(s.loc))
		punched[day] = true
		if p.LateBeyond(s.lateThreshold) {
			lateDates = append(lateDates, day.Format(dateutil.DateLayout))
		}
	}

	resolver := calendar.NewResolver(overrides)
	absenceDates := make([]string, 0)
	dateutil.EachDay(from, today, func(d time.Time) {
		if punched[d] {
			return
		}
		if len(DetectAbsent(d, []employee.Employee{emp}, DayFacts{Resolver: resolver, Punched: map[string]bool{}, Leaves: leaves})) == 1 {
			absenceDates = append(absenceDates, d.Format(dateutil.DateLayout))
		}
	})

	return attendance.ProfileResponse{
		Employee:      employee.ToSummary(emp),
		From:          from.Format(dateutil.DateLayout),
		To:            dateutil.AddDays(today, -1).Format(dateutil.DateLayout),
		TotalAbsences: len(absenceDates),
		AbsenceDates:  absenceDates,
		TotalLateDays: len(lateDates),
		LateDates:     lateDates,
	}, nil
}

package attendance

import (
	"context"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
)

type AttendanceService interface {
	// RecordPunch validates the punch against today's schedule, leave and
	// punch sequence, and stores it in a single transaction.
	RecordPunch(ctx context.Context, actor user.Actor, req RecordPunchRequest) (PunchResponse, error)
	List(ctx context.Context, actor user.Actor) ([]PunchResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (PunchResponse, error)
	// LastToday returns nil when the employee has not punched today.
	LastToday(ctx context.Context, actor user.Actor, employeeID string) (*PunchResponse, error)
	Delete(ctx context.Context, id string) error
}

type AbsenceService interface {
	FindAbsentEmployees(ctx context.Context, req AbsenceRequest) ([]AbsentEmployee, error)
	FindAbsentEmployeesInRange(ctx context.Context, req AbsenceRangeRequest) ([]DailyAbsence, error)
	// EmployeeProfile summarises absences and late days over the last 60 days.
	EmployeeProfile(ctx context.Context, employeeID string) (ProfileResponse, error)
}

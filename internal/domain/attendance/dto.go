package attendance

import (
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
)

type RecordPunchRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required"`
	Kind       PunchKind `json:"kind" validate:"required,oneof=clock_in clock_out return_from_break end_of_day"`
}

func (r *RecordPunchRequest) Validate() error {
	return validator.Struct(r)
}

type PunchResponse struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employee_id"`
	EmployeeLastName  string    `json:"employee_last_name,omitempty"`
	EmployeeFirstName string    `json:"employee_first_name,omitempty"`
	PunchedAt         string    `json:"punched_at"`
	Kind              PunchKind `json:"kind"`
	Lateness          *string   `json:"lateness,omitempty"`
}

func ToResponse(p Punch) PunchResponse {
	resp := PunchResponse{
		ID:                p.ID,
		EmployeeID:        p.EmployeeID,
		EmployeeLastName:  p.EmployeeLastName,
		EmployeeFirstName: p.EmployeeFirstName,
		PunchedAt:         p.PunchedAt.Format(time.RFC3339),
		Kind:              p.Kind,
	}
	if p.Lateness != nil {
		lateness := dateutil.FormatDuration(*p.Lateness)
		resp.Lateness = &lateness
	}
	return resp
}

type AbsenceRequest struct {
	Date string `json:"date" validate:"required,date"`

	Day time.Time `json:"-"`
}

func (r *AbsenceRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	r.Day, _ = dateutil.ParseDate(r.Date)
	return nil
}

type AbsenceRangeRequest struct {
	StartDate string `json:"start" validate:"required,date"`
	EndDate   string `json:"end" validate:"required,date"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *AbsenceRangeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	r.Start, _ = dateutil.ParseDate(r.StartDate)
	r.End, _ = dateutil.ParseDate(r.EndDate)
	if r.Start.After(r.End) {
		return validator.ValidationErrors{{Field: "end", Message: "start must not be after end"}}
	}
	return nil
}

type AbsentEmployee struct {
	employee.Summary
	// NoticeSent reports whether an absence notice already went out for the date.
	NoticeSent bool `json:"notice_sent"`
}

type DailyAbsence struct {
	Date      string           `json:"date"`
	Employees []AbsentEmployee `json:"employees"`
}

type ProfileResponse struct {
	Employee      employee.Summary `json:"employee"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	TotalAbsences int              `json:"total_absences"`
	AbsenceDates  []string         `json:"absence_dates"`
	TotalLateDays int              `json:"total_late_days"`
	LateDates     []string         `json:"late_dates"`
}

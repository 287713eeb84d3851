package schedule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
)

type NotifyRequest struct {
	Target      string   `json:"target" validate:"omitempty,oneof=none all post selected"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

type CreateOverrideRequest struct {
	EmployeeID *string       `json:"employee_id,omitempty"`
	Post       *string       `json:"post,omitempty"`
	StartDate  string        `json:"start_date" validate:"required,date"`
	EndDate    *string       `json:"end_date,omitempty" validate:"omitempty,date"`
	StartTime  string        `json:"start_time" validate:"required,clock"`
	EndTime    string        `json:"end_time" validate:"required,clock"`
	Notify     NotifyRequest `json:"notify"`

	// Parsed by Validate.
	Scope     Scope          `json:"-"`
	Start     time.Time      `json:"-"`
	End       time.Time      `json:"-"`
	StartHour dateutil.Clock `json:"-"`
	EndHour   dateutil.Clock `json:"-"`
}

func (r *CreateOverrideRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors

	r.Start, _ = dateutil.ParseDate(r.StartDate)
	r.End = r.Start
	if r.EndDate != nil && *r.EndDate != "" {
		r.End, _ = dateutil.ParseDate(*r.EndDate)
	}
	if r.Start.After(r.End) {
		errs.Add("end_date", "start_date must not be after end_date")
	}

	r.StartHour, _ = dateutil.ParseClock(r.StartTime)
	r.EndHour, _ = dateutil.ParseClock(r.EndTime)
	if !r.StartHour.Before(r.EndHour) {
		errs.Add("end_time", "start_time must be strictly before end_time")
	}

	employeeID := trimmed(r.EmployeeID)
	post := trimmed(r.Post)
	switch {
	case employeeID != "" && post != "":
		errs.Add("post", "an override cannot target both an employee and a post")
	case employeeID != "":
		r.Scope = EmployeeScope(employeeID)
	case post != "":
		r.Scope = PostScope(post)
	default:
		r.Scope = GlobalScope()
	}

	if NotifyTarget(r.Notify.Target) == NotifySelected && len(r.Notify.EmployeeIDs) == 0 {
		errs.Add("notify.employee_ids", "employee_ids is required when target is selected")
	}
	if r.Notify.Target == "" {
		r.Notify.Target = string(NotifyNone)
	}

	return errs.Err()
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

type UpdateOverrideRequest struct {
	ID string `json:"-"`
	CreateOverrideRequest
}

func (r *UpdateOverrideRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return r.CreateOverrideRequest.Validate()
}

type RangeRequest struct {
	StartDate string `json:"start" validate:"required,date"`
	EndDate   string `json:"end" validate:"required,date"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *RangeRequest) Validate() error {
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

type OverrideResponse struct {
	ID         string  `json:"id"`
	Scope      string  `json:"scope"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Post       *string `json:"post,omitempty"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func ToResponse(o Override) OverrideResponse {
	employeeID, post := o.Scope.Columns()
	return OverrideResponse{
		ID:         o.ID,
		Scope:      string(o.Scope.Kind),
		EmployeeID: employeeID,
		Post:       post,
		StartDate:  o.StartDate.Format(dateutil.DateLayout),
		EndDate:    o.EndDate.Format(dateutil.DateLayout),
		StartTime:  o.StartTime.String(),
		EndTime:    o.EndTime.String(),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  o.UpdatedAt.Format(time.RFC3339),
	}
}

type OverrideMutationResponse struct {
	Override     OverrideResponse `json:"override"`
	EmailsSent   int              `json:"emails_sent"`
	EmailsFailed int              `json:"emails_failed"`
}

package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Motive     string `json:"motive" validate:"required,max=500"`
	StartDate  string `json:"start_date" validate:"required,date"`
	ReturnDate string `json:"return_date" validate:"required,date"`

	Start  time.Time `json:"-"`
	Return time.Time `json:"-"`
}

// Validate checks that every required field is present and well formed.
// Period rules are enforced by the leave validator.
func (r *CreateLeaveRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Motive = strings.TrimSpace(r.Motive)
	if err := validator.Struct(r); err != nil {
		return err
	}
	r.Start, _ = dateutil.ParseDate(r.StartDate)
	r.Return, _ = dateutil.ParseDate(r.ReturnDate)
	return nil
}

type UpdateLeaveRequest struct {
	ID string `json:"-"`
	CreateLeaveRequest
}

func (r *UpdateLeaveRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return r.CreateLeaveRequest.Validate()
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (r *UpdateStatusRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return validator.Struct(r)
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

type LeaveResponse struct {
	ID                string `json:"id"`
	EmployeeID        string `json:"employee_id"`
	EmployeeLastName  string `json:"employee_last_name,omitempty"`
	EmployeeFirstName string `json:"employee_first_name,omitempty"`
	Motive            string `json:"motive"`
	StartDate         string `json:"start_date"`
	ReturnDate        string `json:"return_date"`
	Days              int    `json:"days"`
	Status            Status `json:"status"`
	RequestedAt       string `json:"requested_at"`
	UpdatedAt         string `json:"updated_at"`
}

func ToResponse(r Request) LeaveResponse {
	return LeaveResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		EmployeeLastName:  r.EmployeeLastName,
		EmployeeFirstName: r.EmployeeFirstName,
		Motive:            r.Motive,
		StartDate:         r.StartDate.Format(dateutil.DateLayout),
		ReturnDate:        r.ReturnDate.Format(dateutil.DateLayout),
		Days:              r.Days,
		Status:            r.Status,
		RequestedAt:       r.RequestedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}
}

type LeaveMutationResponse struct {
	Leave     LeaveResponse `json:"leave"`
	EmailSent bool          `json:"email_sent"`
}

type RemainingResponse struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Quota      int    `json:"quota"`
	Taken      int    `json:"taken"`
	Remaining  int    `json:"remaining"`
}

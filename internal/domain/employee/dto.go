package employee

import (
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// WorkDaysPayload is the JSON shape of the weekly working pattern.
type WorkDaysPayload struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

func (p WorkDaysPayload) ToWorkDays() WorkDays {
	var w WorkDays
	w[time.Monday] = p.Monday
	w[time.Tuesday] = p.Tuesday
	w[time.Wednesday] = p.Wednesday
	w[time.Thursday] = p.Thursday
	w[time.Friday] = p.Friday
	w[time.Saturday] = p.Saturday
	w[time.Sunday] = p.Sunday
	return w
}

func WorkDaysToPayload(w WorkDays) WorkDaysPayload {
	return WorkDaysPayload{
		Monday:    w[time.Monday],
		Tuesday:   w[time.Tuesday],
		Wednesday: w[time.Wednesday],
		Thursday:  w[time.Thursday],
		Friday:    w[time.Friday],
		Saturday:  w[time.Saturday],
		Sunday:    w[time.Sunday],
	}
}

type CreateEmployeeRequest struct {
	LastName      string          `json:"last_name" validate:"required,max=100,person_name"`
	FirstName     string          `json:"first_name" validate:"required,max=100,person_name"`
	Post          string          `json:"post" validate:"required,max=100"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	Email         string          `json:"email" validate:"required,email,max=254"`
	ShiftStart    string          `json:"shift_start" validate:"required,clock"`
	ShiftEnd      string          `json:"shift_end" validate:"required,clock"`
	WorkDays      WorkDaysPayload `json:"work_days"`
	HireDate      *string         `json:"hire_date,omitempty" validate:"omitempty,date"`
	PhotoURL      *string         `json:"photo_url,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.LastName = strings.TrimSpace(r.LastName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.Post = strings.TrimSpace(r.Post)
	r.Email = strings.TrimSpace(r.Email)

	if err := validator.Struct(r); err != nil {
		return err
	}
	return validateEmployment(r.MonthlySalary, r.ShiftStart, r.ShiftEnd, r.WorkDays)
}

// validateEmployment checks the rules struct tags cannot express.
func validateEmployment(salary decimal.Decimal, shiftStart, shiftEnd string, days WorkDaysPayload) error {
	var errs validator.ValidationErrors

	if salary.IsNegative() {
		errs.Add("monthly_salary", "monthly_salary must not be negative")
	}

	start, errStart := dateutil.ParseClock(shiftStart)
	end, errEnd := dateutil.ParseClock(shiftEnd)
	if errStart == nil && errEnd == nil && !start.Before(end) {
		errs.Add("shift_end", "shift_end must be after shift_start")
	}

	if !days.ToWorkDays().Any() {
		errs.Add("work_days", "at least one working day must be selected")
	}

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID string `json:"-"`
	CreateEmployeeRequest
}

func (r *UpdateEmployeeRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return r.CreateEmployeeRequest.Validate()
}

type EmployeeFilter struct {
	Query string
	Post  string
}

type EmployeeResponse struct {
	ID            string          `json:"id"`
	Number        int64           `json:"number"`
	PhotoURL      *string         `json:"photo_url,omitempty"`
	LastName      string          `json:"last_name"`
	FirstName     string          `json:"first_name"`
	FullName      string          `json:"full_name"`
	Post          string          `json:"post"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	Email         string          `json:"email"`
	ShiftStart    string          `json:"shift_start"`
	ShiftEnd      string          `json:"shift_end"`
	WorkDays      WorkDaysPayload `json:"work_days"`
	HireDate      string          `json:"hire_date"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		Number:        e.Number,
		PhotoURL:      e.PhotoURL,
		LastName:      e.LastName,
		FirstName:     e.FirstName,
		FullName:      e.FullName(),
		Post:          e.Post,
		MonthlySalary: e.MonthlySalary,
		Email:         e.Email,
		ShiftStart:    e.ShiftStart.String(),
		ShiftEnd:      e.ShiftEnd.String(),
		WorkDays:      WorkDaysToPayload(e.WorkDays),
		HireDate:      e.HireDate.Format(dateutil.DateLayout),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}

// Summary is the short employee form embedded in other responses.
type Summary struct {
	ID        string  `json:"id"`
	Number    int64   `json:"number"`
	LastName  string  `json:"last_name"`
	FirstName string  `json:"first_name"`
	Post      string  `json:"post"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	HireDate  string  `json:"hire_date"`
}

func ToSummary(e Employee) Summary {
	return Summary{
		ID:        e.ID,
		Number:    e.Number,
		LastName:  e.LastName,
		FirstName: e.FirstName,
		Post:      e.Post,
		Email:     e.Email,
		PhotoURL:  e.PhotoURL,
		HireDate:  e.HireDate.Format(dateutil.DateLayout),
	}
}

const MaxPhotoSize = 2 << 20

type UploadPhotoRequest struct {
	File       io.Reader
	FileHeader *multipart.FileHeader
}

func (r *UploadPhotoRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.File == nil || r.FileHeader == nil {
		errs.Add("photo", "photo file is required")
		return errs
	}
	if r.FileHeader.Size > MaxPhotoSize {
		return ErrPhotoTooLarge
	}
	return nil
}

type PhotoResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

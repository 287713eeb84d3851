package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SalaryRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Month      int    `json:"month" validate:"required,gte=1,lte=12"`
	Year       int    `json:"year" validate:"required,gte=2000,lte=9999"`
}

func (r *SalaryRequest) Validate() error {
	return validator.Struct(r)
}

type ExportRequest struct {
	Month int `json:"month" validate:"required,gte=1,lte=12"`
	Year  int `json:"year" validate:"required,gte=2000,lte=9999"`
}

func (r *ExportRequest) Validate() error {
	return validator.Struct(r)
}

func (r ExportRequest) Filename() string {
	return fmt.Sprintf("paie_%04d_%02d.xlsx", r.Year, r.Month)
}

type SalaryResponse struct {
	Employee                  employee.Summary `json:"employee"`
	Month                     int              `json:"month"`
	Year                      int              `json:"year"`
	BaseSalary                decimal.Decimal  `json:"base_salary"`
	Deductions                []Deduction      `json:"deductions"`
	TotalDeductions           decimal.Decimal  `json:"total_deductions"`
	NetSalary                 decimal.Decimal  `json:"net_salary"`
	NegativeNet               bool             `json:"negative_net"`
	Currency                  string           `json:"currency"`
	ExpectedDays              int              `json:"expected_days"`
	WorkedDays                int              `json:"worked_days"`
	AbsencesCount             int              `json:"absences_count"`
	LateOverThresholdCount    int              `json:"late_over_threshold_count"`
	UnjustifiedDepartureCount int              `json:"unjustified_departure_count"`
}

func ToSalaryResponse(emp employee.Employee, result MonthlySalaryResult, currency string) SalaryResponse {
	deductions := result.Deductions
	if deductions == nil {
		deductions = []Deduction{}
	}
	return SalaryResponse{
		Employee:                  employee.ToSummary(emp),
		Month:                     int(result.Month),
		Year:                      result.Year,
		BaseSalary:                result.BaseSalary,
		Deductions:                deductions,
		TotalDeductions:           result.TotalDeductions,
		NetSalary:                 result.NetSalary,
		NegativeNet:               result.NegativeNet(),
		Currency:                  currency,
		ExpectedDays:              result.ExpectedDays,
		WorkedDays:                result.WorkedDays,
		AbsencesCount:             result.AbsencesCount,
		LateOverThresholdCount:    result.LateOverThresholdCount,
		UnjustifiedDepartureCount: result.UnjustifiedDepartureCount,
	}
}

type PayslipResponse struct {
	Salary   SalaryResponse `json:"salary"`
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	URL      string         `json:"url"`
}

// MonthOf converts a validated request month.
func MonthOf(m int) time.Month {
	return time.Month(m)
}

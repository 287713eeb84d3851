package payroll

import (
	"context"
)

type PayrollService interface {
	ComputeMonthlySalary(ctx context.Context, req SalaryRequest) (SalaryResponse, error)
	// GeneratePayslip renders the payslip PDF, stores it and returns its location.
	GeneratePayslip(ctx context.Context, req SalaryRequest) (PayslipResponse, error)
	// ExportMonth builds a workbook with one salary row per employee.
	ExportMonth(ctx context.Context, req ExportRequest) ([]byte, error)
}

package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/export"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/payslip"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/pointage-backend/internal/service/calendar"
)

type PayrollServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	punchRepo    attendance.PunchRepository
	leaveRepo    leave.RequestRepository
	overrideRepo schedule.OverrideRepository
	storage      storage.FileStorage
	rules        payroll.Rules
	loc          *time.Location
	now          func() time.Time
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	punchRepo attendance.PunchRepository,
	leaveRepo leave.RequestRepository,
	overrideRepo schedule.OverrideRepository,
	fileStorage storage.FileStorage,
	rules payroll.Rules,
	loc *time.Location,
	now func() time.Time,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		employeeRepo: employeeRepo,
		punchRepo:    punchRepo,
		leaveRepo:    leaveRepo,
		overrideRepo: overrideRepo,
		storage:      fileStorage,
		rules:        rules,
		loc:          loc,
		now:          now,
	}
}

// ComputeMonthlySalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeMonthlySalary(ctx context.Context, req payroll.SalaryRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	result, err := s.compute(ctx, emp, payroll.MonthOf(req.Month), req.Year)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	return payroll.ToSalaryResponse(emp, result, s.rules.Currency), nil
}

// GeneratePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, req payroll.SalaryRequest) (payroll.PayslipResponse, error) {
	salary, err := s.ComputeMonthlySalary(ctx, req)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	data := payslipData(salary, s.now().In(s.loc))
	pdf, err := payslip.Render(data)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to render payslip: %w", err)
	}

	stored, err := s.storage.Upload(ctx, bytes.NewReader(pdf), path.Join(storage.DirPayslips, data.Filename()), "application/pdf")
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to store payslip: %w", err)
	}

	slog.Info("Payslip generated", "employee_id", salary.Employee.ID, "month", req.Month, "year", req.Year, "path", stored)
	return payroll.PayslipResponse{
		Salary:   salary,
		Filename: data.Filename(),
		Path:     stored,
		URL:      s.storage.URL(stored),
	}, nil
}

// ExportMonth implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportMonth(ctx context.Context, req payroll.ExportRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	month := payroll.MonthOf(req.Month)

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	rows := make([]export.PayrollRow, 0, len(employees))
	for _, emp := range employees {
		result, err := s.compute(ctx, emp, month, req.Year)
		if errors.Is(err, payroll.ErrNotYetHired) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, export.PayrollRow{
			Number:          emp.Number,
			LastName:        emp.LastName,
			FirstName:       emp.FirstName,
			Post:            emp.Post,
			ExpectedDays:    result.ExpectedDays,
			WorkedDays:      result.WorkedDays,
			Absences:        result.AbsencesCount,
			LateCount:       result.LateOverThresholdCount,
			Departures:      result.UnjustifiedDepartureCount,
			BaseSalary:      result.BaseSalary,
			TotalDeductions: result.TotalDeductions,
			NetSalary:       result.NetSalary,
		})
	}

	workbook, err := export.PayrollWorkbook(month, req.Year, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build payroll workbook: %w", err)
	}
	return workbook, nil
}

// compute loads the month's schedule, leave and punches of emp and runs the calculator.
func (s *PayrollServiceImpl) compute(ctx context.Context, emp employee.Employee, month time.Month, year int) (payroll.MonthlySalaryResult, error) {
	first, next := dateutil.MonthBounds(year, month)
	if hired := dateutil.Day(emp.HireDate); !hired.Before(next) {
		return payroll.MonthlySalaryResult{}, payroll.ErrNotYetHired
	}

	overrides, err := s.overrideRepo.ListInRange(ctx, first, dateutil.AddDays(next, -1))
	if err != nil {
		return payroll.MonthlySalaryResult{}, fmt.Errorf("failed to load schedule overrides: %w", err)
	}
	leaves, err := s.leaveRepo.ListActiveInRange(ctx, emp.ID, first, next)
	if err != nil {
		return payroll.MonthlySalaryResult{}, fmt.Errorf("failed to load leave: %w", err)
	}
	punches, err := s.punchRepo.ListForEmployee(ctx, emp.ID, dateutil.StartOfDay(first, s.loc), dateutil.StartOfDay(next, s.loc))
	if err != nil {
		return payroll.MonthlySalaryResult{}, fmt.Errorf("failed to load punches: %w", err)
	}
	for i := range punches {
		punches[i].PunchedAt = punches[i].PunchedAt.In(s.loc)
	}

	return ComputeMonthlySalary(MonthlyInput{
		Employee: emp,
		Month:    month,
		Year:     year,
		Resolver: calendar.NewResolver(overrides),
		Leaves:   leaves,
		Punches:  punches,
		AsOf:     s.now().In(s.loc),
	}, s.rules), nil
}

func payslipData(salary payroll.SalaryResponse, issuedAt time.Time) payslip.Data {
	lines := make([]payslip.Line, len(salary.Deductions))
	for i, d := range salary.Deductions {
		lines[i] = payslip.Line{Label: string(d.Type), Count: d.Count, Amount: d.Amount, Note: d.Note}
	}
	return payslip.Data{
		EmployeeNumber:  salary.Employee.Number,
		LastName:        salary.Employee.LastName,
		FirstName:       salary.Employee.FirstName,
		Post:            salary.Employee.Post,
		Month:           payroll.MonthOf(salary.Month),
		Year:            salary.Year,
		Absences:        salary.AbsencesCount,
		LateCount:       salary.LateOverThresholdCount,
		Departures:      salary.UnjustifiedDepartureCount,
		Deductions:      lines,
		BaseSalary:      salary.BaseSalary,
		TotalDeductions: salary.TotalDeductions,
		NetSalary:       salary.NetSalary,
		Currency:        salary.Currency,
		IssuedAt:        issuedAt,
	}
}

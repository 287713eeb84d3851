package payroll

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/pointage-backend/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newPayrollService(t *testing.T) (payroll.PayrollService, *storage.LocalStorage) {
	t.Helper()

	emp := salaried()
	emp.Number = 7
	newcomer := salaried()
	newcomer.ID = "emp-2"
	newcomer.Number = 8
	newcomer.HireDate = dateutil.NewDate(2025, time.September, 1)

	punchRepo := memory.NewPunchRepository()
	for _, p := range onTimeWeekdays() {
		if dateutil.SameDay(p.PunchedAt, dateutil.NewDate(2025, time.July, 8)) {
			continue
		}
		p.ID = p.PunchedAt.Format(time.RFC3339)
		_, err := punchRepo.Create(context.Background(), p)
		require.NoError(t, err)
	}

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2025, time.August, 5, 10, 0, 0, 0, tana) }
	svc := NewPayrollService(memory.NewEmployeeRepository(emp, newcomer), punchRepo, memory.NewLeaveRepository(),
		memory.NewOverrideRepository(), store, payroll.DefaultRules(), tana, now)
	return svc, store
}

func TestService_ComputeMonthlySalary(t *testing.T) {
	svc, _ := newPayrollService(t)

	salary, err := svc.ComputeMonthlySalary(context.Background(), payroll.SalaryRequest{EmployeeID: "emp-1", Month: 7, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 23, salary.ExpectedDays)
	assert.Equal(t, 22, salary.WorkedDays)
	assert.Equal(t, 1, salary.AbsencesCount)
	assert.True(t, decimal.NewFromInt(490000).Equal(salary.NetSalary), salary.NetSalary.String())
	assert.Equal(t, "Ar", salary.Currency)

	_, err = svc.ComputeMonthlySalary(context.Background(), payroll.SalaryRequest{EmployeeID: "emp-2", Month: 7, Year: 2025})
	assert.ErrorIs(t, err, payroll.ErrNotYetHired)
}

func TestService_GeneratePayslip(t *testing.T) {
	svc, store := newPayrollService(t)
	ctx := context.Background()

	resp, err := svc.GeneratePayslip(ctx, payroll.SalaryRequest{EmployeeID: "emp-1", Month: 7, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "fiche_de_paie_0007_2025_07.pdf", resp.Filename)
	assert.Equal(t, "payslips/fiche_de_paie_0007_2025_07.pdf", resp.Path)
	assert.Equal(t, "http://localhost:8080/files/payslips/fiche_de_paie_0007_2025_07.pdf", resp.URL)

	exists, err := store.Exists(ctx, resp.Path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestService_ExportMonthSkipsLaterHires(t *testing.T) {
	svc, _ := newPayrollService(t)

	data, err := svc.ExportMonth(context.Background(), payroll.ExportRequest{Month: 7, Year: 2025})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rabe", rows[2][1])
}

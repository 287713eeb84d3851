package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	Salary(w http.ResponseWriter, r *http.Request)
	GeneratePayslip(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Salary implements PayrollHandler. ?employee_id=&month=&year=
func (h *payrollHandlerImpl) Salary(w http.ResponseWriter, r *http.Request) {
	req := payroll.SalaryRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      getIntQueryParam(r, "month", 0),
		Year:       getIntQueryParam(r, "year", 0),
	}

	salary, err := h.payrollService.ComputeMonthlySalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, salary)
}

// GeneratePayslip implements PayrollHandler.
func (h *payrollHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.SalaryRequest
	if !decodeJSON(w, r, &req, "GeneratePayslip") {
		return
	}

	result, err := h.payrollService.GeneratePayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payslip generated successfully", result)
}

// Export implements PayrollHandler. ?month=&year= returns an xlsx workbook.
func (h *payrollHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := payroll.ExportRequest{
		Month: getIntQueryParam(r, "month", 0),
		Year:  getIntQueryParam(r, "year", 0),
	}

	workbook, err := h.payrollService.ExportMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("payroll-%04d-%02d.xlsx", req.Year, req.Month)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(workbook)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(workbook); err != nil {
		slog.Error("Failed to write payroll export", "error", err)
	}
}

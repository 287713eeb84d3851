package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	ListAbsent(w http.ResponseWriter, r *http.Request)
	ListAbsentInRange(w http.ResponseWriter, r *http.Request)
	UploadPhoto(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	absenceService  attendance.AbsenceService
	photoService    employee.PhotoService
}

func NewEmployeeHandler(employeeService employee.EmployeeService, absenceService attendance.AbsenceService, photoService employee.PhotoService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		absenceService:  absenceService,
		photoService:    photoService,
	}
}

// ListEmployees implements EmployeeHandler. ?q= searches by name.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Query: r.URL.Query().Get("q"),
		Post:  r.URL.Query().Get("post"),
	}

	employees, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	emp, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, emp)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req, "CreateEmployee") {
		return
	}

	created, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created successfully", created)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req, "UpdateEmployee") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated successfully", updated)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// ListAbsent implements EmployeeHandler. ?date=YYYY-MM-DD
func (h *employeeHandlerImpl) ListAbsent(w http.ResponseWriter, r *http.Request) {
	req := attendance.AbsenceRequest{Date: r.URL.Query().Get("date")}

	absent, err := h.absenceService.FindAbsentEmployees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, absent)
}

// ListAbsentInRange implements EmployeeHandler. ?start=&end=
func (h *employeeHandlerImpl) ListAbsentInRange(w http.ResponseWriter, r *http.Request) {
	req := attendance.AbsenceRangeRequest{
		StartDate: r.URL.Query().Get("start"),
		EndDate:   r.URL.Query().Get("end"),
	}

	days, err := h.absenceService.FindAbsentEmployeesInRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, days)
}

// UploadPhoto implements EmployeeHandler. The multipart field is "photo".
func (h *employeeHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, employee.MaxPhotoSize+(1<<20))
	if err := r.ParseMultipartForm(employee.MaxPhotoSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, employee.ErrPhotoTooLarge)
			return
		}
		slog.Warn("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Photo file is required", nil)
			return
		}
		response.BadRequest(w, "Failed to read photo", nil)
		return
	}
	defer file.Close()

	result, err := h.photoService.UploadPhoto(r.Context(), employee.UploadPhotoRequest{
		File:       file,
		FileHeader: fileHeader,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Photo uploaded successfully", result)
}

package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/auth"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Lost race against a concurrent writer, the client may retry
	if errors.Is(err, domain.ErrConflict) {
		Conflict(w, err.Error())
		return
	}

	var quotaErr *leave.QuotaExceededError
	if errors.As(err, &quotaErr) {
		BadRequest(w, quotaErr.Error(), map[string]string{
			"remaining": strconv.Itoa(quotaErr.Remaining()),
			"requested": strconv.Itoa(quotaErr.Requested),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrNoLinkedAccount):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrOAuthDisabled):
		ServiceUnavailable(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUsernameExists),
		errors.Is(err, user.ErrEmployeeAlreadyLinked):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrEmployeeRequired),
		errors.Is(err, user.ErrFirstAccountMustBeAdmin),
		errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrSuperuserRequiresAdmin),
		errors.Is(err, user.ErrAdminRequiresAdmin),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrInvalidPhoto):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrPhotoTooLarge):
		PayloadTooLarge(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrPunchNotFound):
		NotFound(w, "Punch not found")
	case errors.Is(err, attendance.ErrSelfServiceOnly):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidTransition),
		errors.Is(err, attendance.ErrClockInFirst),
		errors.Is(err, attendance.ErrDayAlreadyEnded),
		errors.Is(err, attendance.ErrNoPunchExpected),
		errors.Is(err, attendance.ErrOnLeave),
		errors.Is(err, attendance.ErrRangeNotInThePast):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrSelfServiceOnly),
		errors.Is(err, leave.ErrHROnly):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrInvalidPeriod),
		errors.Is(err, leave.ErrStartNotInFuture),
		errors.Is(err, leave.ErrNoWorkingDays),
		errors.Is(err, leave.ErrQuotaExceeded),
		errors.Is(err, leave.ErrOverlap),
		errors.Is(err, leave.ErrNotPending):
		BadRequest(w, err.Error(), nil)

	// Schedule domain errors
	case errors.Is(err, schedule.ErrOverrideNotFound):
		NotFound(w, "Schedule override not found")
	case errors.Is(err, schedule.ErrNoExpectationBeforeHire),
		errors.Is(err, schedule.ErrPostHasNoEmployees),
		errors.Is(err, schedule.ErrOnlyPostEmployeeOnLeave),
		errors.Is(err, schedule.ErrEmployeeOnLeave):
		BadRequest(w, err.Error(), nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrUnauthorized),
		errors.Is(err, notification.ErrNoLinkedEmployee):
		Forbidden(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrNotYetHired):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

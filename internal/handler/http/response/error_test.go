package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/pointage-backend/internal/domain"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/leave"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, err error) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	HandleError(rec, err)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHandleError_QuotaExceededCarriesFigures(t *testing.T) {
	status, body := handle(t, fmt.Errorf("failed to create leave: %w", &leave.QuotaExceededError{Quota: 30, Taken: 27, Requested: 5}))

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	assert.Equal(t, map[string]string{"remaining": "3", "requested": "5"}, body.Error.Details)
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "email", Message: "email is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"transition", &attendance.TransitionError{Last: attendance.KindClockIn, Next: attendance.KindClockIn}, http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"photo too large", employee.ErrPhotoTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handle(t, tt.err)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.False(t, body.Success)
		})
	}
}

package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes_RequireAuthentication(t *testing.T) {
	app := newTestApp(t, 100)

	for _, path := range []string{"/api/v1/employees", "/api/v1/punches", "/api/v1/leaves", "/api/v1/notifications/me", "/api/v1/users"} {
		rec := app.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRoutes_RoleGates(t *testing.T) {
	app := newTestApp(t, 100)
	admin := app.login(t, "admin")
	jean := app.login(t, "jean")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"user cannot list employees", http.MethodGet, "/api/v1/employees", jean, http.StatusForbidden},
		{"admin lists employees", http.MethodGet, "/api/v1/employees", admin, http.StatusOK},
		{"user cannot list users", http.MethodGet, "/api/v1/users", jean, http.StatusForbidden},
		{"user reads schedules", http.MethodGet, "/api/v1/schedules", jean, http.StatusOK},
		{"user cannot export payroll", http.MethodGet, "/api/v1/payroll/export?month=6&year=2025", jean, http.StatusForbidden},
		{"user cannot delete punches", http.MethodDelete, "/api/v1/punches/p-1", jean, http.StatusForbidden},
		{"user lists own notifications", http.MethodGet, "/api/v1/notifications/me", jean, http.StatusOK},
		{"user cannot list all notifications", http.MethodGet, "/api/v1/notifications", jean, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRegister_AnonymousOnlyForFirstAccount(t *testing.T) {
	app := newTestApp(t, 100)
	body := map[string]interface{}{"username": "nirina", "password": "secret123", "role": "superuser"}

	rec := app.do(t, http.MethodPost, "/api/v1/users", "", body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/users", app.login(t, "admin"), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created user.UserResponse
	decodeData(t, rec, &created)
	assert.Equal(t, "nirina", created.Username)
	assert.Equal(t, "superuser", created.Role)
}

func TestPunches(t *testing.T) {
	app := newTestApp(t, 100)
	jean := app.login(t, "jean")

	rec := app.do(t, http.MethodPost, "/api/v1/punches", jean, map[string]string{"employee_id": "emp-1", "kind": "clock_in"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var punch attendance.PunchResponse
	decodeData(t, rec, &punch)
	assert.Equal(t, attendance.KindClockIn, punch.Kind)
	require.NotNil(t, punch.Lateness)

	rec = app.do(t, http.MethodPost, "/api/v1/punches", jean, map[string]string{"employee_id": "emp-1", "kind": "clock_in"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/punches", jean, map[string]string{"employee_id": "emp-2", "kind": "clock_in"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/punches/employee/emp-1/last", jean, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var last attendance.PunchResponse
	decodeData(t, rec, &last)
	assert.Equal(t, punch.ID, last.ID)
}

func TestLeaveRemaining_DefaultsToCurrentYear(t *testing.T) {
	app := newTestApp(t, 100)
	admin := app.login(t, "admin")

	rec := app.do(t, http.MethodGet, "/api/v1/leaves/remaining/emp-1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var remaining struct {
		Year      int `json:"year"`
		Remaining int `json:"remaining"`
	}
	decodeData(t, rec, &remaining)
	assert.Equal(t, 2025, remaining.Year)
	assert.Equal(t, 30, remaining.Remaining)

	rec = app.do(t, http.MethodGet, "/api/v1/leaves/remaining/emp-1?year=1999", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollExport(t *testing.T) {
	app := newTestApp(t, 100)
	admin := app.login(t, "admin")

	rec := app.do(t, http.MethodGet, "/api/v1/payroll/export?month=6&year=2025", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll-2025-06.xlsx")
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	rec = app.do(t, http.MethodGet, "/api/v1/payroll/export?month=13&year=2025", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFiles(t *testing.T) {
	app := newTestApp(t, 100)
	require.NoError(t, os.MkdirAll(filepath.Join(app.filesDir, "payslips"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app.filesDir, "payslips", "slip.pdf"), []byte("%PDF-1.3"), 0o644))

	rec := app.do(t, http.MethodGet, "/files/payslips/slip.pdf", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.3", rec.Body.String())

	rec = app.do(t, http.MethodGet, "/files/payslips/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationStream(t *testing.T) {
	app := newTestApp(t, 100)
	jean := app.login(t, "jean")

	rec := app.do(t, http.MethodGet, "/api/v1/notifications/sse-token", jean, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sseToken notification.SSETokenResponse
	decodeData(t, rec, &sseToken)
	require.NotEmpty(t, sseToken.Token)

	t.Run("access token is not an SSE token", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/api/v1/notifications/stream?token="+jean, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("live notifications are pushed", func(t *testing.T) {
		server := httptest.NewServer(app.router)
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/notifications/stream?token="+sseToken.Token, nil)
		require.NoError(t, err)

		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		lines := bufio.NewScanner(resp.Body)
		require.True(t, lines.Scan())
		assert.Equal(t, "event: connected", lines.Text())

		_, err = app.notifications.Record(context.Background(), notification.CreateNotificationRequest{
			EmployeeID: "emp-1",
			Type:       notification.TypeLeaveStatus,
			Title:      "Congé approuvé",
			Message:    "Votre demande a été approuvée",
		})
		require.NoError(t, err)

		for lines.Scan() {
			if lines.Text() == "event: notification" {
				require.True(t, lines.Scan())
				assert.Contains(t, lines.Text(), "Congé approuvé")
				return
			}
		}
		t.Fatal("notification event not received")
	})
}

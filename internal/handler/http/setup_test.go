package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/notification"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/email"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/pointage-backend/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/pointage-backend/internal/service/attendance"
	authService "github.com/cmlabs-hris/pointage-backend/internal/service/auth"
	employeeService "github.com/cmlabs-hris/pointage-backend/internal/service/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/service/file"
	leaveService "github.com/cmlabs-hris/pointage-backend/internal/service/leave"
	notificationService "github.com/cmlabs-hris/pointage-backend/internal/service/notification"
	payrollService "github.com/cmlabs-hris/pointage-backend/internal/service/payroll"
	scheduleService "github.com/cmlabs-hris/pointage-backend/internal/service/schedule"
	userService "github.com/cmlabs-hris/pointage-backend/internal/service/user"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "handler-test-secret"
	testPassword = "secret123"
)

// Monday 14 July 2025, 08:30 UTC
var testNow = time.Date(2025, time.July, 14, 8, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

type okMailer struct{}

func (okMailer) SendLeaveRequest(string, email.LeaveRequestData) error     { return nil }
func (okMailer) SendLeaveStatus(string, email.LeaveStatusData) error       { return nil }
func (okMailer) SendScheduleChange(string, email.ScheduleChangeData) error { return nil }
func (okMailer) SendAbsenceNotice(string, email.AbsenceNoticeData) error   { return nil }

type testApp struct {
	router        *chi.Mux
	jwt           jwt.Service
	notifications notification.Service
	filesDir      string
}

func hashed(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestApp(t *testing.T, loginLimit int) *testApp {
	t.Helper()
	now := func() time.Time { return testNow }
	loc := time.UTC

	employees := memory.NewEmployeeRepository(
		employee.Employee{
			ID: "emp-1", LastName: "Rabe", FirstName: "Jean", Post: "Caissier",
			MonthlySalary: decimal.NewFromInt(600000), Email: "jean.rabe@example.com",
			ShiftStart: dateutil.MustClock("08:00"), ShiftEnd: dateutil.MustClock("17:00"),
			WorkDays: employee.Weekdays(), HireDate: dateutil.NewDate(2024, time.January, 2),
		},
		employee.Employee{
			ID: "emp-2", LastName: "Rakoto", FirstName: "Lova", Post: "Comptable",
			MonthlySalary: decimal.NewFromInt(800000), Email: "lova@example.com",
			ShiftStart: dateutil.MustClock("08:00"), ShiftEnd: dateutil.MustClock("17:00"),
			WorkDays: employee.Weekdays(), HireDate: dateutil.NewDate(2024, time.January, 2),
		},
	)
	users := memory.NewUserRepository(
		user.User{ID: "usr-admin", Username: "admin", PasswordHash: hashed(t), Role: user.RoleAdmin},
		user.User{ID: "usr-jean", Username: "jean", PasswordHash: hashed(t), Role: user.RoleUser, EmployeeID: strPtr("emp-1")},
	)
	punches := memory.NewPunchRepository()
	leaves := memory.NewLeaveRepository()
	overrides := memory.NewOverrideRepository()
	notifRepo := memory.NewNotificationRepository()
	tokens := memory.NewRefreshTokenRepository()
	tx := &memory.Transactor{}

	filesDir := t.TempDir()
	fileStorage, err := storage.NewLocalStorage(filesDir, "http://localhost/files")
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, "1h", "24h")
	rules := payroll.DefaultRules()
	mailer := okMailer{}

	absences := attendanceService.NewAbsenceService(employees, punches, overrides, leaves, notifRepo, rules.LatenessThreshold, loc, now)
	notifications := notificationService.NewNotificationService(notifRepo, sse.NewHub(), mailer, absences, now)

	handlers := Handlers{
		Auth:         NewAuthHandler(jwtService, authService.NewAuthService(tx, users, employees, tokens, jwtService, nil), nil, "http://frontend"),
		User:         NewUserHandler(userService.NewUserService(tx, users, employees, now)),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(employees, loc, now), absences, file.NewPhotoService(fileStorage)),
		Attendance:   NewAttendanceHandler(attendanceService.NewAttendanceService(tx, punches, employees, overrides, leaves, loc, now)),
		Leave:        NewLeaveHandler(leaveService.NewLeaveService(tx, leaves, employees, overrides, notifications, mailer, 30, loc, now), now),
		Schedule:     NewScheduleHandler(scheduleService.NewScheduleService(tx, overrides, employees, leaves, notifications, mailer, now)),
		Notification: NewNotificationHandler(notifications, absences, jwtService),
		Payroll:      NewPayrollHandler(payrollService.NewPayrollService(employees, punches, leaves, overrides, fileStorage, rules, loc, now)),
	}

	cfg := RouterConfig{Version: "test", Env: "test", LogLevel: 8, AllowedOrigins: []string{"http://frontend"}, FilesDir: filesDir}
	return &testApp{
		router:        NewRouter(cfg, jwtService, ratelimit.NewMemoryLimiter(loginLimit, time.Minute), handlers),
		jwt:           jwtService,
		notifications: notifications,
		filesDir:      filesDir,
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// login returns an access token for the fixture account.
func (a *testApp) login(t *testing.T, username string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": testPassword})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, rec, &tokens)
	return tokens.AccessToken
}

// decodeData unwraps the data field of a response envelope into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

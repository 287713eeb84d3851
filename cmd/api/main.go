package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/config"
	appHTTP "github.com/cmlabs-hris/pointage-backend/internal/handler/http"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/cron"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/database"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/email"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/oauth"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/pointage-backend/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/pointage-backend/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/pointage-backend/internal/service/auth"
	employeeService "github.com/cmlabs-hris/pointage-backend/internal/service/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/service/file"
	leaveService "github.com/cmlabs-hris/pointage-backend/internal/service/leave"
	notificationService "github.com/cmlabs-hris/pointage-backend/internal/service/notification"
	payrollService "github.com/cmlabs-hris/pointage-backend/internal/service/payroll"
	scheduleService "github.com/cmlabs-hris/pointage-backend/internal/service/schedule"
	userService "github.com/cmlabs-hris/pointage-backend/internal/service/user"
	"github.com/redis/go-redis/v9"
)

var version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})).With(
		slog.String("app", "pointage"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Error applying database schema: ", err)
	}

	loc := cfg.Location()
	now := time.Now
	rules := cfg.Policy.Payroll.Rules()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	overrideRepo := postgresql.NewOverrideRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP_HOST is empty, emails will be counted as failed")
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	} else {
		slog.Info("Google sign-in disabled")
	}

	hub := sse.NewHub()
	absenceSvc := attendanceService.NewAbsenceService(employeeRepo, punchRepo, overrideRepo, leaveRequestRepo, notificationRepo, rules.LatenessThreshold, loc, now)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, emailService, absenceSvc, now)
	authSvc := serviceAuth.NewAuthService(tx, userRepo, employeeRepo, refreshTokenRepo, JWTService, googleService)
	userSvc := userService.NewUserService(tx, userRepo, employeeRepo, now)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, loc, now)
	photoSvc := file.NewPhotoService(fileStorage)
	attendanceSvc := attendanceService.NewAttendanceService(tx, punchRepo, employeeRepo, overrideRepo, leaveRequestRepo, loc, now)
	leaveSvc := leaveService.NewLeaveService(tx, leaveRequestRepo, employeeRepo, overrideRepo, notificationSvc, emailService, cfg.Policy.Leave.AnnualQuotaDays, loc, now)
	scheduleSvc := scheduleService.NewScheduleService(tx, overrideRepo, employeeRepo, leaveRequestRepo, notificationSvc, emailService, now)
	payrollSvc := payrollService.NewPayrollService(employeeRepo, punchRepo, leaveRequestRepo, overrideRepo, fileStorage, rules, loc, now)

	handlers := appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL),
		User:         appHTTP.NewUserHandler(userSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc, absenceSvc, photoSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc, func() time.Time { return now().In(loc) }),
		Schedule:     appHTTP.NewScheduleHandler(scheduleSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, absenceSvc, JWTService),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Version:        version,
		Env:            cfg.App.Env,
		LogLevel:       logLevel,
		AllowedOrigins: cfg.App.AllowedOrigins,
		FilesDir:       cfg.Storage.BasePath,
	}, JWTService, newLoginLimiter(ctx, cfg.Redis), handlers)

	scheduler := cron.NewScheduler(loc)
	cron.NewDailyJobs(leaveSvc, notificationSvc, cfg.Cron.RunHour, cfg.Cron.AutoNotifyAbsences, now).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}

// newLoginLimiter shares counters through Redis when it is reachable and
// falls back to per-process counters otherwise.
func newLoginLimiter(ctx context.Context, cfg config.RedisConfig) ratelimit.Limiter {
	if cfg.Addr == "" {
		return ratelimit.NewMemoryLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unreachable, rate limiting per process", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return ratelimit.NewMemoryLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	}
	return ratelimit.NewRedisLimiter(client, "ratelimit:auth", ratelimit.DefaultLimit, ratelimit.DefaultWindow)
}

package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const appName = "pointage"

type RouterConfig struct {
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	// FilesDir is served read-only under /files.
	FilesDir string
}

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Schedule     ScheduleHandler
	Notification NotificationHandler
	Payroll      PayrollHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, limiter ratelimit.Limiter, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	rateLimited := middleware.RateLimit(limiter)
	verifier := jwtauth.Verifier(JWTService.JWTAuth())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimited).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(verifier)
			// The very first account is registered before anyone can log in.
			r.With(rateLimited, middleware.OptionalAuth).Post("/", h.User.Register)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
				r.With(middleware.RequireHR).Get("/", h.User.List)
				r.With(middleware.RequireAdmin).Delete("/{id}", h.User.Delete)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			// Token passed as a query parameter, checked by the handler
			r.Get("/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(verifier)
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
				r.With(middleware.RequireHR).Get("/", h.Notification.ListAll)
				r.Get("/me", h.Notification.ListMine)
				r.Get("/sse-token", h.Notification.GetSSEToken)
				r.Put("/{id}", h.Notification.UpdateStatus)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Get("/employee-profile/{employeeID}", h.Notification.EmployeeProfile)
					r.Get("/absence-notice/{employeeID}/{date}", h.Notification.AbsenceNotice)
				})
				r.With(middleware.RequireAdmin).Post("/absence-notices", h.Notification.SendAbsenceNotices)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(verifier)
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Get("/", h.Employee.ListEmployees)
				r.Post("/", h.Employee.CreateEmployee)
				r.Get("/absent", h.Employee.ListAbsent)
				r.Get("/absent/range", h.Employee.ListAbsentInRange)
				r.Get("/{id}", h.Employee.GetEmployee)
				r.Put("/{id}", h.Employee.UpdateEmployee)
				r.With(middleware.RequireAdmin).Delete("/{id}", h.Employee.DeleteEmployee)
			})

			r.With(middleware.RequireHR).Post("/uploads/photo", h.Employee.UploadPhoto)

			r.Route("/punches", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/", h.Attendance.RecordPunch)
				r.Get("/employee/{employeeID}/last", h.Attendance.LastToday)
				r.Get("/{id}", h.Attendance.Get)
				r.With(middleware.RequireAdmin).Delete("/{id}", h.Attendance.Delete)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", h.Leave.List)
				r.Post("/", h.Leave.Create)
				r.Get("/range", h.Leave.ListInRange)
				r.With(middleware.RequireHR).Get("/remaining/{employeeID}", h.Leave.Remaining)
				r.Get("/{id}", h.Leave.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Put("/{id}", h.Leave.Update)
					r.Put("/{id}/status", h.Leave.UpdateStatus)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", h.Schedule.List)
				r.Get("/range", h.Schedule.ListInRange)
				r.With(middleware.RequireHR).Get("/{id}", h.Schedule.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Schedule.Create)
					r.Put("/{id}", h.Schedule.Update)
					r.Delete("/{id}", h.Schedule.Delete)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Get("/salary", h.Payroll.Salary)
				r.Post("/payslips", h.Payroll.GeneratePayslip)
				r.Get("/export", h.Payroll.Export)
			})
		})
	})

	if cfg.FilesDir != "" {
		serveFiles(r, "/files", http.Dir(cfg.FilesDir))
	}

	return r
}

// serveFiles mounts a read-only file server without directory listings.
func serveFiles(r chi.Router, prefix string, root http.FileSystem) {
	fs := http.StripPrefix(prefix, http.FileServer(root))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		fs.ServeHTTP(w, req)
	})
}

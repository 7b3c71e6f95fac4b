package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/jwt"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, vacationHandler VacationHandler, payrollHandler PayrollHandler, eventsHandler EventsHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		ja := JWTService.JWTAuth()

		// EventSource cannot send headers, so the stream also accepts ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(ja, jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Get("/events", eventsHandler.Stream)
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireEmployee)
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/vacation", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionLeaveCreate))

				r.Get("/", vacationHandler.GetDraft)
				r.Post("/items", vacationHandler.AddItem)
				r.Patch("/items/{index}", vacationHandler.UpdateItem)
				r.Delete("/items/{index}", vacationHandler.RemoveItem)
				r.Post("/submit", vacationHandler.Submit)
				r.Post("/reset", vacationHandler.Reset)
			})

			r.Route("/payroll/{year}/{month}", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayrollViewOwn))

				r.Get("/", payrollHandler.GetSession)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollEdit))
					r.Post("/edit", payrollHandler.BeginEdit)
					r.Patch("/fields", payrollHandler.SetField)
					r.Post("/cancel", payrollHandler.CancelEdit)
					r.Post("/save", payrollHandler.Save)
				})
			})
		})
	})

	return r
}

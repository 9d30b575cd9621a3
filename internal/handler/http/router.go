package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, authHandler AuthHandler, reportHandler ReportHandler, supervisorHandler SupervisorHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "daily-report"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", reportHandler.Submit)
				r.Get("/", reportHandler.ListByDate)

				r.Route("/{reportID}", func(r chi.Router) {
					r.Get("/", reportHandler.GetByID)
					r.Get("/approvals", reportHandler.ListApprovals)
					r.Put("/review", reportHandler.Review)
					r.Post("/recompute", reportHandler.Recompute)
				})
			})

			r.Route("/supervisor", func(r chi.Router) {
				r.Get("/status", supervisorHandler.Status)
				r.Get("/subordinates", supervisorHandler.Subordinates)
				r.Get("/pending", supervisorHandler.PendingApprovals)
				r.Get("/employees/{employeeID}", supervisorHandler.Subordinate)
			})
		})
	})
	return r
}

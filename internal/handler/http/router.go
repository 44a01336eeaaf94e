package http

import (
	"log/slog"
	"os"

	"github.com/clockwise-hq/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	adminHandler AdminHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
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
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employee", func(r chi.Router) {
				r.Get("/me/day", attendanceHandler.MyDay)
				r.Post("/checkin", attendanceHandler.CheckIn)
				r.Post("/checkout", attendanceHandler.CheckOut)
				r.Post("/lunch/start", attendanceHandler.StartLunch)
				r.Post("/lunch/end", attendanceHandler.EndLunch)
				r.Post("/mini/start", attendanceHandler.StartMiniBreak)
				r.Post("/mini/end", attendanceHandler.EndMiniBreak)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", adminHandler.ListEmployees)
					r.Post("/", adminHandler.CreateEmployee)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", adminHandler.GetEmployee)
						r.Put("/", adminHandler.UpdateEmployee)
						r.Delete("/", adminHandler.DeleteEmployee)
						r.Post("/reset-secret", adminHandler.ResetSecret)
						r.Get("/timeline", adminHandler.Timeline)
						r.Get("/aggregate", adminHandler.Aggregate)
					})
				})

				r.Get("/live", adminHandler.Live)
				r.Get("/report.csv", adminHandler.ReportCSV)
				r.Post("/auto-rules/run", adminHandler.RunAutoRules)
			})
		})
	})

	return r
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lichviet/amlich-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/convert?from=&to=
//	GET    /api/v1/convert/today
//	GET    /api/v1/convert/{date}
//	GET    /api/v1/reverse?year=&month=&day=&leap=
//	GET    /api/v1/years/{year}
//	GET    /api/v1/years/{year}/festivals
//	GET    /api/v1/festivals
//	POST   /api/v1/festivals            (API key)
//	PUT    /api/v1/festivals/{id}       (API key)
//	DELETE /api/v1/festivals/{id}       (API key)
//	GET    /api/v1/calendar.ics?from=&to=
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	// API-key guard for the mutating festival routes
	auth := AuthMiddleware(cfg, logger)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/convert", handlers.ConvertRange)
		r.Get("/convert/today", handlers.ConvertToday)
		r.Get("/convert/{date}", handlers.ConvertDate)
		r.Get("/reverse", handlers.Reverse)

		r.Get("/years/{year}", handlers.GetYear)
		r.Get("/years/{year}/festivals", handlers.GetYearFestivals)

		r.Get("/festivals", handlers.ListFestivals)
		r.With(auth).Post("/festivals", handlers.CreateFestival)
		r.With(auth).Put("/festivals/{id}", handlers.UpdateFestival)
		r.With(auth).Delete("/festivals/{id}", handlers.DeleteFestival)

		r.Get("/calendar.ics", handlers.CalendarFeed)
	})

	return r
}

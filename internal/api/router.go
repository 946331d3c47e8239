package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/reelscribe/backend/internal/api/handlers"
	"github.com/reelscribe/backend/internal/api/middleware"
	"github.com/reelscribe/backend/internal/auth"
	"github.com/reelscribe/backend/internal/config"
	"github.com/reelscribe/backend/internal/db"
	"github.com/reelscribe/backend/internal/pipeline"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, pipe *pipeline.Pipeline, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	// Handlers
	tokenHandler := handlers.NewTokenHandler(database, jwtService)
	processHandler := handlers.NewProcessHandler(pipe, database)
	runsHandler := handlers.NewRunsHandler(database, cfg.DataPath)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", handlers.Health)
		r.With(rateLimiter.Handler, middleware.MaxBodySize(1<<16)).Post("/auth/token", tokenHandler.Token)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))
			r.Use(rateLimiter.Handler)
			r.Use(middleware.MaxBodySize(1 << 20))

			r.Post("/process-url", processHandler.ProcessURL)
			r.Get("/runs", runsHandler.ListRuns)
			r.Get("/runs/{id}/artifacts", runsHandler.GetArtifacts)
		})
	})

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csjayzz/medlink-er-coordination/internal/api/alerts"
	"github.com/csjayzz/medlink-er-coordination/internal/api/auth"
	"github.com/csjayzz/medlink-er-coordination/internal/api/middleware"
	scribeapi "github.com/csjayzz/medlink-er-coordination/internal/api/scribe"
	"github.com/csjayzz/medlink-er-coordination/internal/models"
	"github.com/csjayzz/medlink-er-coordination/pkg/config"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, ErrMethodNotAllowed)
	})

	jwtService := auth.NewJWTService(s.config.JWTSecret, s.config.TokenTTL)

	// Global middleware
	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMiddleware)
	r.Use(middleware.Recoverer)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			authHandler := auth.NewHandler(jwtService, auth.NewDirectory(), s.sessions)

			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(jwtService))
				r.Post("/logout", authHandler.Logout)
				r.Get("/profile", authHandler.Profile)
			})
		})

		// Alert routes (protected)
		r.Route("/alerts", func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))

			alertHandler := alerts.NewHandler(s.board, s.config.StreamMaxDuration)

			// Medic endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleMedic))
				r.Get("/", alertHandler.List)
				r.Post("/", alertHandler.Create)
				r.Patch("/{id}", alertHandler.Update)
			})

			// Hospital endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleHospital))
				r.Get("/queue", alertHandler.Queue)
				r.Get("/board", alertHandler.Board)
				r.Get("/stream", alertHandler.Stream)
				r.Put("/{id}/status", alertHandler.SetStatus)
			})

			// Either role
			r.Get("/{id}", alertHandler.Get)
		})

		// Scribe routes (medic only)
		r.Route("/scribe", func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))
			r.Use(middleware.RequireRole(models.RoleMedic))

			scribeHandler := scribeapi.NewHandler(s.scribe, s.board)

			r.Get("/draft", scribeHandler.Draft)
			r.Delete("/draft", scribeHandler.Reset)
			r.Post("/observe", scribeHandler.Observe)
			r.Post("/commit", scribeHandler.Commit)
			r.Get("/stream", scribeHandler.Session)
		})
	})

	// Health checks and build info (public)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/health/live", s.healthHandler.Live)
	r.Get("/health/ready", s.healthHandler.Ready)
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		OK(w, config.GetBuildInfo())
	})

	return r
}

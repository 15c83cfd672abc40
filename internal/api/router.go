package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Token issuance (no auth required, rate limited)
		r.With(s.rateLimitMiddleware).Post("/auth/token", s.handleIssueToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/session", s.handleGetSession)
			r.Delete("/auth/session", s.handleDeleteSession)

			// Project endpoints
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Post("/", s.handleCreateProject)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", s.handleGetProject)
					r.Patch("/", s.handleUpdateProject)
					r.Delete("/", s.handleDeleteProject)

					r.Get("/tasks", s.handleListTasks)
					r.Post("/tasks", s.handleCreateTask)
				})
			})

			// Task endpoints (flat lookup once the ID is known)
			r.Route("/tasks/{taskID}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Patch("/", s.handleUpdateTask)
				r.Delete("/", s.handleDeleteTask)
			})
		})
	})

	return r
}

// routePattern returns the chi route pattern matched for the request,
// falling back to the raw path before routing has happened. Patterns
// keep metric tag cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

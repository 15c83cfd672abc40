package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the database ping inside the health handler.
const healthCheckTimeout = 2 * time.Second

// handleHealth returns the server health status, including a database
// reachability check. Unauthenticated so load balancers can probe it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.db.HealthCheck(ctx); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
			s.logger.Warn("health check: database unreachable", "error", err)
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":   status,
		"version":  s.version,
		"database": dbStatus,
		"sessions": s.registry.Len(),
	})
}

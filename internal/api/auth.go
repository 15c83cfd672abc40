package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck-core/internal/auth"
)

// issueTokenRequest is the request body for POST /auth/token.
type issueTokenRequest struct {
	DeviceID string `json:"deviceId"`
}

// issueTokenResponse wraps the issued token in the issuance envelope.
type issueTokenResponse struct {
	Success bool              `json:"success"`
	Data    *auth.IssuedToken `json:"data"`
}

// sessionResponse is the body for GET /auth/session.
type sessionResponse struct {
	DeviceID  string `json:"deviceId"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
	Current   bool   `json:"current"`
}

// handleIssueToken authenticates a device and returns a signed token.
// The only credential is the device identifier itself; possession of a
// network path to this endpoint is the trust boundary, which is why
// issuance is rate limited per IP.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	issued, err := s.issuer.Issue(req.DeviceID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidDeviceID):
			writeBadRequest(w, "deviceId must be a non-empty string")
		case errors.Is(err, auth.ErrMissingSecret):
			s.logger.Error("token issuance unavailable", "error", err)
			writeInternalError(w, "token issuance unavailable")
		default:
			s.logger.Error("token issuance failed", "error", err)
			writeInternalError(w, "failed to issue token")
		}
		return
	}

	s.logger.Info("token issued", "device_id", issued.DeviceID, "expires_in", issued.ExpiresIn)
	if s.metrics != nil {
		s.metrics.WriteAuthMetric("issued", issued.DeviceID)
	}

	writeJSON(w, http.StatusCreated, issueTokenResponse{Success: true, Data: issued})
}

// handleGetSession returns the calling device's registry entry.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	deviceID := auth.DeviceIDFromContext(r.Context())
	if deviceID == "" {
		writeUnauthorized(w, "authentication token required")
		return
	}

	session, ok := s.registry.Lookup(deviceID)
	if !ok {
		writeNotFound(w, "no active session for device")
		return
	}

	token, _ := auth.ExtractBearer(r.Header.Get("Authorization"))
	writeJSON(w, http.StatusOK, sessionResponse{
		DeviceID:  session.DeviceID,
		IssuedAt:  session.IssuedAt.Unix(),
		ExpiresAt: session.ExpiresAt().Unix(),
		Current:   s.registry.IsCurrentToken(deviceID, token),
	})
}

// handleDeleteSession revokes the calling device's registry entry. The
// presented token keeps verifying until it expires; only the session
// view disappears.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	deviceID := auth.DeviceIDFromContext(r.Context())
	if deviceID == "" {
		writeUnauthorized(w, "authentication token required")
		return
	}

	s.registry.Revoke(deviceID)
	s.logger.Info("session revoked", "device_id", deviceID)
	writeJSON(w, http.StatusOK, map[string]any{"revoked": true})
}

// sweepInterval is how often expired sessions are removed from the
// registry.
const sweepInterval = 5 * time.Minute

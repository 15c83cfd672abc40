package auth

import (
	"sync"
	"time"
)

// Registry tracks the most recent session per device. It is an
// in-memory map guarded by a mutex; sessions do not survive a restart,
// which is acceptable because clients re-authenticate on 401.
//
// Construct one with NewRegistry and inject it wherever session state
// is needed. There is no package-level instance.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Issue records a session for its device, replacing any existing one.
// The previous token is not invalidated cryptographically; it simply
// stops being the device's current session.
func (r *Registry) Issue(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.DeviceID] = s
}

// Lookup returns the device's current session, if any.
func (r *Registry) Lookup(deviceID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[deviceID]
	return s, ok
}

// Revoke removes the device's session. Revoking an unknown device is a
// no-op.
func (r *Registry) Revoke(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, deviceID)
}

// IsCurrentToken reports whether the token is the one most recently
// issued to the device. Superseded and revoked tokens return false
// even when their signatures still verify.
func (r *Registry) IsCurrentToken(deviceID, token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[deviceID]
	return ok && s.Token == token
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepExpired removes sessions whose tokens expired before now and
// returns how many were dropped. The server runs this periodically so
// abandoned devices do not accumulate.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

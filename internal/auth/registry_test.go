package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func testSession(deviceID, token string, ttl time.Duration) Session {
	return Session{
		DeviceID:  deviceID,
		Token:     token,
		IssuedAt:  time.Now(),
		ExpiresIn: ttl,
	}
}

func TestRegistry_IssueAndLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("dev-a"); ok {
		t.Error("Lookup() on empty registry should miss")
	}

	r.Issue(testSession("dev-a", "token-1", time.Hour))

	s, ok := r.Lookup("dev-a")
	if !ok {
		t.Fatal("Lookup() should find issued session")
	}
	if s.Token != "token-1" {
		t.Errorf("Token = %q, want %q", s.Token, "token-1")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_IssueSupersedes(t *testing.T) {
	r := NewRegistry()

	r.Issue(testSession("dev-a", "token-old", time.Hour))
	r.Issue(testSession("dev-a", "token-new", time.Hour))

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after re-issue", r.Len())
	}
	if !r.IsCurrentToken("dev-a", "token-new") {
		t.Error("new token should be current")
	}
	if r.IsCurrentToken("dev-a", "token-old") {
		t.Error("superseded token should not be current")
	}
}

func TestRegistry_Revoke(t *testing.T) {
	r := NewRegistry()
	r.Issue(testSession("dev-a", "token-1", time.Hour))

	r.Revoke("dev-a")
	if _, ok := r.Lookup("dev-a"); ok {
		t.Error("Lookup() after Revoke() should miss")
	}

	// Revoking again, or revoking an unknown device, is a no-op.
	r.Revoke("dev-a")
	r.Revoke("dev-never-seen")
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistry_IsCurrentToken_UnknownDevice(t *testing.T) {
	r := NewRegistry()
	if r.IsCurrentToken("dev-a", "token-1") {
		t.Error("IsCurrentToken() should be false for unknown device")
	}
}

func TestRegistry_SweepExpired(t *testing.T) {
	r := NewRegistry()
	r.Issue(testSession("dev-live", "token-1", time.Hour))
	r.Issue(testSession("dev-dead", "token-2", -time.Minute))
	r.Issue(testSession("dev-dead-2", "token-3", -time.Hour))

	removed := r.SweepExpired(time.Now())
	if removed != 2 {
		t.Errorf("SweepExpired() = %d, want 2", removed)
	}
	if _, ok := r.Lookup("dev-live"); !ok {
		t.Error("live session should survive the sweep")
	}
	if _, ok := r.Lookup("dev-dead"); ok {
		t.Error("expired session should be swept")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("dev-%d", n%8)
			r.Issue(testSession(id, fmt.Sprintf("token-%d", n), time.Hour))
			r.Lookup(id)
			r.IsCurrentToken(id, "token-0")
			if n%4 == 0 {
				r.Revoke(id)
			}
		}(i)
	}
	wg.Wait()

	// No assertion beyond not racing; -race does the real work here.
	r.SweepExpired(time.Now())
}

package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter tracks a token bucket per client IP. Entries idle past
// limiterIdleTTL are pruned periodically so one-off clients do not
// accumulate.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
	limit    rate.Limit
	burst    int
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterIdleTTL is how long an IP's bucket survives without traffic.
const limiterIdleTTL = 10 * time.Minute

// newIPLimiter creates a limiter allowing requests/window per IP.
func newIPLimiter(requests int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*ipLimiterEntry),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
	}
}

// Allow reports whether the IP may proceed.
func (l *ipLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// prune drops buckets that have been idle longer than limiterIdleTTL.
func (l *ipLimiter) prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
}

// pruneLoop runs prune periodically until the context is cancelled.
func (s *Server) pruneLimiterLoop(ctx context.Context) {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.issueLimiter.prune(now)
		}
	}
}

// rateLimitMiddleware throttles token issuance per client IP.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.issueLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		if !s.issueLimiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, ErrCodeRateLimited,
				"too many token requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address without the port. Falls back to
// the raw RemoteAddr when it does not parse.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

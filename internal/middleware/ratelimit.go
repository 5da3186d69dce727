package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// WindowLimiter is a shared limiter keyed by client, such as the Redis-backed one.
type WindowLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware applies a per-IP token bucket to every request and a
// stricter one to the credential endpoints. When a shared limiter is set the
// credential bucket lives there so all replicas count together.
type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	shared     WindowLimiter
	authPaths  []string
	mu         sync.Mutex
	clients    map[string]*clientLimiter
}

func NewRateLimitMiddleware(generalRPM int, authRPM int, shared WindowLimiter) *RateLimitMiddleware {
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		shared:     shared,
		authPaths: []string{
			"/api/v1/users/login",
			"/api/v1/users/register",
			"/api/v1/users/refresh-token",
			"/api/v1/users/change-password",
		},
		clients: map[string]*clientLimiter{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		limiter := m.getLimiter(clientIP)

		if m.isAuthPath(r.URL.Path) {
			if allowed, retryAfter := m.allowAuth(r.Context(), limiter, clientIP); !allowed {
				writeRateLimited(w, retryAfter)
				return
			}
		} else if limiter.general != nil && !limiter.general.Allow() {
			writeRateLimited(w, time.Minute)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) allowAuth(ctx context.Context, limiter *clientLimiter, clientIP string) (bool, time.Duration) {
	if m.shared != nil {
		allowed, retryAfter, err := m.shared.Allow(ctx, "auth:"+clientIP)
		if err == nil {
			return allowed, retryAfter
		}
		slog.Warn("shared rate limiter unavailable, using local limiter", "error", err)
	}

	return limiter.auth.Allow(), time.Minute
}

func (m *RateLimitMiddleware) isAuthPath(path string) bool {
	path = strings.ToLower(strings.TrimSuffix(path, "/"))
	for _, prefix := range m.authPaths {
		if path == prefix {
			return true
		}
	}
	return false
}

func (m *RateLimitMiddleware) getLimiter(clientIP string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, exists := m.clients[clientIP]; exists {
		limiter.lastSeen = time.Now()
		m.gcLocked()
		return limiter
	}

	// A non-positive general RPM disables the general bucket.
	var general *rate.Limiter
	if m.generalRPM > 0 {
		general = rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.generalRPM)), m.generalRPM)
	}
	auth := rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.authRPM)), m.authRPM)
	created := &clientLimiter{general: general, auth: auth, lastSeen: time.Now()}
	m.clients[clientIP] = created
	m.gcLocked()

	return created
}

func (m *RateLimitMiddleware) gcLocked() {
	if len(m.clients) < 1000 {
		return
	}

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	writeErrorEnvelope(w, http.StatusTooManyRequests, "too many requests")
}

func extractClientIP(r *http.Request) string {
	forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	realIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	if strings.TrimSpace(r.RemoteAddr) == "" {
		return "unknown"
	}

	return r.RemoteAddr
}

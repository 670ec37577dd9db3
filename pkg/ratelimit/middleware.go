package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/simple-crm/pkg/controller"
	apperrors "github.com/tendant/simple-crm/pkg/errors"
)

// Config holds rate limiting configuration
type Config struct {
	Enabled    bool
	Capacity   int     // Max burst per client
	RefillRate float64 // Requests per second per client

	// BucketTTL is how long an idle client's bucket is kept
	BucketTTL time.Duration

	// IncludeHeaders adds X-RateLimit-Limit and X-RateLimit-Remaining to responses
	IncludeHeaders bool

	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP instead of the peer
	// address. Only safe behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// DefaultConfig allows 10 sign-in attempts per minute per client
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Capacity:       10,
		RefillRate:     10.0 / 60.0,
		BucketTTL:      time.Hour,
		IncludeHeaders: true,
	}
}

// Middleware limits requests per client IP
type Middleware struct {
	config  Config
	limiter *Limiter
}

// NewMiddleware creates a new rate limiting middleware
func NewMiddleware(config Config) *Middleware {
	return &Middleware{
		config:  config,
		limiter: NewLimiter(config.Capacity, config.RefillRate, config.BucketTTL),
	}
}

// Limiter exposes the underlying limiter so its sweeper can be started
func (m *Middleware) Limiter() *Limiter {
	return m.limiter
}

// Handler returns the rate limiting middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if !m.config.Enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := m.clientIP(r)
		d := m.limiter.Take(ip)

		if m.config.IncludeHeaders {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		}

		if !d.Allowed {
			retryAfter := strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds())))
			slog.Warn("Rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path,
				"method", r.Method,
				"retryAfter", retryAfter,
			)
			w.Header().Set("Retry-After", retryAfter)
			controller.WriteError(w, r, apperrors.RateLimitExceeded(retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP address from the request
func (m *Middleware) clientIP(r *http.Request) string {
	if m.config.TrustProxyHeaders {
		// X-Forwarded-For can contain multiple IPs, the first is the client
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

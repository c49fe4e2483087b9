package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"readq/internal/logging"
)

const (
	requestIDHeader  = "X-Request-ID"
	identityKey      = "readq.identity"
	limiterIdleAfter = time.Hour
	limiterSweepGap  = 5 * time.Minute
)

// requestLogger tags each request with a correlation ID and logs it once
// it completes.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logging.WithCorrelationID(c.Request.Context(), c.GetHeader(requestIDHeader))
		c.Request = c.Request.WithContext(ctx)
		if id, ok := logging.CorrelationID(ctx); ok {
			c.Header(requestIDHeader, id)
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logging.WithContext(ctx, logger).LogAttrs(ctx, level, "request", attrs...)
	}
}

// bearerAuth requires "Authorization: Bearer <token>". An empty token
// disables authentication.
func bearerAuth(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abortWith(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing bearer token")
			return
		}
		if strings.TrimPrefix(auth, "Bearer ") != token {
			abortWith(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid bearer token")
			return
		}
		c.Set(identityKey, "token")
		c.Next()
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func (s *limiterSet) get(identity string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > limiterSweepGap {
		cutoff := now.Add(-limiterIdleAfter)
		for id, entry := range s.entries {
			if entry.lastSeen.Before(cutoff) {
				delete(s.entries, id)
			}
		}
		s.lastSweep = now
	}

	entry, ok := s.entries[identity]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.entries[identity] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// rateLimit applies a token bucket per client, keyed by authenticated
// identity or client IP. Idle buckets are dropped on later requests.
func rateLimit(rps float64, burst int) gin.HandlerFunc {
	set := &limiterSet{
		rps:       rate.Limit(rps),
		burst:     burst,
		entries:   make(map[string]*limiterEntry),
		lastSweep: time.Now(),
	}
	return func(c *gin.Context) {
		identity := c.GetString(identityKey)
		if identity == "" {
			identity = c.ClientIP()
		}
		if !set.get(identity, time.Now()).Allow() {
			abortWith(c, http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded, please slow down")
			return
		}
		c.Next()
	}
}

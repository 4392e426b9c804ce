package middleware

import (
	"net/http"
	"sync"
	"time"

	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedCallers bounds the limiter map. Eviction is per entry; one
// caller's history is never discarded because of another caller's traffic,
// except for the single least recently seen entry when the map is full of
// active callers.
const maxTrackedCallers = 10000

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles authentication attempts per caller. With
// maxAttempts=5 and window=15m a caller gets a burst of 5 attempts; spent
// attempts regenerate evenly across the window, so a full window with no
// traffic restores the full allowance without double-counting old attempts.
type LoginRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	window  time.Duration
}

// NewLoginRateLimiter creates a limiter allowing maxAttempts per window per key.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &LoginRateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Every(window / time.Duration(maxAttempts)),
		burst:   maxAttempts,
		window:  window,
	}
}

// Allow reports whether the caller identified by key may make another attempt.
func (l *LoginRateLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	entry, exists := l.entries[key]
	if !exists {
		if len(l.entries) >= maxTrackedCallers {
			l.evict(now)
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.Allow()
}

// evict drops entries idle for a full window; their allowance has fully
// regenerated, so removing them changes no outcome. When every entry is
// still active it falls back to dropping only the least recently seen one.
// Callers must hold l.mu.
func (l *LoginRateLimiter) evict(now time.Time) {
	var oldestKey string
	var oldestSeen time.Time
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) >= l.window {
			delete(l.entries, key)
			continue
		}
		if oldestKey == "" || entry.lastSeen.Before(oldestSeen) {
			oldestKey, oldestSeen = key, entry.lastSeen
		}
	}
	if len(l.entries) >= maxTrackedCallers && oldestKey != "" {
		delete(l.entries, oldestKey)
	}
}

// Middleware rejects over-limit callers with a TOO_MANY_ATTEMPTS error that
// is distinguishable from an invalid-credential rejection.
func (l *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			utils.LogWarn("Login rate limit exceeded", map[string]interface{}{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusTooManyRequests, utils.ErrCodeTooManyAttempts,
				"Too many login attempts, please try again later", ""))
			return
		}
		c.Next()
	}
}

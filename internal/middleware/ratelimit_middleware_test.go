package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimiterAllowsBurstThenDenies(t *testing.T) {
	limiter := NewLoginRateLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "attempt %d should pass", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"), "sixth attempt should be denied")
}

func TestLoginRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewLoginRateLimiter(2, 15*time.Minute)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// A different caller still has its full allowance.
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestLoginRateLimiterRecoversAfterWindow(t *testing.T) {
	// A tiny window keeps the test fast; one attempt regenerates per 20ms.
	limiter := NewLoginRateLimiter(2, 40*time.Millisecond)

	assert.True(t, limiter.Allow("k"))
	assert.True(t, limiter.Allow("k"))
	assert.False(t, limiter.Allow("k"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, limiter.Allow("k"))
}

func TestLoginRateLimiterEvictionSparesActiveCallers(t *testing.T) {
	limiter := NewLoginRateLimiter(1, 15*time.Minute)

	// Exhaust two callers, then fill the map to capacity with other keys.
	assert.True(t, limiter.Allow("first-denied"))
	assert.False(t, limiter.Allow("first-denied"))
	time.Sleep(time.Millisecond) // strict lastSeen ordering between the two
	assert.True(t, limiter.Allow("second-denied"))
	assert.False(t, limiter.Allow("second-denied"))

	for i := len(limiter.entries); i < maxTrackedCallers; i++ {
		limiter.Allow(fmt.Sprintf("filler-%d", i))
	}

	// A new caller forces an eviction. Only the least recently seen entry
	// may go; the other exhausted caller keeps its spent allowance.
	assert.True(t, limiter.Allow("newcomer"))
	assert.False(t, limiter.Allow("second-denied"), "eviction must not restore an active caller's allowance")
}

func TestLoginRateLimiterMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewLoginRateLimiter(1, 15*time.Minute)

	engine := gin.New()
	engine.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), utils.ErrCodeTooManyAttempts)
}

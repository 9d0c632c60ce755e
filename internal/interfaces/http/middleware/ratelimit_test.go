package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Run("allows up to limit within window", func(t *testing.T) {
		rl := NewRateLimiter(2, time.Minute)

		assert.True(t, rl.Allow("client-a"))
		assert.True(t, rl.Allow("client-a"))
		assert.False(t, rl.Allow("client-a"))
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)

		assert.True(t, rl.Allow("client-a"))
		assert.True(t, rl.Allow("client-b"))
		assert.False(t, rl.Allow("client-a"))
	})

	t.Run("resets after window passes", func(t *testing.T) {
		rl := NewRateLimiter(1, 10*time.Millisecond)

		assert.True(t, rl.Allow("client-a"))
		assert.False(t, rl.Allow("client-a"))

		time.Sleep(20 * time.Millisecond)
		assert.True(t, rl.Allow("client-a"))
	})
}

func TestRateLimiterRemaining(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.Equal(t, 3, rl.Remaining("client-a"))
	rl.Allow("client-a")
	assert.Equal(t, 2, rl.Remaining("client-a"))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(limiter *RateLimiter) *gin.Engine {
		engine := gin.New()
		engine.Use(RateLimit(limiter))
		engine.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return engine
	}

	t.Run("sets rate limit headers on allowed requests", func(t *testing.T) {
		engine := newEngine(NewRateLimiter(5, time.Minute))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejects requests over the limit", func(t *testing.T) {
		engine := newEngine(NewRateLimiter(1, time.Minute))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("keys requests by tenant header", func(t *testing.T) {
		engine := newEngine(NewRateLimiter(1, time.Minute))

		first := httptest.NewRequest(http.MethodGet, "/test", nil)
		first.Header.Set(TenantHeaderKey, "7f9c24e8-3b2a-4f16-9d6e-8a5b3c2d1e0f")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		second := httptest.NewRequest(http.MethodGet, "/test", nil)
		second.Header.Set(TenantHeaderKey, "11111111-2222-3333-4444-555555555555")
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, second)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

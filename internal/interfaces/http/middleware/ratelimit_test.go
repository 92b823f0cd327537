package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/partnerpro/product-manager/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func newTestRateLimiter(limit int, period time.Duration) (*RateLimiter, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(limit, period)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit per window", func(t *testing.T) {
		rl, now := newTestRateLimiter(3, time.Minute)

		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.Equal(t, 0, rl.Remaining("a"))

		*now = now.Add(time.Minute)
		assert.Equal(t, 3, rl.Remaining("a"))
		assert.True(t, rl.Allow("a"))
		assert.Equal(t, 2, rl.Remaining("a"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl, _ := newTestRateLimiter(1, time.Minute)

		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
	})

	t.Run("idle keys are evicted", func(t *testing.T) {
		rl, now := newTestRateLimiter(1, time.Minute)
		rl.Allow("a")

		*now = now.Add(3 * time.Minute)
		rl.evictIdle()

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Empty(t, rl.clients)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestRateLimiter(2, time.Minute)
	router := gin.New()
	router.Use(RequestID(), RateLimit(rl))
	router.POST("/api/ai/chat", okHandler)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), dto.ErrCodeRateLimited)
}

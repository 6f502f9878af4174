package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows the burst then blocks", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("a"), "request %d", i+1)
		}
		assert.False(t, rl.Allow("a"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
	})

	t.Run("refills over time", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		rl := NewRateLimiter(2, time.Minute)
		rl.now = func() time.Time { return now }

		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))

		now = now.Add(30 * time.Second)
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
	})

	t.Run("sweeps idle buckets", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		rl := NewRateLimiter(1, time.Minute)
		rl.now = func() time.Time { return now }
		rl.Allow("old")

		now = now.Add(3 * time.Minute)
		rl.Allow("new")
		assert.Len(t, rl.buckets, 1)
	})

	t.Run("concurrent use stays within the burst", func(t *testing.T) {
		rl := NewRateLimiter(50, time.Hour)
		var allowed atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 120; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow("shared") {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 50, allowed.Load())
	})
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RateLimitByIP(NewRateLimiter(1, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), `"ERR_RATE_LIMITED"`)
}

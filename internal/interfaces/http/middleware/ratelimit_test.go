package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter on a manual clock. Advance the clock
// through the returned function; the eviction goroutine is stopped on
// cleanup.
func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, func(time.Duration)) {
	t.Helper()
	rl := NewRateLimiter(limit, window)
	t.Cleanup(rl.Stop)

	var mu sync.Mutex
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		current = current.Add(d)
		mu.Unlock()
	}
	return rl, advance
}

func TestRateLimiter_StopEndsEviction(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		rl.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not release the eviction goroutine")
	}
}

func TestRateLimiter_ExhaustsWindow(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("investor-a"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("investor-a"))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl, advance := newTestLimiter(t, 2, time.Minute)

	assert.True(t, rl.Allow("investor-a"))
	assert.True(t, rl.Allow("investor-a"))
	assert.False(t, rl.Allow("investor-a"))

	advance(time.Minute)
	assert.True(t, rl.Allow("investor-a"))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	assert.True(t, rl.Allow("investor-a"))
	assert.False(t, rl.Allow("investor-a"))
	assert.True(t, rl.Allow("investor-b"))
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl, advance := newTestLimiter(t, 5, time.Minute)

	assert.Equal(t, 5, rl.Remaining("investor-a"))

	rl.Allow("investor-a")
	rl.Allow("investor-a")
	assert.Equal(t, 3, rl.Remaining("investor-a"))

	// Remaining is a read, not a take.
	assert.Equal(t, 3, rl.Remaining("investor-a"))

	advance(time.Minute)
	assert.Equal(t, 5, rl.Remaining("investor-a"))
}

func TestRateLimiter_ConcurrentTakesNeverOversell(t *testing.T) {
	rl, _ := newTestLimiter(t, 50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared-key") {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, granted)
}

func newRateLimitEngine(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	for _, mw := range pre {
		engine.Use(mw)
	}
	engine.Use(RateLimit(rl))
	engine.GET("/api/v1/projects", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"projects": []string{}})
	})
	return engine
}

func TestRateLimit_HeadersAndRejection(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)
	engine := newRateLimitEngine(rl)

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := httptest.NewRecorder()
	engine.ServeHTTP(third, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Contains(t, third.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimit_AuthenticatedCallersGetOwnBudget(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	asMember := func(id string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(JWTMemberIDKey, id)
			c.Next()
		}
	}

	// Same IP, different members: separate buckets.
	engineA := newRateLimitEngine(rl, asMember("member-a"))
	engineB := newRateLimitEngine(rl, asMember("member-b"))

	recA := httptest.NewRecorder()
	engineA.ServeHTTP(recA, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusOK, recA.Code)

	recA2 := httptest.NewRecorder()
	engineA.ServeHTTP(recA2, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusTooManyRequests, recA2.Code)

	recB := httptest.NewRecorder()
	engineB.ServeHTTP(recB, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusOK, recB.Code)
}

func TestRateLimitByKey_CustomExtractor(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimitByKey(rl, func(c *gin.Context) string {
		return c.GetHeader("X-API-Key")
	}))
	engine.GET("/api/v1/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	keyed := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.Header.Set("X-API-Key", key)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, keyed("key-1").Code)
	assert.Equal(t, http.StatusTooManyRequests, keyed("key-1").Code)
	assert.Equal(t, http.StatusOK, keyed("key-2").Code)
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	t.Cleanup(rl.Stop)

	rl.Allow("short-lived")

	assert.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		_, ok := rl.buckets["short-lived"]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedHandler(cfg RateLimitConfig) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(cfg)(next)
}

func TestRateLimit_AllowsUpToMax(t *testing.T) {
	h := rateLimitedHandler(RateLimitConfig{Max: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimit_Headers(t *testing.T) {
	h := rateLimitedHandler(RateLimitConfig{Max: 10, Window: time.Minute})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_SeparateClients(t *testing.T) {
	h := rateLimitedHandler(RateLimitConfig{Max: 1, Window: time.Minute})

	a := httptest.NewRequest(http.MethodGet, "/", nil)
	a.RemoteAddr = "10.0.0.1:1234"
	b := httptest.NewRequest(http.MethodGet, "/", nil)
	b.RemoteAddr = "10.0.0.2:1234"

	wa := httptest.NewRecorder()
	h.ServeHTTP(wa, a)
	require.Equal(t, http.StatusOK, wa.Code)

	wb := httptest.NewRecorder()
	h.ServeHTTP(wb, b)
	assert.Equal(t, http.StatusOK, wb.Code, "second client must have its own budget")

	wa2 := httptest.NewRecorder()
	h.ServeHTTP(wa2, a)
	assert.Equal(t, http.StatusTooManyRequests, wa2.Code)
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	h := rateLimitedHandler(RateLimitConfig{Max: 1, Window: time.Minute})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Same forwarded client, different socket: still the same budget.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.9.9.9:5555"
	req2.Header.Set("X-Forwarded-For", "203.0.113.7")

	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestLimiter_SlidingWindow(t *testing.T) {
	l := newLimiter(RateLimitConfig{Max: 2, Window: time.Minute})
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, _, ok := l.take("k", start)
	require.True(t, ok)
	_, _, ok = l.take("k", start.Add(time.Second))
	require.True(t, ok)
	_, _, ok = l.take("k", start.Add(2*time.Second))
	require.False(t, ok)

	// Just past the boundary the previous window still weighs in.
	_, _, ok = l.take("k", start.Add(time.Minute+time.Second))
	assert.False(t, ok)

	// Two full windows later the budget is fresh.
	_, _, ok = l.take("k", start.Add(3*time.Minute))
	assert.True(t, ok)
}

func TestLimiter_Evict(t *testing.T) {
	l := newLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	l.take("stale", now)
	l.take("fresh", now.Add(2*time.Minute))
	l.evict(now.Add(2 * time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "stale")
	assert.Contains(t, l.clients, "fresh")
}

package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the per-client sliding window limiter.
type RateLimitConfig struct {
	// Max requests allowed per window.
	Max int
	// Window duration.
	Window time.Duration
	// KeyFunc groups requests into clients; defaults to the source IP.
	KeyFunc func(*http.Request) string
}

// client carries two adjacent counting windows. The effective rate is the
// current window's count plus the previous window's count weighted by how
// much of it still overlaps the sliding window, which smooths bursts at
// window boundaries without per-request timestamps.
type client struct {
	prev      float64
	curr      float64
	currStart time.Time
	prevStart time.Time
}

type limiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*client
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	return &limiter{cfg: cfg, clients: make(map[string]*client)}
}

func (l *limiter) take(key string, now time.Time) (remaining int, resetAt time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.clients[key]
	if c == nil {
		c = &client{currStart: now}
		l.clients[key] = c
	}

	if now.Sub(c.currStart) >= l.cfg.Window {
		c.prev, c.prevStart = c.curr, c.currStart
		c.curr = 0
		c.currStart = now.Truncate(l.cfg.Window)
		if now.Sub(c.prevStart) >= 2*l.cfg.Window {
			c.prev = 0
		}
	}

	overlap := 1 - now.Sub(c.currStart).Seconds()/l.cfg.Window.Seconds()
	if overlap < 0 {
		overlap = 0
	}
	weighted := c.prev*overlap + c.curr
	resetAt = c.currStart.Add(l.cfg.Window)

	if weighted >= float64(l.cfg.Max) {
		return 0, resetAt, false
	}

	c.curr++
	remaining = int(float64(l.cfg.Max) - weighted - 1)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetAt, true
}

// evict drops clients whose both windows are stale.
func (l *limiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.clients {
		if now.Sub(c.currStart) >= 2*l.cfg.Window {
			delete(l.clients, key)
		}
	}
}

// RateLimit enforces a per-client sliding window limit. Responses carry
// X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset; rejected
// requests get 429 with Retry-After. State grows with distinct clients and is
// never evicted; prefer RateLimitWithCleanup on long-running servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return limitWith(newLimiter(cfg))
}

// RateLimitWithCleanup is RateLimit plus a background eviction loop that
// stops when ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newLimiter(cfg)
	go func() {
		ticker := time.NewTicker(2 * l.cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.evict(now)
			}
		}
	}()
	return limitWith(l)
}

func limitWith(l *limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, ok := l.take(l.cfg.KeyFunc(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retry := math.Ceil(time.Until(resetAt).Seconds())
				if retry < 0 {
					retry = 0
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retry)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":429,"message":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address, trusting proxy headers first.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProbe(t *testing.T, w *httptest.ResponseRecorder) probeResponse {
	t.Helper()
	var resp probeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestReadyEndpoint_NotReadyByDefault(t *testing.T) {
	h := New()

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeProbe(t, w)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks, "_readiness")
}

func TestReadyEndpoint_AfterSetReady(t *testing.T) {
	h := New()
	h.SetReady(true)

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeProbe(t, w).Status)
}

func TestLiveEndpoint_HealthyByDefault(t *testing.T) {
	h := New()
	h.AddLivenessCheck("noop", time.Second, func(context.Context) error { return nil })

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeProbe(t, w).Status)
}

func TestProbe_FailureThreshold(t *testing.T) {
	p := newProbe("flaky", time.Second, func(context.Context) error {
		return errors.New("db down")
	})

	ctx := context.Background()
	p.exec(ctx)
	ok, _ := p.state()
	assert.True(t, ok, "one failure must not flip the probe")

	p.exec(ctx)
	p.exec(ctx)
	ok, err := p.state()
	assert.False(t, ok, "three consecutive failures flip the probe")
	assert.EqualError(t, err, "db down")
}

func TestProbe_RecoversOnFirstSuccess(t *testing.T) {
	healthy := false
	p := newProbe("db", time.Second, func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("db down")
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p.exec(ctx)
	}
	ok, _ := p.state()
	require.False(t, ok)

	healthy = true
	p.exec(ctx)
	ok, _ = p.state()
	assert.True(t, ok)
}

func TestProbe_Timeout(t *testing.T) {
	p := newProbe("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p.exec(ctx)
	}
	ok, err := p.state()
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsReady_FailingReadinessProbe(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("db down")
	})

	require.True(t, h.IsReady(), "probe has not failed yet")

	h.mu.RLock()
	p := h.readiness[0]
	h.mu.RUnlock()
	for i := 0; i < 3; i++ {
		p.exec(context.Background())
	}

	assert.False(t, h.IsReady())

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "db down", decodeProbe(t, w).Checks["db"])
}

func TestStartStop(t *testing.T) {
	h := New()
	ran := make(chan struct{}, 1)
	h.AddLivenessCheck("tick", time.Second, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	defer h.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("probe never ran")
	}

	h.Stop()
	h.Stop() // idempotent
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}

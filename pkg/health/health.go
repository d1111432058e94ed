// Package health serves Kubernetes-style liveness and readiness probes.
//
// Probes run on their own tickers in the background. A probe flips to
// unhealthy only after a few consecutive failures and back to healthy on the
// first success, so a single slow database ping does not bounce the pod.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc reports the health of one component: nil when healthy.
type CheckFunc func(ctx context.Context) error

const (
	failuresToUnhealthy = 3
	successesToHealthy  = 1
)

// probe is one registered check plus its run state. The ticker goroutine is
// the only writer of fails/oks; ok and err are shared with the HTTP handlers
// under mu.
type probe struct {
	name    string
	timeout time.Duration
	check   CheckFunc

	mu  sync.Mutex
	ok  bool
	err error

	fails int
	oks   int
}

func (p *probe) exec(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err := p.check(ctx)

	if err != nil {
		p.oks = 0
		p.fails++
	} else {
		p.fails = 0
		p.oks++
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	if err != nil && p.fails >= failuresToUnhealthy {
		p.ok = false
	}
	if err == nil && p.oks >= successesToHealthy {
		p.ok = true
	}
}

func (p *probe) state() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ok, p.err
}

// Health groups liveness and readiness probes for one service.
type Health struct {
	mu        sync.RWMutex
	ready     bool
	liveness  []*probe
	readiness []*probe
	cancel    context.CancelFunc
}

// New returns a Health that reports not-ready until SetReady(true).
func New() *Health {
	return &Health{}
}

func newProbe(name string, timeout time.Duration, check CheckFunc) *probe {
	// Healthy until a run proves otherwise.
	return &probe{name: name, timeout: timeout, check: check, ok: true}
}

// AddLivenessCheck registers a check for /livez: is the process itself sound
// (goroutine leaks, deadlocks).
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, newProbe(name, timeout, check))
}

// AddReadinessCheck registers a check for /readyz: can the service take
// traffic (database reachable, caches warm).
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, newProbe(name, timeout, check))
}

// Start launches one goroutine per registered probe, each running at the
// given interval until Stop or context cancellation.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := append(append([]*probe(nil), h.liveness...), h.readiness...)
	h.mu.Unlock()

	for _, p := range probes {
		go func(p *probe) {
			p.exec(ctx)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					p.exec(ctx)
				}
			}
		}(p)
	}
}

// Stop halts all probe goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate: true after startup completes,
// false when draining for shutdown.
func (h *Health) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// IsReady reports whether the gate is open and every readiness probe passes.
func (h *Health) IsReady() bool {
	h.mu.RLock()
	ready, probes := h.ready, h.readiness
	h.mu.RUnlock()

	if !ready {
		return false
	}
	for _, p := range probes {
		if ok, _ := p.state(); !ok {
			return false
		}
	}
	return true
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint handles /livez: 200 when all liveness probes pass, 503 with
// per-check messages otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	probes := h.liveness
	h.mu.RUnlock()

	writeProbes(w, failing(probes))
}

// ReadyEndpoint handles /readyz: 200 when the service is marked ready and all
// readiness probes pass.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	ready, probes := h.ready, h.readiness
	h.mu.RUnlock()

	fails := failing(probes)
	if !ready {
		fails["_readiness"] = "service is not ready"
	}
	writeProbes(w, fails)
}

func failing(probes []*probe) map[string]string {
	fails := make(map[string]string)
	for _, p := range probes {
		ok, err := p.state()
		if ok {
			continue
		}
		if err != nil {
			fails[p.name] = err.Error()
		} else {
			fails[p.name] = "check is unhealthy"
		}
	}
	return fails
}

func writeProbes(w http.ResponseWriter, fails map[string]string) {
	resp := probeResponse{Status: "ok"}
	code := http.StatusOK
	if len(fails) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = fails
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestLiveness(t *testing.T) {
	resp := doGet(t, "/livez")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Fatalf("liveness: expected status ok, got %q", body.Status)
	}
}

func TestReadiness_ReflectsDatabase(t *testing.T) {
	resp := doGet(t, "/readyz")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Fatalf("readiness: expected status ok, got %q", body.Status)
	}
	// Readiness is gated on the postgres pool ping; a healthy response
	// reports no failing checks at all.
	if len(body.Checks) != 0 {
		t.Fatalf("expected no failing checks, got %v", body.Checks)
	}
}

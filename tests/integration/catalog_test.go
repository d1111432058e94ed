//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListPackages(t *testing.T) {
	resp := doGet(t, "/api/v1/packages")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	packages := decodeJSON[[]packageResponse](t, resp)
	if len(packages) != 4 {
		t.Fatalf("expected 4 packages, got %d", len(packages))
	}
}

func TestListPackages_FilterByDifficulty(t *testing.T) {
	resp := doGet(t, "/api/v1/packages?difficulty=DIFICIL")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	packages := decodeJSON[[]packageResponse](t, resp)
	if len(packages) != 1 {
		t.Fatalf("expected 1 DIFICIL package, got %d", len(packages))
	}
	if packages[0].Slug != "alto-mayo-expedicion" {
		t.Errorf("slug: got %q, want alto-mayo-expedicion", packages[0].Slug)
	}
}

func TestListPackages_Search(t *testing.T) {
	resp := doGet(t, "/api/v1/packages?search=laguna")
	defer resp.Body.Close()

	packages := decodeJSON[[]packageResponse](t, resp)
	if len(packages) != 1 {
		t.Fatalf("expected 1 match for 'laguna', got %d", len(packages))
	}
}

func TestGetPackageBySlug(t *testing.T) {
	resp := doGet(t, "/api/v1/packages/laguna-azul-full-day")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	pkg := decodeJSON[packageResponse](t, resp)
	if pkg.Title != "Laguna Azul - Full Day" {
		t.Errorf("title: got %q", pkg.Title)
	}
	if pkg.PriceFrom != 120 {
		t.Errorf("price_from: got %v, want 120", pkg.PriceFrom)
	}
	if pkg.Currency != "PEN" {
		t.Errorf("currency: got %q, want PEN", pkg.Currency)
	}
}

func TestGetPackage_NotFound(t *testing.T) {
	resp := doGet(t, "/api/v1/packages/no-such-tour")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != 404 {
		t.Errorf("error code: got %d, want 404", errResp.Code)
	}
}

func TestListCategories(t *testing.T) {
	resp := doGet(t, "/api/v1/categories")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	categories := decodeJSON[[]map[string]any](t, resp)
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
}

func TestSiteInfo(t *testing.T) {
	resp := doGet(t, "/api/v1/content/site-info")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	info := decodeJSON[map[string]any](t, resp)
	if info["brand_name"] != "Dorado Travel" {
		t.Errorf("brand_name: got %v", info["brand_name"])
	}
}

func TestNewsletter_DuplicateSubscription(t *testing.T) {
	body := map[string]any{"email": "dup@example.com"}

	first := doPost(t, "/api/v1/newsletter", body)
	first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first subscribe: expected 201, got %d", first.StatusCode)
	}

	second := doPost(t, "/api/v1/newsletter", body)
	defer second.Body.Close()
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("second subscribe: expected 409, got %d", second.StatusCode)
	}
}

func TestTrackVisitAndDashboard(t *testing.T) {
	resp := doPost(t, "/api/v1/visits", map[string]any{"path": "/paquetes"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("track: expected 202, got %d", resp.StatusCode)
	}

	dash := doWithAuth(t, http.MethodGet, "/api/v1/admin/dashboard", nil, testAPIKey)
	defer dash.Body.Close()
	if dash.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", dash.StatusCode)
	}

	body := decodeJSON[map[string]any](t, dash)
	views, ok := body["total_views"].(float64)
	if !ok || views < 1 {
		t.Errorf("total_views: got %v, want >= 1", body["total_views"])
	}
}

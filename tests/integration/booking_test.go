//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

const testAPIKey = "integration-test-key"

var (
	uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	codePattern = regexp.MustCompile(`^[0-9a-f]{16}$`)
)

func seededPackage(t *testing.T, slug string) packageResponse {
	t.Helper()

	resp := doGet(t, "/api/v1/packages/"+slug)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get package %s: expected 200, got %d", slug, resp.StatusCode)
	}
	return decodeJSON[packageResponse](t, resp)
}

func createCart(t *testing.T, email string) cartResponse {
	t.Helper()

	resp := doPost(t, "/api/v1/carts", map[string]any{
		"email": email,
		"phone": "+51 999 111 222",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[cartResponse](t, resp)
}

func addItem(t *testing.T, cartID, packageID string, adults, children int) addItemResult {
	t.Helper()

	resp := doPost(t, "/api/v1/carts/"+cartID+"/items", map[string]any{
		"package_id": packageID,
		"full_name":  "Ana Torres",
		"email":      "ana@example.com",
		"adults":     adults,
		"children":   children,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[addItemResult](t, resp)
}

func TestCreateCart(t *testing.T) {
	cart := createCart(t, "Carlos@Example.com")

	if !uuidPattern.MatchString(cart.ID) {
		t.Errorf("cart id %q is not a UUID", cart.ID)
	}
	if cart.Email != "carlos@example.com" {
		t.Errorf("email: got %q, want lowercased", cart.Email)
	}
	if cart.Status != "OPEN" {
		t.Errorf("status: got %q, want OPEN", cart.Status)
	}
}

func TestCreateCart_MissingEmail(t *testing.T) {
	resp := doPost(t, "/api/v1/carts", map[string]any{"phone": "123"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAddItem_CreatesPendingReservation(t *testing.T) {
	pkg := seededPackage(t, "laguna-azul-full-day")
	cart := createCart(t, "additem@example.com")

	added := addItem(t, cart.ID, pkg.ID, 2, 1)

	if added.Item.CartID != cart.ID {
		t.Errorf("item cart_id: got %q, want %q", added.Item.CartID, cart.ID)
	}
	if added.Item.UnitPrice != pkg.PriceFrom {
		t.Errorf("unit_price: got %v, want %v", added.Item.UnitPrice, pkg.PriceFrom)
	}
	if added.Reservation.Status != "PENDIENTE" {
		t.Errorf("reservation status: got %q, want PENDIENTE", added.Reservation.Status)
	}
	if added.Reservation.TotalAmount != nil {
		t.Errorf("total_amount: got %v, want null until payment", *added.Reservation.TotalAmount)
	}
	if !codePattern.MatchString(added.Reservation.PublicCode) {
		t.Errorf("public_code %q is not a 16-hex code", added.Reservation.PublicCode)
	}
}

func TestAddItem_UnknownPackage(t *testing.T) {
	cart := createCart(t, "unknownpkg@example.com")

	resp := doPost(t, "/api/v1/carts/"+cart.ID+"/items", map[string]any{
		"package_id": "99999999-9999-9999-9999-999999999999",
		"full_name":  "Ana Torres",
		"email":      "ana@example.com",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAddItem_CurrencyCarriedFromCatalog(t *testing.T) {
	pkg := seededPackage(t, "cataratas-ahuashiyacu")
	cart := createCart(t, "currency@example.com")

	added := addItem(t, cart.ID, pkg.ID, 1, 0)
	if added.Item.Currency != "PEN" {
		t.Errorf("currency: got %q, want PEN", added.Item.Currency)
	}
	if added.Reservation.Currency != "PEN" {
		t.Errorf("reservation currency: got %q, want PEN", added.Reservation.Currency)
	}
}

func TestRemoveItem_CancelsReservation(t *testing.T) {
	pkg := seededPackage(t, "lamas-castillo-comunidad")
	cart := createCart(t, "removeitem@example.com")
	added := addItem(t, cart.ID, pkg.ID, 1, 0)

	resp := doDelete(t, "/api/v1/carts/"+cart.ID+"/items/"+added.Item.ID)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("remove item: expected 204, got %d", resp.StatusCode)
	}

	lookup := doGet(t, "/api/v1/reservations/code/"+added.Reservation.PublicCode)
	defer lookup.Body.Close()
	res := decodeJSON[reservationResponse](t, lookup)
	if res.Status != "CANCELADO" {
		t.Errorf("reservation status after removal: got %q, want CANCELADO", res.Status)
	}
}

func TestPay_EmptyCart(t *testing.T) {
	cart := createCart(t, "emptypay@example.com")

	resp := doPost(t, "/api/v1/carts/"+cart.ID+"/pay", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestPay_FullFlow(t *testing.T) {
	lagunaAzul := seededPackage(t, "laguna-azul-full-day")
	altoMayo := seededPackage(t, "alto-mayo-expedicion")
	cart := createCart(t, "fullflow@example.com")

	// 2 adults + 1 child at 120 = 360, plus 2 adults at 650 = 1300.
	first := addItem(t, cart.ID, lagunaAzul.ID, 2, 1)
	second := addItem(t, cart.ID, altoMayo.ID, 2, 0)

	resp := doPost(t, "/api/v1/carts/"+cart.ID+"/pay", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay: expected 200, got %d", resp.StatusCode)
	}

	payment := decodeJSON[paymentResult](t, resp)
	if payment.Status != "PAID" {
		t.Errorf("cart status: got %q, want PAID", payment.Status)
	}
	if payment.Amount != 1660 {
		t.Errorf("amount: got %v, want 1660", payment.Amount)
	}
	if payment.Currency != "PEN" {
		t.Errorf("currency: got %q, want PEN", payment.Currency)
	}
	if payment.Reference == "" {
		t.Error("payment_reference is empty")
	}

	// Both reservations are confirmed with their line totals fixed.
	for _, tc := range []struct {
		code string
		want float64
	}{
		{first.Reservation.PublicCode, 360},
		{second.Reservation.PublicCode, 1300},
	} {
		lookup := doGet(t, "/api/v1/reservations/code/"+tc.code)
		res := decodeJSON[reservationResponse](t, lookup)
		lookup.Body.Close()

		if res.Status != "CONFIRMADO" {
			t.Errorf("reservation %s: status got %q, want CONFIRMADO", tc.code, res.Status)
		}
		if res.TotalAmount == nil || *res.TotalAmount != tc.want {
			t.Errorf("reservation %s: total got %v, want %v", tc.code, res.TotalAmount, tc.want)
		}
	}
}

func TestPay_AlreadyPaid(t *testing.T) {
	pkg := seededPackage(t, "lamas-castillo-comunidad")
	cart := createCart(t, "doublepay@example.com")
	addItem(t, cart.ID, pkg.ID, 1, 0)

	resp := doPost(t, "/api/v1/carts/"+cart.ID+"/pay", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first pay: expected 200, got %d", resp.StatusCode)
	}

	again := doPost(t, "/api/v1/carts/"+cart.ID+"/pay", nil)
	defer again.Body.Close()
	if again.StatusCode != http.StatusConflict {
		t.Fatalf("second pay: expected 409, got %d", again.StatusCode)
	}
}

func TestLookupCart_ReturnsLatestOpen(t *testing.T) {
	email := "latestcart@example.com"
	createCart(t, email)
	second := createCart(t, email)

	resp := doGet(t, "/api/v1/carts?email="+email)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lookup: expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartWithItems](t, resp)
	if cart.ID != second.ID {
		t.Errorf("lookup returned %q, want most recent cart %q", cart.ID, second.ID)
	}
	if cart.Items == nil {
		t.Error("items is null, want []")
	}
}

func TestDirectReservation(t *testing.T) {
	pkg := seededPackage(t, "laguna-azul-full-day")

	resp := doPost(t, "/api/v1/reservations", map[string]any{
		"package_id": pkg.ID,
		"full_name":  "Pedro Ruiz",
		"email":      "pedro@example.com",
		"adults":     2,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	res := decodeJSON[reservationResponse](t, resp)
	if res.Status != "PENDIENTE" {
		t.Errorf("status: got %q, want PENDIENTE", res.Status)
	}
	if res.TotalAmount != nil {
		t.Error("total_amount should be null before confirmation")
	}

	lookup := doGet(t, "/api/v1/reservations/code/"+res.PublicCode)
	defer lookup.Body.Close()
	if lookup.StatusCode != http.StatusOK {
		t.Fatalf("code lookup: expected 200, got %d", lookup.StatusCode)
	}
}

func TestReservationByCode_NeverIssued(t *testing.T) {
	resp := doGet(t, "/api/v1/reservations/code/ffffffffffffffff")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAdmin_ReservationLifecycle(t *testing.T) {
	pkg := seededPackage(t, "cataratas-ahuashiyacu")

	created := doPost(t, "/api/v1/reservations", map[string]any{
		"package_id": pkg.ID,
		"full_name":  "Marta Silva",
		"email":      "marta@example.com",
	})
	res := decodeJSON[reservationResponse](t, created)
	created.Body.Close()

	patch := doWithAuth(t, http.MethodPatch, "/api/v1/admin/reservations/"+res.ID+"/status",
		map[string]any{"status": "CONTACTADO"}, testAPIKey)
	patch.Body.Close()
	if patch.StatusCode != http.StatusNoContent {
		t.Fatalf("patch status: expected 204, got %d", patch.StatusCode)
	}

	get := doWithAuth(t, http.MethodGet, "/api/v1/admin/reservations/"+res.ID, nil, testAPIKey)
	defer get.Body.Close()
	updated := decodeJSON[reservationResponse](t, get)
	if updated.Status != "CONTACTADO" {
		t.Errorf("status: got %q, want CONTACTADO", updated.Status)
	}
}

func TestAdmin_RequiresKey(t *testing.T) {
	resp := doGet(t, "/api/v1/admin/reservations")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

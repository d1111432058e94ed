package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/analytics"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/auth"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/catalog"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/contact"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/content"
)

const testAdminKey = "test-admin-key"

// --- Mock implementations ---
//
// Wide interfaces are embedded so mocks only carry the methods a test
// exercises; calling anything else panics with a nil pointer, which is the
// failure we want.

type mockBookingStore struct {
	booking.Store

	createdCart     *booking.Cart
	cartByEmail     *booking.Cart
	cartItems       []booking.CartItem
	withCartErr     error
	created         *booking.Reservation
	byCode          map[string]*booking.Reservation
	listed          []booking.Reservation
	updatedStatus   booking.ReservationStatus
	updatedStatusID string
}

func (m *mockBookingStore) CreateCart(_ context.Context, c *booking.Cart) error {
	m.createdCart = c
	return nil
}

func (m *mockBookingStore) LatestCartByEmail(_ context.Context, _ string) (*booking.Cart, error) {
	if m.cartByEmail == nil {
		return nil, booking.ErrCartNotFound
	}
	return m.cartByEmail, nil
}

func (m *mockBookingStore) CartItems(_ context.Context, _ string) ([]booking.CartItem, error) {
	return m.cartItems, nil
}

func (m *mockBookingStore) WithCart(_ context.Context, _ string, _ func(context.Context, booking.CartTx) error) error {
	return m.withCartErr
}

func (m *mockBookingStore) CreateReservation(_ context.Context, r *booking.Reservation) error {
	m.created = r
	return nil
}

func (m *mockBookingStore) ReservationByPublicCode(_ context.Context, code string) (*booking.Reservation, error) {
	r, ok := m.byCode[code]
	if !ok {
		return nil, booking.ErrReservationNotFound
	}
	return r, nil
}

func (m *mockBookingStore) ListReservations(_ context.Context, _ booking.ReservationStatus) ([]booking.Reservation, error) {
	return m.listed, nil
}

func (m *mockBookingStore) UpdateReservationStatus(_ context.Context, id string, status booking.ReservationStatus) error {
	m.updatedStatusID, m.updatedStatus = id, status
	return nil
}

type mockPackageSource struct {
	pkg *booking.PackageInfo
}

func (m *mockPackageSource) PackageInfo(_ context.Context, id string) (*booking.PackageInfo, error) {
	if m.pkg == nil || m.pkg.ID != id {
		return nil, booking.ErrPackageNotFound
	}
	return m.pkg, nil
}

type mockCatalogRepo struct {
	catalog.Repository

	categories []catalog.Category
	packages   []catalog.Package
	bySlug     map[string]*catalog.Package
	deleteErr  error
	lastFilter catalog.Filter
}

func (m *mockCatalogRepo) ListCategories(_ context.Context) ([]catalog.Category, error) {
	return m.categories, nil
}

func (m *mockCatalogRepo) ListPackages(_ context.Context, f catalog.Filter) ([]catalog.Package, error) {
	m.lastFilter = f
	return m.packages, nil
}

func (m *mockCatalogRepo) GetPackageBySlug(_ context.Context, slug string) (*catalog.Package, error) {
	p, ok := m.bySlug[slug]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

func (m *mockCatalogRepo) DeleteCategory(_ context.Context, _ string) error {
	return m.deleteErr
}

type mockContentRepo struct {
	content.Repository

	services []content.Service
}

func (m *mockContentRepo) ListServices(_ context.Context) ([]content.Service, error) {
	return m.services, nil
}

type mockContactRepo struct {
	messages     []contact.Message
	subscribers  []contact.Subscriber
	subscribeErr error
}

func (m *mockContactRepo) CreateMessage(_ context.Context, msg *contact.Message) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockContactRepo) ListMessages(_ context.Context) ([]contact.Message, error) {
	return m.messages, nil
}

func (m *mockContactRepo) MarkMessageRead(_ context.Context, _ string) error { return nil }
func (m *mockContactRepo) DeleteMessage(_ context.Context, _ string) error   { return nil }

func (m *mockContactRepo) Subscribe(_ context.Context, s *contact.Subscriber) error {
	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	m.subscribers = append(m.subscribers, *s)
	return nil
}

func (m *mockContactRepo) ListSubscribers(_ context.Context) ([]contact.Subscriber, error) {
	return m.subscribers, nil
}

type mockViews struct {
	tracked []analytics.PageView
}

func (m *mockViews) Track(_ context.Context, v *analytics.PageView) error {
	m.tracked = append(m.tracked, *v)
	return nil
}

func (m *mockViews) TotalViews(_ context.Context) (int64, error) {
	return int64(len(m.tracked)), nil
}

func (m *mockViews) MonthlyViews(_ context.Context, _ int) ([]analytics.MonthCount, error) {
	return nil, nil
}

type mockStats struct{}

func (mockStats) CountReservations(_ context.Context) (int64, error) { return 0, nil }
func (mockStats) ReservationStatusCounts(_ context.Context) (map[booking.ReservationStatus]int64, error) {
	return map[booking.ReservationStatus]int64{}, nil
}
func (mockStats) ConfirmedRevenue(_ context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type mockAPIKeyRepo struct{}

func (mockAPIKeyRepo) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	if hash != auth.HashKey(testAdminKey) {
		return nil, errors.New("api key not found")
	}
	return &auth.APIKeyInfo{ID: "k1", KeyHash: hash, Name: "test"}, nil
}

// --- Helpers ---

type testEnv struct {
	engine  *gin.Engine
	store   *mockBookingStore
	catalog *mockCatalogRepo
	content *mockContentRepo
	contact *mockContactRepo
	views   *mockViews
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		store:   &mockBookingStore{byCode: map[string]*booking.Reservation{}},
		catalog: &mockCatalogRepo{bySlug: map[string]*catalog.Package{}},
		content: &mockContentRepo{},
		contact: &mockContactRepo{},
		views:   &mockViews{},
	}

	pkg := &booking.PackageInfo{
		ID:       "11111111-1111-1111-1111-111111111111",
		Title:    "Laguna Azul",
		Price:    decimal.NewFromInt(120),
		Currency: "PEN",
	}

	codes := booking.NewCodeFilter(100, 0.01)
	bookingSvc := booking.NewService(env.store, &mockPackageSource{pkg: pkg}, codes, booking.Config{})

	h := NewHandler(
		zap.NewNop(),
		bookingSvc,
		env.catalog,
		env.content,
		analytics.NewService(env.views, mockStats{}),
		contact.NewService(env.contact),
		mockAPIKeyRepo{},
	)

	env.engine = gin.New()
	h.Register(env.engine)
	return env
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func adminHeader() map[string]string {
	return map[string]string{apiKeyHeader: testAdminKey}
}

// --- Tests ---

func TestCreateCart(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/carts", gin.H{
		"email": "Ana@Example.com",
		"phone": "+51 999 000 111",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var cart booking.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Equal(t, "ana@example.com", cart.Email)
	assert.Equal(t, booking.CartOpen, cart.Status)
	assert.NotEmpty(t, cart.ID)
	require.NotNil(t, env.store.createdCart)
}

func TestCreateCart_MissingEmail(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/carts", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupCart_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/carts?email=nobody@example.com", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLookupCart_EmptyItems(t *testing.T) {
	env := newTestEnv(t)
	env.store.cartByEmail = &booking.Cart{
		ID:        "c1",
		Email:     "ana@example.com",
		Status:    booking.CartOpen,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/carts?email=ana@example.com", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Items must serialize as [] rather than null.
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestPayCart_Expired(t *testing.T) {
	env := newTestEnv(t)
	env.store.withCartErr = booking.ErrCartExpired

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/carts/c1/pay", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateReservation(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/reservations", gin.H{
		"package_id": "11111111-1111-1111-1111-111111111111",
		"full_name":  "Ana Torres",
		"email":      "ana@example.com",
		"adults":     2,
		"children":   1,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var res booking.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, booking.ReservationPending, res.Status)
	assert.Equal(t, "PEN", res.Currency)
	assert.Len(t, res.PublicCode, 16)
	assert.Nil(t, res.TotalAmount)
}

func TestCreateReservation_UnknownPackage(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/reservations", gin.H{
		"package_id": "22222222-2222-2222-2222-222222222222",
		"full_name":  "Ana Torres",
		"email":      "ana@example.com",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationByCode_UnknownCodeScreened(t *testing.T) {
	env := newTestEnv(t)

	// Never issued, so the code filter rejects it without a store read.
	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/reservations/code/deadbeefdeadbeef", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationByCode_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/reservations", gin.H{
		"package_id": "11111111-1111-1111-1111-111111111111",
		"full_name":  "Ana Torres",
		"email":      "ana@example.com",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var res booking.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	env.store.byCode[res.PublicCode] = env.store.created

	w = doJSON(t, env.engine, http.MethodGet, "/api/v1/reservations/code/"+res.PublicCode, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got booking.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, res.ID, got.ID)
}

func TestGetPackageBySlug(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.bySlug["laguna-azul-full-day"] = &catalog.Package{
		ID:    "p1",
		Title: "Laguna Azul - Full Day",
		Slug:  "laguna-azul-full-day",
	}

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/packages/laguna-azul-full-day", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pkg catalog.Package
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pkg))
	assert.Equal(t, "p1", pkg.ID)
}

func TestGetPackage_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/packages/no-such-tour", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPackages_PublicSeesActiveOnly(t *testing.T) {
	env := newTestEnv(t)

	// The all flag must not lift the active filter on the public route.
	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/packages?all=true", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.catalog.lastFilter.IsActive)
	assert.True(t, *env.catalog.lastFilter.IsActive)
}

func TestAdmin_ListPackagesIncludesInactive(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/admin/packages?all=true", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.catalog.lastFilter.IsActive)

	// Without the flag the admin listing defaults to active packages too.
	w = doJSON(t, env.engine, http.MethodGet, "/api/v1/admin/packages", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.catalog.lastFilter.IsActive)
	assert.True(t, *env.catalog.lastFilter.IsActive)
}

func TestListPackages_BadDifficulty(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/packages?difficulty=EXTREME", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListServices(t *testing.T) {
	env := newTestEnv(t)
	env.content.services = []content.Service{
		{ID: "s1", Title: "Tours guiados"},
		{ID: "s2", Title: "Transporte privado"},
	}

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/content/services", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []content.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Tours guiados", list[0].Title)
}

func TestSubscribe_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.contact.subscribeErr = contact.ErrAlreadySubscribed

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/newsletter", gin.H{
		"email": "ana@example.com",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitMessage_BadEmail(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/contact/messages", gin.H{
		"full_name": "Ana",
		"email":     "not-an-email",
		"body":      "hola",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackVisit(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/visits", gin.H{
		"path": "paquetes/laguna-azul",
	}, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, env.views.tracked, 1)
	assert.Equal(t, "/paquetes/laguna-azul", env.views.tracked[0].Path)
	// httptest requests carry 192.0.2.1 as the remote address.
	assert.Equal(t, "192.0.2.1", env.views.tracked[0].IP)
}

func TestTrackVisit_MissingPath(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/v1/visits", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_NoKey(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/admin/subscribers", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_WrongKey(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/admin/subscribers", nil, map[string]string{
		apiKeyHeader: "wrong-key",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_ValidKey(t *testing.T) {
	env := newTestEnv(t)
	env.contact.subscribers = []contact.Subscriber{{ID: "s1", Email: "ana@example.com"}}

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/admin/subscribers", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)

	var list []contact.Subscriber
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestAdmin_SetReservationStatus(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPatch, "/api/v1/admin/reservations/r1/status", gin.H{
		"status": "CONTACTADO",
	}, adminHeader())
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, "r1", env.store.updatedStatusID)
	assert.Equal(t, booking.ReservationContacted, env.store.updatedStatus)
}

func TestAdmin_SetReservationStatus_Invalid(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodPatch, "/api/v1/admin/reservations/r1/status", gin.H{
		"status": "WHATEVER",
	}, adminHeader())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_DeleteCategoryInUse(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.deleteErr = catalog.ErrCategoryInUse

	w := doJSON(t, env.engine, http.MethodDelete, "/api/v1/admin/categories/cat1", nil, adminHeader())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdmin_Dashboard(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.engine, http.MethodGet, "/api/v1/admin/dashboard", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)

	var d analytics.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Zero(t, d.TotalReservations)
}

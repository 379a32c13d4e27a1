package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
	"github.com/atvirokodosprendimai/menuapi/internal/core/usecase"
)

const (
	testJWTSecret = "test-jwt-secret"
	testAPIKey    = "service-key-plaintext"
	testCipherKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=" // base64 of 32 bytes
)

type stubRestaurantRepo struct {
	createFn    func(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error)
	getFn       func(ctx context.Context, id int64) (domain.Restaurant, error)
	updateFn    func(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error)
	setSecretFn func(ctx context.Context, id int64, ciphertext string) error
	deleteFn    func(ctx context.Context, id int64) (bool, error)
	findInBoxFn func(ctx context.Context, box domain.BoundingBox) ([]domain.Restaurant, error)
}

func (s *stubRestaurantRepo) Create(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error) {
	if s.createFn != nil {
		return s.createFn(ctx, r)
	}
	r.ID = 1
	r.CreatedAt = time.Now().UTC()
	return r, nil
}

func (s *stubRestaurantRepo) Get(ctx context.Context, id int64) (domain.Restaurant, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.Restaurant{}, domain.ErrNotFound
}

func (s *stubRestaurantRepo) Update(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, r)
	}
	return r, nil
}

func (s *stubRestaurantRepo) SetPaymentSecret(ctx context.Context, id int64, ciphertext string) error {
	if s.setSecretFn != nil {
		return s.setSecretFn(ctx, id, ciphertext)
	}
	return nil
}

func (s *stubRestaurantRepo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return true, nil
}

func (s *stubRestaurantRepo) FindInBoundingBox(ctx context.Context, box domain.BoundingBox) ([]domain.Restaurant, error) {
	if s.findInBoxFn != nil {
		return s.findInBoxFn(ctx, box)
	}
	return nil, nil
}

type stubUserRepo struct {
	createFn func(ctx context.Context, u domain.AdminUser) (domain.AdminUser, error)
	getFn    func(ctx context.Context, id int64) (domain.AdminUser, error)
	byEmail  func(ctx context.Context, email string) (domain.AdminUser, error)
}

func (s *stubUserRepo) Create(ctx context.Context, u domain.AdminUser) (domain.AdminUser, error) {
	if s.createFn != nil {
		return s.createFn(ctx, u)
	}
	u.ID = 1
	u.CreatedAt = time.Now().UTC()
	return u, nil
}

func (s *stubUserRepo) Get(ctx context.Context, id int64) (domain.AdminUser, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.AdminUser{ID: id, Name: "Owner", Email: "owner@example.com"}, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	if s.byEmail != nil {
		return s.byEmail(ctx, email)
	}
	return domain.AdminUser{}, domain.ErrNotFound
}

type stubKeyRepo struct {
	createFn     func(ctx context.Context, key domain.APIKey) error
	findActiveFn func(ctx context.Context, restaurantID int64) ([]domain.APIKey, error)
	deleteFn     func(ctx context.Context, id string) (bool, error)
}

func (s *stubKeyRepo) Create(ctx context.Context, key domain.APIKey) error {
	if s.createFn != nil {
		return s.createFn(ctx, key)
	}
	return nil
}

func (s *stubKeyRepo) FindActive(ctx context.Context, restaurantID int64) ([]domain.APIKey, error) {
	if s.findActiveFn != nil {
		return s.findActiveFn(ctx, restaurantID)
	}
	return nil, nil
}

func (s *stubKeyRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return true, nil
}

type stubTableRepo struct {
	getFn  func(ctx context.Context, id int64) (domain.RestaurantTable, error)
	listFn func(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error)
}

func (s *stubTableRepo) Create(_ context.Context, t domain.RestaurantTable) (domain.RestaurantTable, error) {
	t.ID = 1
	return t, nil
}

func (s *stubTableRepo) Get(ctx context.Context, id int64) (domain.RestaurantTable, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.RestaurantTable{}, domain.ErrNotFound
}

func (s *stubTableRepo) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error) {
	if s.listFn != nil {
		return s.listFn(ctx, restaurantID)
	}
	return nil, nil
}

func (s *stubTableRepo) Update(_ context.Context, t domain.RestaurantTable) (domain.RestaurantTable, error) {
	return t, nil
}

func (s *stubTableRepo) SoftDelete(context.Context, int64) (bool, error) { return true, nil }

type stubMenuRepo struct {
	getItemFn func(ctx context.Context, id int64) (domain.MenuItem, error)
}

func (s *stubMenuRepo) CreateMenu(_ context.Context, m domain.Menu) (domain.Menu, error) {
	m.ID = 1
	return m, nil
}
func (s *stubMenuRepo) GetMenu(context.Context, int64) (domain.Menu, error) {
	return domain.Menu{}, domain.ErrNotFound
}
func (s *stubMenuRepo) UpdateMenu(_ context.Context, m domain.Menu) (domain.Menu, error) {
	return m, nil
}
func (s *stubMenuRepo) SoftDeleteMenu(context.Context, int64) (bool, error) { return true, nil }
func (s *stubMenuRepo) CreateSection(_ context.Context, sec domain.MenuSection) (domain.MenuSection, error) {
	sec.ID = 1
	return sec, nil
}
func (s *stubMenuRepo) GetSection(context.Context, int64) (domain.MenuSection, error) {
	return domain.MenuSection{}, domain.ErrNotFound
}
func (s *stubMenuRepo) UpdateSection(_ context.Context, sec domain.MenuSection) (domain.MenuSection, error) {
	return sec, nil
}
func (s *stubMenuRepo) SoftDeleteSection(context.Context, int64) (bool, error) { return true, nil }
func (s *stubMenuRepo) CreateItem(_ context.Context, i domain.MenuItem) (domain.MenuItem, error) {
	i.ID = 1
	return i, nil
}
func (s *stubMenuRepo) GetItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	if s.getItemFn != nil {
		return s.getItemFn(ctx, id)
	}
	return domain.MenuItem{}, domain.ErrNotFound
}
func (s *stubMenuRepo) UpdateItem(_ context.Context, i domain.MenuItem) (domain.MenuItem, error) {
	return i, nil
}
func (s *stubMenuRepo) SoftDeleteItem(context.Context, int64) (bool, error) { return true, nil }
func (s *stubMenuRepo) RestaurantForMenu(context.Context, int64) (int64, error) {
	return 1, nil
}
func (s *stubMenuRepo) RestaurantForSection(context.Context, int64) (int64, error) {
	return 1, nil
}
func (s *stubMenuRepo) RestaurantForItem(context.Context, int64) (int64, error) {
	return 1, nil
}

type stubOrderRepo struct {
	createFn   func(ctx context.Context, order domain.Order, envelope domain.EventEnvelope) (domain.Order, error)
	getFn      func(ctx context.Context, id int64) (domain.Order, error)
	listOpenFn func(ctx context.Context, restaurantID int64) ([]domain.Order, error)
}

func (s *stubOrderRepo) CreateWithItems(ctx context.Context, order domain.Order, envelope domain.EventEnvelope) (domain.Order, error) {
	if s.createFn != nil {
		return s.createFn(ctx, order, envelope)
	}
	order.ID = 1
	return order, nil
}

func (s *stubOrderRepo) Get(ctx context.Context, id int64) (domain.Order, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.Order{}, domain.ErrNotFound
}

func (s *stubOrderRepo) ListOpenByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Order, error) {
	if s.listOpenFn != nil {
		return s.listOpenFn(ctx, restaurantID)
	}
	return nil, nil
}

func (s *stubOrderRepo) ListItems(context.Context, int64) ([]domain.OrderItem, error) {
	return nil, nil
}

func (s *stubOrderRepo) MarkComplete(context.Context, int64, domain.EventEnvelope) (bool, error) {
	return true, nil
}

func (s *stubOrderRepo) MarkPaid(context.Context, int64, domain.EventEnvelope) (bool, error) {
	return true, nil
}

type stubRatingRepo struct{}

func (s *stubRatingRepo) Create(_ context.Context, r domain.Rating) (domain.Rating, error) {
	r.ID = 1
	r.CreatedAt = time.Now().UTC()
	return r, nil
}

func (s *stubRatingRepo) List(context.Context) ([]domain.Rating, error) { return nil, nil }

type stubProvider struct {
	createFn func(ctx context.Context, secret string, items []ports.CheckoutLineItem, successURL, cancelURL string, metadata map[string]string) (ports.CheckoutSession, error)
}

func (s *stubProvider) CreateCheckout(ctx context.Context, secret string, items []ports.CheckoutLineItem, successURL, cancelURL string, metadata map[string]string) (ports.CheckoutSession, error) {
	if s.createFn != nil {
		return s.createFn(ctx, secret, items, successURL, cancelURL, metadata)
	}
	return ports.CheckoutSession{ID: "sess_1", URL: "https://pay.example/sess_1", Status: "open"}, nil
}

func (s *stubProvider) RetrieveSession(context.Context, string, string) (ports.CheckoutSession, error) {
	return ports.CheckoutSession{ID: "sess_1", Status: "open"}, nil
}

type stubIssuer struct{}

func (s *stubIssuer) IssueUploadURL(_ context.Context, blobName string, _ time.Duration) (string, error) {
	return "https://blobs.example/" + blobName + "?sig=abc", nil
}

type handlerFixture struct {
	restaurants *stubRestaurantRepo
	users       *stubUserRepo
	keys        *stubKeyRepo
	tables      *stubTableRepo
	menus       *stubMenuRepo
	orders      *stubOrderRepo
	provider    *stubProvider

	auth *usecase.AuthService
}

func newFixture() *handlerFixture {
	return &handlerFixture{
		restaurants: &stubRestaurantRepo{},
		users:       &stubUserRepo{},
		keys:        &stubKeyRepo{},
		tables:      &stubTableRepo{},
		menus:       &stubMenuRepo{},
		orders:      &stubOrderRepo{},
		provider:    &stubProvider{},
	}
}

func (f *handlerFixture) router(t *testing.T) http.Handler {
	t.Helper()
	cipher, err := usecase.NewSecretCipher(testCipherKey)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}

	f.auth = usecase.NewAuthService(f.users, f.keys, testJWTSecret)
	restaurants := usecase.NewRestaurantService(f.restaurants, cipher)
	menus := usecase.NewMenuService(f.menus, f.tables, f.restaurants)
	orders := usecase.NewOrderService(f.orders, f.menus, f.tables)
	payments := usecase.NewPaymentService(f.restaurants, orders, f.provider, cipher, "https://ok", "https://cancel")
	ratings := usecase.NewRatingService(&stubRatingRepo{}, f.restaurants)
	uploads := usecase.NewUploadService(&stubIssuer{})

	h := NewHandler(f.auth, restaurants, menus, orders, payments, ratings, uploads, zerolog.Nop())
	return h.Router()
}

func mustHash(t *testing.T, secret string) string {
	t.Helper()
	digest, err := usecase.HashSecret(secret)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return digest
}

// adminToken wires the stub user repo so a login succeeds and returns a valid
// bearer token for admin ID 1.
func (f *handlerFixture) adminToken(t *testing.T) string {
	t.Helper()
	digest := mustHash(t, "password123")
	f.users.byEmail = func(_ context.Context, email string) (domain.AdminUser, error) {
		return domain.AdminUser{ID: 1, Name: "Owner", Email: email, PasswordHash: digest}, nil
	}
	token, err := f.auth.Login(context.Background(), "owner@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return token
}

func (f *handlerFixture) allowAPIKey(t *testing.T, restaurantID int64) {
	t.Helper()
	digest := mustHash(t, testAPIKey)
	f.keys.findActiveFn = func(context.Context, int64) ([]domain.APIKey, error) {
		return []domain.APIKey{{ID: "key-1", RestaurantID: restaurantID, KeyHash: digest}}, nil
	}
}

func doRequest(h http.Handler, method, target, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return payload["error"]
}

func TestProtectedRouteWithoutCredentials(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodPost, "/restaurant/add", `{}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "missing credentials" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestProtectedRouteMalformedHeader(t *testing.T) {
	h := newFixture().router(t)
	req := httptest.NewRequest(http.MethodPost, "/restaurant/add", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "malformed credentials" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestProtectedRouteGarbageToken(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodPost, "/restaurant/add", `{}`, "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "invalid credentials" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodPost, "/adminUsers", `{"name":"A","email":"a@example.com","password":"short"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterNeverEchoesPassword(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodPost, "/adminUsers", `{"name":"A","email":"a@example.com","password":"longenough"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "longenough") {
		t.Fatalf("response leaks credential material: %s", body)
	}
}

func TestAdminCannotReadOtherAdmin(t *testing.T) {
	f := newFixture()
	h := f.router(t)
	token := f.adminToken(t)

	rec := doRequest(h, http.MethodGet, "/adminUsers/1", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("own profile: expected 200, got %d", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/adminUsers/2", "", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign profile: expected 403, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "insufficient permission" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCreateRestaurantRejectsUnknownFields(t *testing.T) {
	f := newFixture()
	h := f.router(t)
	token := f.adminToken(t)

	rec := doRequest(h, http.MethodPost, "/restaurant/add",
		`{"name":"Noma","latitude":55.68,"longitude":12.57,"opening_hour":10,"closing_hour":22,"extra":1}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateRestaurantRejectsOutOfRangeLatitude(t *testing.T) {
	f := newFixture()
	h := f.router(t)
	token := f.adminToken(t)

	rec := doRequest(h, http.MethodPost, "/restaurant/add",
		`{"name":"Noma","latitude":95.0,"longitude":12.57,"opening_hour":10,"closing_hour":22}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetRestaurantNeverExposesPaymentSecret(t *testing.T) {
	f := newFixture()
	f.restaurants.getFn = func(context.Context, int64) (domain.Restaurant, error) {
		return domain.Restaurant{
			ID:            7,
			Name:          "Noma",
			OwnerID:       1,
			Location:      domain.Coordinate{Latitude: 55.68, Longitude: 12.57},
			PaymentSecret: "c2VjcmV0LWNpcGhlcnRleHQ=",
		}, nil
	}
	h := f.router(t)

	rec := doRequest(h, http.MethodGet, "/restaurants/7", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "c2VjcmV0") || strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("response leaks payment secret: %s", rec.Body.String())
	}
}

func TestClosestRequiresNumericCoordinates(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodGet, "/restaurants/closest?lat=abc&lon=12.5", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClosestReturnsRankedItems(t *testing.T) {
	f := newFixture()
	f.restaurants.findInBoxFn = func(context.Context, domain.BoundingBox) ([]domain.Restaurant, error) {
		return []domain.Restaurant{
			{ID: 2, Name: "far", Location: domain.Coordinate{Latitude: 55.70, Longitude: 12.60}},
			{ID: 1, Name: "near", Location: domain.Coordinate{Latitude: 55.68, Longitude: 12.57}},
		}, nil
	}
	h := f.router(t)

	rec := doRequest(h, http.MethodGet, "/restaurants/closest?lat=55.68&lon=12.57", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Items []restaurantResponse `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 2 || payload.Items[0].ID != 1 {
		t.Fatalf("expected nearest first, got %+v", payload.Items)
	}
}

func TestOrderRouteWithoutKey(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodPost, "/orders/add", `{"table_id":1,"menu_item_ids":[1]}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateOrderScopedByResolvedKey(t *testing.T) {
	f := newFixture()
	f.allowAPIKey(t, 42)
	f.tables.getFn = func(_ context.Context, id int64) (domain.RestaurantTable, error) {
		return domain.RestaurantTable{ID: id, RestaurantID: 42, TableNumber: 3}, nil
	}
	f.menus.getItemFn = func(_ context.Context, id int64) (domain.MenuItem, error) {
		return domain.MenuItem{ID: id, SectionID: 1, Name: "Burger", Price: 9.5}, nil
	}
	var captured domain.Order
	f.orders.createFn = func(_ context.Context, order domain.Order, _ domain.EventEnvelope) (domain.Order, error) {
		captured = order
		order.ID = 10
		return order, nil
	}
	h := f.router(t)

	rec := doRequest(h, http.MethodPost, "/orders/add", `{"table_id":5,"menu_item_ids":[1,2]}`, testAPIKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.RestaurantID != 42 {
		t.Fatalf("order must carry the key's restaurant, got %d", captured.RestaurantID)
	}
	if captured.Total != 19.0 {
		t.Fatalf("expected total 19.0, got %v", captured.Total)
	}
}

func TestCreateOrderForeignTableRejected(t *testing.T) {
	f := newFixture()
	f.allowAPIKey(t, 42)
	f.tables.getFn = func(_ context.Context, id int64) (domain.RestaurantTable, error) {
		return domain.RestaurantTable{ID: id, RestaurantID: 99, TableNumber: 3}, nil
	}
	h := f.router(t)

	rec := doRequest(h, http.MethodPost, "/orders/add", `{"table_id":5,"menu_item_ids":[1]}`, testAPIKey)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutWithoutStoredSecret(t *testing.T) {
	f := newFixture()
	f.allowAPIKey(t, 42)
	f.orders.getFn = func(_ context.Context, id int64) (domain.Order, error) {
		return domain.Order{ID: id, RestaurantID: 42, Total: 19.0}, nil
	}
	f.restaurants.getFn = func(context.Context, int64) (domain.Restaurant, error) {
		return domain.Restaurant{ID: 42, Name: "Noma", OwnerID: 1}, nil
	}
	providerCalled := false
	f.provider.createFn = func(context.Context, string, []ports.CheckoutLineItem, string, string, map[string]string) (ports.CheckoutSession, error) {
		providerCalled = true
		return ports.CheckoutSession{}, nil
	}
	h := f.router(t)

	rec := doRequest(h, http.MethodPost, "/payments/checkout", `{"order_id":1}`, testAPIKey)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if providerCalled {
		t.Fatal("provider must not be contacted without a stored secret")
	}
}

func TestProviderFailureMapsToBadGateway(t *testing.T) {
	f := newFixture()
	f.allowAPIKey(t, 42)
	cipher, err := usecase.NewSecretCipher(testCipherKey)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	ciphertext, err := cipher.Encrypt("sk_live_abc")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	f.orders.getFn = func(_ context.Context, id int64) (domain.Order, error) {
		return domain.Order{ID: id, RestaurantID: 42, Total: 19.0}, nil
	}
	f.restaurants.getFn = func(context.Context, int64) (domain.Restaurant, error) {
		return domain.Restaurant{ID: 42, Name: "Noma", OwnerID: 1, PaymentSecret: ciphertext}, nil
	}
	f.provider.createFn = func(context.Context, string, []ports.CheckoutLineItem, string, string, map[string]string) (ports.CheckoutSession, error) {
		return ports.CheckoutSession{}, errors.New("provider timeout")
	}
	h := f.router(t)

	rec := doRequest(h, http.MethodPost, "/payments/checkout", `{"order_id":1}`, testAPIKey)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "provider timeout") {
		t.Fatalf("raw dependency error leaked: %s", rec.Body.String())
	}
}

func TestRatingRejectsOutOfRange(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodPost, "/ratings", `{"restaurant_id":1,"rating":6}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUnknownErrorIsOpaque500(t *testing.T) {
	f := newFixture()
	f.restaurants.getFn = func(context.Context, int64) (domain.Restaurant, error) {
		return domain.Restaurant{}, errors.New("disk on fire")
	}
	h := f.router(t)

	rec := doRequest(h, http.MethodGet, "/restaurants/1", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Fatalf("raw error leaked: %s", rec.Body.String())
	}
	if msg := errorBody(t, rec); msg != "internal server error" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestWriteJSONEncodeErrorHandled(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]any{"bad": func() {}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h := newFixture().router(t)
	rec := doRequest(h, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

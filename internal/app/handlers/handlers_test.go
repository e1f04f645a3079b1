package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/powermagic/shop/internal/app/handlers"
	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/jwt-new/jwtmiddleware"
	"github.com/powermagic/shop/internal/report"
	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

// fakeAuthService — фиктивная реализация для тестирования.
type fakeAuthService struct {
	token string
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

type fakeCatalogService struct {
	games []*models.Game
	game  *models.Game
	err   error
}

func (f *fakeCatalogService) ListGames(ctx context.Context, filter storage.GameFilter) ([]*models.Game, error) {
	return f.games, f.err
}

func (f *fakeCatalogService) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	if f.game == nil && f.err == nil {
		return nil, storage.ErrGameNotFound
	}
	return f.game, f.err
}

func (f *fakeCatalogService) CreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	game.ID = 1
	return game, f.err
}

func (f *fakeCatalogService) UpdateGame(ctx context.Context, game *models.Game) error {
	return f.err
}

func (f *fakeCatalogService) DeleteGame(ctx context.Context, id int64) error {
	return f.err
}

func (f *fakeCatalogService) ToggleGame(ctx context.Context, id int64) (bool, error) {
	return true, f.err
}

type fakeCartService struct {
	cart *service.CartView
	err  error
}

func (f *fakeCartService) GetCart(ctx context.Context, userID int64) (*service.CartView, error) {
	return f.cart, f.err
}

func (f *fakeCartService) AddItem(ctx context.Context, userID, gameID int64, quantity int) error {
	return f.err
}

func (f *fakeCartService) SetItemQuantity(ctx context.Context, userID, gameID int64, quantity int) error {
	return f.err
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, gameID int64) error {
	return f.err
}

func (f *fakeCartService) Clear(ctx context.Context, userID int64) error {
	return f.err
}

type fakeCheckoutService struct {
	order *models.Order
	err   error
}

func (f *fakeCheckoutService) Checkout(ctx context.Context, userID int64, req service.CheckoutRequest) (*models.Order, error) {
	return f.order, f.err
}

type fakeOrderService struct {
	orders []*models.Order
	order  *models.Order
	err    error
}

func (f *fakeOrderService) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderService) GetByID(ctx context.Context, orderID string, userID int64, isAdmin bool) (*models.Order, error) {
	return f.order, f.err
}

type fakeReportService struct {
	earnings *report.Earnings
	monthly  [12]decimal.Decimal
	err      error
}

func (f *fakeReportService) EarningsBetween(ctx context.Context, from, to string) (*report.Earnings, error) {
	return f.earnings, f.err
}

func (f *fakeReportService) MonthlyEarnings(ctx context.Context, year int) ([12]decimal.Decimal, error) {
	return f.monthly, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withUser симулирует JWT middleware, устанавливая userID в контекст.
func withUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID))
}

// withURLParam устанавливает URL-параметр chi-роутера.
func withURLParam(req *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAuthHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token", err: nil}
	handler := handlers.AuthHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status 200 OK")

	var resp struct {
		Token string `json:"token"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, "test-token", resp.Token, "Returned token should match fake token")
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	handler := handlers.AuthHandler(testLogger(), &fakeAuthService{})

	reqBody := `{"username": "test@example.com", "password":`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid JSON")
}

func TestAuthHandler_LoginError(t *testing.T) {
	handler := handlers.AuthHandler(testLogger(), &fakeAuthService{err: assert.AnError})

	reqBody := `{"username": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 for login error")
}

func TestListGamesHandler_Success(t *testing.T) {
	fakeSvc := &fakeCatalogService{games: []*models.Game{
		{ID: 1, Title: "Grimoire Quest", Price: decimal.NewFromFloat(59.99), IsActive: true},
	}}
	handler := handlers.ListGamesHandler(testLogger(), fakeSvc, false)

	req := httptest.NewRequest("GET", "/api/games?category=rpg&max_price=60", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []*models.Game
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "Grimoire Quest", resp[0].Title)
}

func TestListGamesHandler_InvalidMaxPrice(t *testing.T) {
	handler := handlers.ListGamesHandler(testLogger(), &fakeCatalogService{}, false)

	req := httptest.NewRequest("GET", "/api/games?max_price=abc", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetGameHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeCatalogService{err: storage.ErrGameNotFound}
	handler := handlers.GetGameHandler(testLogger(), fakeSvc)

	req := withURLParam(httptest.NewRequest("GET", "/api/games/99", nil), "gameID", "99")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateGameHandler_ValidationError(t *testing.T) {
	handler := handlers.CreateGameHandler(testLogger(), &fakeCatalogService{})

	// Нет обязательного поля title
	reqBody := `{"price": 59.99}`
	req := httptest.NewRequest("POST", "/api/games", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateGameHandler_Success(t *testing.T) {
	handler := handlers.CreateGameHandler(testLogger(), &fakeCatalogService{})

	reqBody := `{"title": "Grimoire Quest", "price": 59.99, "stock": 10, "isActive": true}`
	req := httptest.NewRequest("POST", "/api/games", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp models.Game
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestGetCartHandler_Unauthorized(t *testing.T) {
	handler := handlers.GetCartHandler(testLogger(), &fakeCartService{})

	// Не добавляем userID в контекст.
	req := httptest.NewRequest("GET", "/api/cart", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 when userID is missing")
}

func TestGetCartHandler_Success(t *testing.T) {
	fakeSvc := &fakeCartService{cart: &service.CartView{
		Items: []service.CartLine{},
		Total: decimal.Zero,
	}}
	handler := handlers.GetCartHandler(testLogger(), fakeSvc)

	req := withUser(httptest.NewRequest("GET", "/api/cart", nil), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAddCartItemHandler_Success(t *testing.T) {
	handler := handlers.AddCartItemHandler(testLogger(), &fakeCartService{})

	reqBody := `{"gameId": 1, "quantity": 2}`
	req := withUser(httptest.NewRequest("POST", "/api/cart/items", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAddCartItemHandler_InvalidQuantity(t *testing.T) {
	handler := handlers.AddCartItemHandler(testLogger(), &fakeCartService{})

	reqBody := `{"gameId": 1, "quantity": 0}`
	req := withUser(httptest.NewRequest("POST", "/api/cart/items", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutHandler_Success(t *testing.T) {
	fakeSvc := &fakeCheckoutService{order: &models.Order{
		ID:     "RITUAL-1",
		UserID: "merlin",
		Total:  decimal.NewFromFloat(113.00),
	}}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	reqBody := `{
		"shippingAddress": {
			"fullName": "Merlin Ambrosius",
			"email": "merlin@example.com",
			"address": "Crystal Cave 1",
			"city": "Camelot",
			"country": "Albion"
		},
		"payment": {"type": "credit-card", "cardNumber": "4111111111111111"}
	}`
	req := withUser(httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp models.Order
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "RITUAL-1", resp.ID)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	handler := handlers.CheckoutHandler(testLogger(), &fakeCheckoutService{err: service.ErrEmptyCart})

	reqBody := `{
		"shippingAddress": {
			"fullName": "Merlin Ambrosius",
			"email": "merlin@example.com",
			"address": "Crystal Cave 1",
			"city": "Camelot",
			"country": "Albion"
		},
		"payment": {"type": "credit-card"}
	}`
	req := withUser(httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutHandler_MissingAddress(t *testing.T) {
	handler := handlers.CheckoutHandler(testLogger(), &fakeCheckoutService{})

	reqBody := `{"payment": {"type": "credit-card"}}`
	req := withUser(httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetOrderHandler_AccessDenied(t *testing.T) {
	handler := handlers.GetOrderHandler(testLogger(), &fakeOrderService{err: service.ErrOrderAccessDenied})

	req := withUser(httptest.NewRequest("GET", "/api/orders/RITUAL-1", nil), 2)
	req = withURLParam(req, "orderID", "RITUAL-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	handler := handlers.GetOrderHandler(testLogger(), &fakeOrderService{err: storage.ErrOrderNotFound})

	req := withUser(httptest.NewRequest("GET", "/api/orders/RITUAL-404", nil), 1)
	req = withURLParam(req, "orderID", "RITUAL-404")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListOrdersHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{orders: []*models.Order{{ID: "RITUAL-1", UserID: "merlin"}}}
	handler := handlers.ListOrdersHandler(testLogger(), fakeSvc)

	req := withUser(httptest.NewRequest("GET", "/api/orders", nil), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []*models.Order
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}

func TestEarningsHandler_Success(t *testing.T) {
	fakeSvc := &fakeReportService{earnings: &report.Earnings{
		Total:  decimal.NewFromFloat(100.00),
		Count:  2,
		Orders: []*models.Order{},
	}}
	handler := handlers.EarningsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/admin/earnings?from=2025-03-01&to=2025-03-31", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Total json.RawMessage `json:"total"`
		Count int             `json:"count"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
}

func TestMonthlyEarningsHandler_InvalidYear(t *testing.T) {
	handler := handlers.MonthlyEarningsHandler(testLogger(), &fakeReportService{})

	req := httptest.NewRequest("GET", "/api/admin/earnings/monthly?year=abc", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

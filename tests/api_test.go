package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

const baseURL = "http://localhost:8080"

// AuthResponse структура ответа при аутентификации
type AuthResponse struct {
	Token string `json:"token"`
}

// CartItemRequest структура запроса на добавление позиции в корзину
type CartItemRequest struct {
	GameID   int64 `json:"gameId"`
	Quantity int   `json:"quantity"`
}

// CheckoutRequest структура запроса на оформление заказа
type CheckoutRequest struct {
	ShippingAddress struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Address  string `json:"address"`
		City     string `json:"city"`
		Country  string `json:"country"`
	} `json:"shippingAddress"`
	ShippingMethod string `json:"shippingMethod"`
	Payment        struct {
		Type       string `json:"type"`
		CardNumber string `json:"cardNumber"`
	} `json:"payment"`
}

func authenticateUser(t *testing.T, username, password string) string {
	reqBody := []byte(`{"username": "` + username + `", "password": "` + password + `"}`)
	resp, err := http.Post(baseURL+"/api/auth", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err, "Auth request should not error")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "Expected 200 OK for valid auth")

	var authResp AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	assert.NoError(t, err, "Decoding auth response should succeed")
	assert.NotEmpty(t, authResp.Token, "Token should not be empty")
	return authResp.Token
}

func doAuthorized(t *testing.T, method, path string, token string, body []byte) *http.Response {
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	return resp
}

// сценарий с успешной аутентификацией пользователя
func TestAuth(t *testing.T) {
	token := authenticateUser(t, "testuser@gmail.com", "testpass")
	assert.NotEmpty(t, token, "token should be obtained")
}

// сценарий с безуспешной аутентификацией пользователя
func TestAuthInvalid(t *testing.T) {
	reqBody := []byte(`{"username": "", "password": ""}`)
	resp, err := http.Post(baseURL+"/api/auth", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for invalid auth")
}

// сценарий с просмотром каталога (публичный доступ)
func TestListGames(t *testing.T) {
	resp, err := http.Get(baseURL + "/api/games")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "expected 200 OK for /api/games")
}

// сценарий с просмотром корзины (пользователь не авторизован)
func TestGetCartUnauthorized(t *testing.T) {
	req, err := http.NewRequest("GET", baseURL+"/api/cart", nil)
	assert.NoError(t, err)
	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 unauthorized for missing token")
}

// сценарий работы с корзиной: добавление позиции и просмотр
func TestCartFlow(t *testing.T) {
	token := authenticateUser(t, "cartuser@test.com", "testpass")

	requestBody := CartItemRequest{GameID: 1, Quantity: 1}
	jsonBody, err := json.Marshal(requestBody)
	assert.NoError(t, err)

	resp := doAuthorized(t, "POST", "/api/cart/items", token, jsonBody)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "expected 200 for adding cart item")

	getResp := doAuthorized(t, "GET", "/api/cart", token, nil)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode, "expected 200 for viewing cart")
}

// сценарий оформления заказа из наполненной корзины
func TestCheckoutFlow(t *testing.T) {
	token := authenticateUser(t, "checkoutuser@test.com", "testpass")

	cartBody, err := json.Marshal(CartItemRequest{GameID: 1, Quantity: 1})
	assert.NoError(t, err)
	addResp := doAuthorized(t, "POST", "/api/cart/items", token, cartBody)
	defer addResp.Body.Close()
	assert.Equal(t, http.StatusOK, addResp.StatusCode)

	var checkout CheckoutRequest
	checkout.ShippingAddress.FullName = "Checkout User"
	checkout.ShippingAddress.Email = "checkoutuser@test.com"
	checkout.ShippingAddress.Address = "Crystal Cave 1"
	checkout.ShippingAddress.City = "Camelot"
	checkout.ShippingAddress.Country = "Albion"
	checkout.ShippingMethod = "standard"
	checkout.Payment.Type = "credit-card"
	checkout.Payment.CardNumber = "4111111111111111"

	jsonBody, err := json.Marshal(checkout)
	assert.NoError(t, err)

	resp := doAuthorized(t, "POST", "/api/checkout", token, jsonBody)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "expected 201 for successful checkout")

	var order struct {
		ID             string `json:"id"`
		TrackingNumber string `json:"trackingNumber"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.NotEmpty(t, order.ID)
	assert.NotEmpty(t, order.TrackingNumber)

	// История заказов должна содержать оформленный заказ
	listResp := doAuthorized(t, "GET", "/api/orders", token, nil)
	defer listResp.Body.Close()
	assert.Equal(t, http.StatusOK, listResp.StatusCode, "expected 200 for order history")
}

// сценарий оформления заказа с пустой корзиной
func TestCheckoutEmptyCart(t *testing.T) {
	token := authenticateUser(t, "emptycart@test.com", "testpass")

	var checkout CheckoutRequest
	checkout.ShippingAddress.FullName = "Empty Cart"
	checkout.ShippingAddress.Email = "emptycart@test.com"
	checkout.ShippingAddress.Address = "Nowhere 0"
	checkout.ShippingAddress.City = "Camelot"
	checkout.ShippingAddress.Country = "Albion"
	checkout.Payment.Type = "credit-card"

	jsonBody, err := json.Marshal(checkout)
	assert.NoError(t, err)

	resp := doAuthorized(t, "POST", "/api/checkout", token, jsonBody)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for empty cart")
}

// сценарий доступа к админским отчётам без прав администратора
func TestAdminEarningsForbidden(t *testing.T) {
	token := authenticateUser(t, "regular@test.com", "testpass")

	resp := doAuthorized(t, "GET", "/api/admin/earnings?from=2025-01-01&to=2025-12-31", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "expected 403 for non-admin user")
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/jwt-new/jwtmiddleware"
	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

// CheckoutRequest представляет входной JSON для оформления заказа
type CheckoutRequest struct {
	ShippingAddress struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Phone    string `json:"phone"`
		Address  string `json:"address" validate:"required"`
		City     string `json:"city" validate:"required"`
		Country  string `json:"country" validate:"required"`
		ZipCode  string `json:"zipCode"`
	} `json:"shippingAddress" validate:"required"`
	ShippingMethod string `json:"shippingMethod"`
	Payment        struct {
		Type       string `json:"type" validate:"required"`
		CardNumber string `json:"cardNumber"`
		CardHolder string `json:"cardHolder"`
	} `json:"payment" validate:"required"`
}

// CheckoutHandler обрабатывает запрос POST /api/checkout
func CheckoutHandler(log *slog.Logger, checkout service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		order, err := checkout.Checkout(r.Context(), userID, service.CheckoutRequest{
			ShippingAddress: models.ShippingAddress{
				FullName: req.ShippingAddress.FullName,
				Email:    req.ShippingAddress.Email,
				Phone:    req.ShippingAddress.Phone,
				Address:  req.ShippingAddress.Address,
				City:     req.ShippingAddress.City,
				Country:  req.ShippingAddress.Country,
				ZipCode:  req.ShippingAddress.ZipCode,
			},
			ShippingMethod: req.ShippingMethod,
			PaymentType:    req.Payment.Type,
			CardNumber:     req.Payment.CardNumber,
			CardHolder:     req.Payment.CardHolder,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyCart):
				http.Error(w, "cart is empty", http.StatusBadRequest)
			case errors.Is(err, storage.ErrInsufficientStock):
				http.Error(w, "insufficient stock", http.StatusConflict)
			case errors.Is(err, storage.ErrGameNotFound):
				http.Error(w, "game not found", http.StatusNotFound)
			default:
				logger.Error("checkout failed", slog.Any("error", err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(logger, w, http.StatusCreated, order)
	}
}

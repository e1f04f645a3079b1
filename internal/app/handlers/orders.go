package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powermagic/shop/internal/jwt-new/jwtmiddleware"
	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

// ListOrdersHandler обрабатывает запрос GET /api/orders
func ListOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		list, err := orders.ListByUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, list)
	}
}

// GetOrderHandler обрабатывает запрос GET /api/orders/{orderID}
func GetOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		isAdmin, _ := jwtmiddleware.AdminFromContext(r.Context())

		orderID := chi.URLParam(r, "orderID")
		if orderID == "" {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		order, err := orders.GetByID(r.Context(), orderID, userID, isAdmin)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, service.ErrOrderAccessDenied):
				http.Error(w, "access denied", http.StatusForbidden)
			default:
				logger.Error("failed to get order", slog.Any("error", err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(logger, w, http.StatusOK, order)
	}
}

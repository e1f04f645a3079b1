package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/powermagic/shop/internal/jwt-new/jwtmiddleware"
	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

// CartItemRequest представляет входной JSON для добавления позиции в корзину
type CartItemRequest struct {
	GameID   int64 `json:"gameId" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

// QuantityRequest представляет входной JSON для изменения количества
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// GetCartHandler обрабатывает запрос GET /api/cart
func GetCartHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		cart, err := carts.GetCart(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get cart", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, cart)
	}
}

// AddCartItemHandler обрабатывает запрос POST /api/cart/items
func AddCartItemHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCartItemHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CartItemRequest
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

		if err := carts.AddItem(r.Context(), userID, req.GameID, req.Quantity); err != nil {
			if errors.Is(err, storage.ErrGameNotFound) {
				http.Error(w, "game not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to add cart item", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"message": "Item added to cart"})
	}
}

// UpdateCartItemHandler обрабатывает запрос PUT /api/cart/items/{gameID}
func UpdateCartItemHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartItemHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		gameID, ok := idParam(r, "gameID")
		if !ok {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		var req QuantityRequest
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

		if err := carts.SetItemQuantity(r.Context(), userID, gameID, req.Quantity); err != nil {
			if errors.Is(err, storage.ErrCartItemNotFound) {
				http.Error(w, "cart item not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to update cart item", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"message": "Cart item updated"})
	}
}

// RemoveCartItemHandler обрабатывает запрос DELETE /api/cart/items/{gameID}
func RemoveCartItemHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveCartItemHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		gameID, ok := idParam(r, "gameID")
		if !ok {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		if err := carts.RemoveItem(r.Context(), userID, gameID); err != nil {
			if errors.Is(err, storage.ErrCartItemNotFound) {
				http.Error(w, "cart item not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to remove cart item", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearCartHandler обрабатывает запрос DELETE /api/cart
func ClearCartHandler(log *slog.Logger, carts service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := carts.Clear(r.Context(), userID); err != nil {
			logger.Error("failed to clear cart", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

// GameRequest представляет входной JSON для создания и обновления товара
type GameRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
	Platform    string          `json:"platform"`
	Trailer     string          `json:"trailer"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsActive    bool            `json:"isActive"`
	SKU         string          `json:"sku"`
	Discount    int             `json:"discount" validate:"gte=0,lte=100"`
	Featured    bool            `json:"featured"`
}

func (req *GameRequest) toModel() *models.Game {
	images := req.Images
	if images == nil {
		images = []string{}
	}
	return &models.Game{
		Title:       req.Title,
		Description: req.Description,
		Images:      images,
		Price:       req.Price,
		Category:    req.Category,
		Rating:      req.Rating,
		Platform:    req.Platform,
		Trailer:     req.Trailer,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		SKU:         req.SKU,
		Discount:    req.Discount,
		Featured:    req.Featured,
	}
}

// ListGamesHandler обрабатывает запрос GET /api/games.
// Публичная витрина показывает только активные товары;
// необязательные параметры category и max_price сужают выборку.
func ListGamesHandler(log *slog.Logger, catalog service.CatalogService, includeInactive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListGamesHandler"
		logger := log.With(slog.String("op", op))

		filter := storage.GameFilter{
			Category:        r.URL.Query().Get("category"),
			IncludeInactive: includeInactive,
		}
		if raw := r.URL.Query().Get("max_price"); raw != "" {
			maxPrice, err := decimal.NewFromString(raw)
			if err != nil || maxPrice.IsNegative() {
				http.Error(w, "invalid max_price", http.StatusBadRequest)
				return
			}
			filter.MaxPrice = maxPrice
		}

		games, err := catalog.ListGames(r.Context(), filter)
		if err != nil {
			logger.Error("failed to list games", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if games == nil {
			games = []*models.Game{}
		}
		writeJSON(logger, w, http.StatusOK, games)
	}
}

// GetGameHandler обрабатывает запрос GET /api/games/{gameID}
func GetGameHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetGameHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "gameID")
		if !ok {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		game, err := catalog.GetGame(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrGameNotFound) {
				http.Error(w, "game not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to get game", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, game)
	}
}

// CreateGameHandler обрабатывает запрос POST /api/games (только администратор)
func CreateGameHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateGameHandler"
		logger := log.With(slog.String("op", op))

		var req GameRequest
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

		created, err := catalog.CreateGame(r.Context(), req.toModel())
		if err != nil {
			logger.Error("failed to create game", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusCreated, created)
	}
}

// UpdateGameHandler обрабатывает запрос PUT /api/games/{gameID} (только администратор)
func UpdateGameHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateGameHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "gameID")
		if !ok {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		var req GameRequest
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

		game := req.toModel()
		game.ID = id
		if err := catalog.UpdateGame(r.Context(), game); err != nil {
			if errors.Is(err, storage.ErrGameNotFound) {
				http.Error(w, "game not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to update game", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, game)
	}
}

// DeleteGameHandler обрабатывает запрос DELETE /api/games/{gameID} (только администратор)
func DeleteGameHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteGameHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "gameID")
		if !ok {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		if err := catalog.DeleteGame(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrGameNotFound) {
				http.Error(w, "game not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to delete game", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleGameHandler обрабатывает запрос POST /api/games/{gameID}/toggle (только администратор)
func ToggleGameHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ToggleGameHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "gameID")
		if !ok {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		active, err := catalog.ToggleGame(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrGameNotFound) {
				http.Error(w, "game not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to toggle game", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]bool{"isActive": active})
	}
}

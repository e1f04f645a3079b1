package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

// ListUsersHandler обрабатывает запрос GET /api/admin/users
func ListUsersHandler(log *slog.Logger, users service.AdminUserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUsersHandler"
		logger := log.With(slog.String("op", op))

		list, err := users.ListUsers(r.Context())
		if err != nil {
			logger.Error("failed to list users", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, list)
	}
}

// ToggleUserHandler обрабатывает запрос POST /api/admin/users/{userID}/toggle
func ToggleUserHandler(log *slog.Logger, users service.AdminUserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ToggleUserHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "userID")
		if !ok {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		isActive, err := users.ToggleUserActive(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to toggle user", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]bool{"isActive": isActive})
	}
}

// EarningsHandler обрабатывает запрос GET /api/admin/earnings?from=YYYY-MM-DD&to=YYYY-MM-DD
func EarningsHandler(log *slog.Logger, reports service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.EarningsHandler"
		logger := log.With(slog.String("op", op))

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		earnings, err := reports.EarningsBetween(r.Context(), from, to)
		if err != nil {
			logger.Error("failed to calculate earnings", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, earnings)
	}
}

// MonthlyEarningsHandler обрабатывает запрос GET /api/admin/earnings/monthly?year=YYYY
func MonthlyEarningsHandler(log *slog.Logger, reports service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MonthlyEarningsHandler"
		logger := log.With(slog.String("op", op))

		year := 0
		if raw := r.URL.Query().Get("year"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "invalid year", http.StatusBadRequest)
				return
			}
			year = parsed
		}

		monthly, err := reports.MonthlyEarnings(r.Context(), year)
		if err != nil {
			logger.Error("failed to calculate monthly earnings", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]any{"year": year, "monthly": monthly})
	}
}

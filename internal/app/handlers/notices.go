package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

// NoticeRequest представляет входной JSON для создания и обновления новости
type NoticeRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Image   string `json:"image"`
}

// ListNoticesHandler обрабатывает запрос GET /api/notices
func ListNoticesHandler(log *slog.Logger, notices service.NoticeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListNoticesHandler"
		logger := log.With(slog.String("op", op))

		list, err := notices.ListNotices(r.Context())
		if err != nil {
			logger.Error("failed to list notices", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, list)
	}
}

// CreateNoticeHandler обрабатывает запрос POST /api/admin/notices
func CreateNoticeHandler(log *slog.Logger, notices service.NoticeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateNoticeHandler"
		logger := log.With(slog.String("op", op))

		var req NoticeRequest
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

		notice, err := notices.CreateNotice(r.Context(), &models.Notice{
			Title:   req.Title,
			Content: req.Content,
			Image:   req.Image,
		})
		if err != nil {
			logger.Error("failed to create notice", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusCreated, notice)
	}
}

// UpdateNoticeHandler обрабатывает запрос PUT /api/admin/notices/{noticeID}
func UpdateNoticeHandler(log *slog.Logger, notices service.NoticeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateNoticeHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "noticeID")
		if !ok {
			http.Error(w, "invalid notice id", http.StatusBadRequest)
			return
		}

		var req NoticeRequest
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

		err := notices.UpdateNotice(r.Context(), &models.Notice{
			ID:      id,
			Title:   req.Title,
			Content: req.Content,
			Image:   req.Image,
		})
		if err != nil {
			if errors.Is(err, storage.ErrNoticeNotFound) {
				http.Error(w, "notice not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to update notice", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"message": "Notice updated"})
	}
}

// DeleteNoticeHandler обрабатывает запрос DELETE /api/admin/notices/{noticeID}
func DeleteNoticeHandler(log *slog.Logger, notices service.NoticeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteNoticeHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "noticeID")
		if !ok {
			http.Error(w, "invalid notice id", http.StatusBadRequest)
			return
		}

		if err := notices.DeleteNotice(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNoticeNotFound) {
				http.Error(w, "notice not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to delete notice", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/storage"
)

// NoticeService определяет операции с объявлениями витрины.
type NoticeService interface {
	ListNotices(ctx context.Context) ([]*models.Notice, error)
	CreateNotice(ctx context.Context, notice *models.Notice) (*models.Notice, error)
	UpdateNotice(ctx context.Context, notice *models.Notice) error
	DeleteNotice(ctx context.Context, id int64) error
}

type noticeService struct {
	log        *slog.Logger
	noticeRepo storage.NoticeStorage
}

func NewNoticeService(log *slog.Logger, noticeRepo storage.NoticeStorage) NoticeService {
	return &noticeService{log: log, noticeRepo: noticeRepo}
}

func (s *noticeService) ListNotices(ctx context.Context) ([]*models.Notice, error) {
	const op = "service.NoticeService.ListNotices"
	notices, err := s.noticeRepo.ListNotices(ctx)
	if err != nil {
		s.log.Error("failed to list notices", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list notices: %w", op, err)
	}
	return notices, nil
}

func (s *noticeService) CreateNotice(ctx context.Context, notice *models.Notice) (*models.Notice, error) {
	const op = "service.NoticeService.CreateNotice"
	created, err := s.noticeRepo.CreateNotice(ctx, notice)
	if err != nil {
		s.log.Error("failed to create notice", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create notice: %w", op, err)
	}
	s.log.Info("notice created", slog.String("op", op), slog.Int64("noticeID", created.ID))
	return created, nil
}

func (s *noticeService) UpdateNotice(ctx context.Context, notice *models.Notice) error {
	const op = "service.NoticeService.UpdateNotice"
	if err := s.noticeRepo.UpdateNotice(ctx, notice); err != nil {
		s.log.Error("failed to update notice", slog.String("op", op), slog.Int64("noticeID", notice.ID), slog.Any("error", err))
		return fmt.Errorf("%s: failed to update notice: %w", op, err)
	}
	return nil
}

func (s *noticeService) DeleteNotice(ctx context.Context, id int64) error {
	const op = "service.NoticeService.DeleteNotice"
	if err := s.noticeRepo.DeleteNotice(ctx, id); err != nil {
		s.log.Error("failed to delete notice", slog.String("op", op), slog.Int64("noticeID", id), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete notice: %w", op, err)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/storage"
)

// AdminUserService определяет админские операции над пользователями.
type AdminUserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	// ToggleUserActive блокирует или разблокирует пользователя, возвращает новое состояние.
	ToggleUserActive(ctx context.Context, id int64) (bool, error)
}

type adminUserService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
}

func NewAdminUserService(log *slog.Logger, userRepo storage.UserStorage) AdminUserService {
	return &adminUserService{log: log, userRepo: userRepo}
}

func (s *adminUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "service.AdminUserService.ListUsers"
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list users: %w", op, err)
	}
	return users, nil
}

func (s *adminUserService) ToggleUserActive(ctx context.Context, id int64) (bool, error) {
	const op = "service.AdminUserService.ToggleUserActive"
	active, err := s.userRepo.ToggleUserActive(ctx, id)
	if err != nil {
		s.log.Error("failed to toggle user", slog.String("op", op), slog.Int64("userID", id), slog.Any("error", err))
		return false, fmt.Errorf("%s: failed to toggle user: %w", op, err)
	}
	s.log.Info("user toggled", slog.String("op", op), slog.Int64("userID", id), slog.Bool("active", active))
	return active, nil
}

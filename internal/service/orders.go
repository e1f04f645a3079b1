package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/storage"
)

// OrderService определяет операции просмотра истории заказов.
type OrderService interface {
	// ListByUser возвращает заказы пользователя, новые первыми.
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	// GetByID возвращает заказ; чужой заказ доступен только администратору.
	GetByID(ctx context.Context, orderID string, userID int64, isAdmin bool) (*models.Order, error)
}

var ErrOrderAccessDenied = fmt.Errorf("order belongs to another user")

type orderService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, userRepo storage.UserStorage, orderRepo storage.OrderStorage) OrderService {
	return &orderService{
		log:       log,
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

// ListByUser ищет заказы по всем свободным идентификаторам, под которыми
// пользователь мог оформлять покупки: никнейм, полное имя, email.
func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListByUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	identifiers := userIdentifiers(user)
	orders, err := s.orderRepo.GetOrdersByIdentifiers(ctx, identifiers)
	if err != nil {
		logger.Error("failed to get orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) GetByID(ctx context.Context, orderID string, userID int64, isAdmin bool) (*models.Order, error) {
	const op = "service.OrderService.GetByID"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", orderID))

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}

	if isAdmin {
		return order, nil
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	for _, id := range userIdentifiers(user) {
		if strings.EqualFold(order.UserID, id) {
			return order, nil
		}
	}
	logger.Warn("order access denied", slog.Int64("userID", userID))
	return nil, fmt.Errorf("%s: %w", op, ErrOrderAccessDenied)
}

// userIdentifiers собирает непустые идентификаторы, под которыми заказы
// пользователя могли попасть в журнал
func userIdentifiers(user *models.User) []string {
	var ids []string
	for _, id := range []string{user.Nickname, user.FullName, user.Email} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/report"
	"github.com/powermagic/shop/internal/storage"
)

// ReportService считает выручку для админских отчётов.
// Перед подсчётом журнал заказов сводится с накопленными суммами
// пользователей: недостающая выручка дополняется сверочными заказами.
type ReportService interface {
	EarningsBetween(ctx context.Context, from, to string) (*report.Earnings, error)
	MonthlyEarnings(ctx context.Context, year int) ([12]decimal.Decimal, error)
}

type reportService struct {
	log        *slog.Logger
	orderRepo  storage.OrderStorage
	userRepo   storage.UserStorage
	reconciler *report.Reconciler
}

func NewReportService(log *slog.Logger, orderRepo storage.OrderStorage, userRepo storage.UserStorage, reconciler *report.Reconciler) ReportService {
	return &reportService{
		log:        log,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		reconciler: reconciler,
	}
}

func (s *reportService) EarningsBetween(ctx context.Context, from, to string) (*report.Earnings, error) {
	const op = "service.ReportService.EarningsBetween"
	logger := s.log.With(slog.String("op", op), slog.String("from", from), slog.String("to", to))

	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		logger.Error("failed to list users", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list users: %w", op, err)
	}

	combined := s.reconciler.Combine(orders, users)
	earnings := report.EarningsBetween(combined, from, to)
	logger.Info("earnings computed", slog.Int("count", earnings.Count))
	return &earnings, nil
}

func (s *reportService) MonthlyEarnings(ctx context.Context, year int) ([12]decimal.Decimal, error) {
	const op = "service.ReportService.MonthlyEarnings"
	logger := s.log.With(slog.String("op", op), slog.Int("year", year))

	var zero [12]decimal.Decimal

	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return zero, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		logger.Error("failed to list users", slog.Any("error", err))
		return zero, fmt.Errorf("%s: failed to list users: %w", op, err)
	}

	combined := s.reconciler.Combine(orders, users)
	return report.MonthlyEarnings(combined, year), nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/storage"
)

// CatalogService определяет операции с каталогом игр.
// Методы изменения каталога доступны только администраторам,
// контроль доступа выполняется на уровне маршрутов.
type CatalogService interface {
	ListGames(ctx context.Context, filter storage.GameFilter) ([]*models.Game, error)
	GetGame(ctx context.Context, id int64) (*models.Game, error)
	CreateGame(ctx context.Context, game *models.Game) (*models.Game, error)
	UpdateGame(ctx context.Context, game *models.Game) error
	DeleteGame(ctx context.Context, id int64) error
	ToggleGame(ctx context.Context, id int64) (bool, error)
}

type catalogService struct {
	log      *slog.Logger
	gameRepo storage.GameStorage
}

func NewCatalogService(log *slog.Logger, gameRepo storage.GameStorage) CatalogService {
	return &catalogService{log: log, gameRepo: gameRepo}
}

func (s *catalogService) ListGames(ctx context.Context, filter storage.GameFilter) ([]*models.Game, error) {
	const op = "service.CatalogService.ListGames"
	games, err := s.gameRepo.ListGames(ctx, filter)
	if err != nil {
		s.log.Error("failed to list games", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list games: %w", op, err)
	}
	return games, nil
}

func (s *catalogService) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	const op = "service.CatalogService.GetGame"
	game, err := s.gameRepo.GetGameByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get game: %w", op, err)
	}
	return game, nil
}

func (s *catalogService) CreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	const op = "service.CatalogService.CreateGame"
	logger := s.log.With(slog.String("op", op), slog.String("title", game.Title))

	created, err := s.gameRepo.CreateGame(ctx, game)
	if err != nil {
		logger.Error("failed to create game", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create game: %w", op, err)
	}
	logger.Info("game created", slog.Int64("gameID", created.ID))
	return created, nil
}

func (s *catalogService) UpdateGame(ctx context.Context, game *models.Game) error {
	const op = "service.CatalogService.UpdateGame"
	if err := s.gameRepo.UpdateGame(ctx, game); err != nil {
		s.log.Error("failed to update game", slog.String("op", op), slog.Int64("gameID", game.ID), slog.Any("error", err))
		return fmt.Errorf("%s: failed to update game: %w", op, err)
	}
	return nil
}

func (s *catalogService) DeleteGame(ctx context.Context, id int64) error {
	const op = "service.CatalogService.DeleteGame"
	if err := s.gameRepo.DeleteGame(ctx, id); err != nil {
		s.log.Error("failed to delete game", slog.String("op", op), slog.Int64("gameID", id), slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete game: %w", op, err)
	}
	s.log.Info("game deleted", slog.String("op", op), slog.Int64("gameID", id))
	return nil
}

func (s *catalogService) ToggleGame(ctx context.Context, id int64) (bool, error) {
	const op = "service.CatalogService.ToggleGame"
	active, err := s.gameRepo.ToggleGameActive(ctx, id)
	if err != nil {
		s.log.Error("failed to toggle game", slog.String("op", op), slog.Int64("gameID", id), slog.Any("error", err))
		return false, fmt.Errorf("%s: failed to toggle game: %w", op, err)
	}
	s.log.Info("game toggled", slog.String("op", op), slog.Int64("gameID", id), slog.Bool("active", active))
	return active, nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// GameFilter — необязательные фильтры каталога
type GameFilter struct {
	Category        string
	MaxPrice        decimal.Decimal // нулевое значение = без ограничения
	IncludeInactive bool
}

// GameStorage описывает методы для работы с каталогом игр.
type GameStorage interface {
	ListGames(ctx context.Context, filter GameFilter) ([]*models.Game, error)
	GetGameByID(ctx context.Context, id int64) (*models.Game, error)
	CreateGame(ctx context.Context, game *models.Game) (*models.Game, error)
	UpdateGame(ctx context.Context, game *models.Game) error
	DeleteGame(ctx context.Context, id int64) error
	ToggleGameActive(ctx context.Context, id int64) (bool, error)
	// LockGameByIDTx блокирует строку товара на время транзакции оформления заказа.
	LockGameByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Game, error)
	// DecrementStockTx списывает количество со склада; при нехватке возвращает ErrInsufficientStock.
	DecrementStockTx(ctx context.Context, tx *sql.Tx, id int64, quantity int) error
}

type gameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) GameStorage {
	return &gameRepository{db: db}
}

const gameColumns = `id, title, description, images, price, category, rating, platform, trailer, stock, is_active, sku, discount, featured`

func scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	game := &models.Game{}
	var images []byte
	if err := row.Scan(
		&game.ID, &game.Title, &game.Description, &images, &game.Price,
		&game.Category, &game.Rating, &game.Platform, &game.Trailer,
		&game.Stock, &game.IsActive, &game.SKU, &game.Discount, &game.Featured,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &game.Images); err != nil {
		return nil, fmt.Errorf("failed to decode game images: %w", err)
	}
	return game, nil
}

func (r *gameRepository) ListGames(ctx context.Context, filter GameFilter) ([]*models.Game, error) {
	// Фильтры собираются динамически, позиционные аргументы нумеруются по порядку
	query := "SELECT " + gameColumns + " FROM games WHERE 1=1"
	var args []interface{}

	if !filter.IncludeInactive {
		query += " AND is_active = TRUE"
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if !filter.MaxPrice.IsZero() {
		args = append(args, filter.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	query += " ORDER BY featured DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepository) GetGameByID(ctx context.Context, id int64) (*models.Game, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = $1", id)
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (r *gameRepository) CreateGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	images, err := json.Marshal(game.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode game images: %w", err)
	}
	var id int64
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO games (title, description, images, price, category, rating, platform, trailer, stock, is_active, sku, discount, featured)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		game.Title, game.Description, images, game.Price, game.Category, game.Rating,
		game.Platform, game.Trailer, game.Stock, game.IsActive, game.SKU, game.Discount, game.Featured,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	game.ID = id
	return game, nil
}

func (r *gameRepository) UpdateGame(ctx context.Context, game *models.Game) error {
	images, err := json.Marshal(game.Images)
	if err != nil {
		return fmt.Errorf("failed to encode game images: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE games SET title = $1, description = $2, images = $3, price = $4, category = $5,
		 rating = $6, platform = $7, trailer = $8, stock = $9, is_active = $10, sku = $11,
		 discount = $12, featured = $13 WHERE id = $14`,
		game.Title, game.Description, images, game.Price, game.Category, game.Rating,
		game.Platform, game.Trailer, game.Stock, game.IsActive, game.SKU, game.Discount,
		game.Featured, game.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *gameRepository) DeleteGame(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM games WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// ToggleGameActive переключает видимость товара на витрине
func (r *gameRepository) ToggleGameActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx,
		"UPDATE games SET is_active = NOT is_active WHERE id = $1 RETURNING is_active", id,
	).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrGameNotFound
		}
		return false, err
	}
	return active, nil
}

func (r *gameRepository) LockGameByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Game, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = $1 FOR UPDATE NOWAIT", id)
	game, err := scanGame(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock
				return nil, fmt.Errorf("resource is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (r *gameRepository) DecrementStockTx(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE games SET stock = stock - $1 WHERE id = $2 AND stock >= $1", quantity, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/powermagic/shop/internal/domain/models"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartStorage описывает методы для работы с корзиной пользователя.
// Корзина хранится на сервере и привязана к пользователю.
type CartStorage interface {
	GetCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error)
	// AddCartItem добавляет позицию или увеличивает количество уже существующей.
	AddCartItem(ctx context.Context, userID, gameID int64, quantity int) error
	SetCartItemQuantity(ctx context.Context, userID, gameID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID, gameID int64) error
	ClearCart(ctx context.Context, userID int64) error
	ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetCartItems(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT game_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY game_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(&item.GameID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) AddCartItem(ctx context.Context, userID, gameID int64, quantity int) error {
	query := `INSERT INTO cart_items (user_id, game_id, quantity) VALUES ($1, $2, $3)
	          ON CONFLICT (user_id, game_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	if _, err := r.db.ExecContext(ctx, query, userID, gameID, quantity); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) SetCartItemQuantity(ctx context.Context, userID, gameID int64, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND game_id = $3",
		quantity, userID, gameID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) RemoveCartItem(ctx context.Context, userID, gameID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1 AND game_id = $2", userID, gameID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) ClearCart(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

func (r *cartRepository) ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/powermagic/shop/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
// Заказы после создания не изменяются, поэтому методов обновления нет.
type OrderStorage interface {
	// CreateOrderTx вставляет новый заказ в рамках транзакции оформления покупки.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// GetOrdersByIdentifiers возвращает заказы, чей свободный идентификатор
	// владельца совпадает с одним из переданных (никнейм, имя, email).
	GetOrdersByIdentifiers(ctx context.Context, identifiers []string) ([]*models.Order, error)
	// ListOrders возвращает все заказы для админских отчётов, новые первыми.
	ListOrders(ctx context.Context) ([]*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, items, subtotal, shipping_cost, total, shipping_address, shipping_method, payment_method, status_history, current_status, created_at, estimated_delivery, tracking_number`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	order := &models.Order{}
	var items, address, payment, history []byte
	var estimated sql.NullTime
	if err := row.Scan(
		&order.ID, &order.UserID, &items, &order.Subtotal, &order.ShippingCost,
		&order.Total, &address, &order.ShippingMethod, &payment, &history,
		&order.CurrentStatus, &order.CreatedAt, &estimated, &order.TrackingNumber,
	); err != nil {
		return nil, err
	}
	// Слабоструктурированные части заказа хранятся в JSONB
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to decode shipping address: %w", err)
	}
	if err := json.Unmarshal(payment, &order.PaymentMethod); err != nil {
		return nil, fmt.Errorf("failed to decode payment method: %w", err)
	}
	if err := json.Unmarshal(history, &order.StatusHistory); err != nil {
		return nil, fmt.Errorf("failed to decode status history: %w", err)
	}
	if estimated.Valid {
		order.EstimatedDelivery = estimated.Time
	}
	return order, nil
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to encode shipping address: %w", err)
	}
	payment, err := json.Marshal(order.PaymentMethod)
	if err != nil {
		return fmt.Errorf("failed to encode payment method: %w", err)
	}
	history, err := json.Marshal(order.StatusHistory)
	if err != nil {
		return fmt.Errorf("failed to encode status history: %w", err)
	}

	var estimated interface{}
	if !order.EstimatedDelivery.IsZero() {
		estimated = order.EstimatedDelivery
	}

	query := `INSERT INTO orders (id, user_id, items, subtotal, shipping_cost, total, shipping_address, shipping_method, payment_method, status_history, current_status, created_at, estimated_delivery, tracking_number)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = tx.ExecContext(ctx, query,
		order.ID, order.UserID, items, order.Subtotal, order.ShippingCost, order.Total,
		address, order.ShippingMethod, payment, history, order.CurrentStatus,
		order.CreatedAt, estimated, order.TrackingNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrdersByIdentifiers(ctx context.Context, identifiers []string) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE user_id = ANY($1) ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query, pq.Array(identifiers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

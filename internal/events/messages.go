package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
)

// OrderCreatedMessage — компактное сообщение о созданном заказе.
// Содержит только идентификаторы и сумму; подписчик при необходимости
// достаёт полный заказ из БД.
type OrderCreatedMessage struct {
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewOrderCreatedMessage(order *models.Order) *OrderCreatedMessage {
	return &OrderCreatedMessage{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *OrderCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// OrderCreatedMessageFromJSON creates a message from JSON bytes
func OrderCreatedMessageFromJSON(data []byte) (*OrderCreatedMessage, error) {
	var msg OrderCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

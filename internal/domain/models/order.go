package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы заказа
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderItem представляет одну позицию заказа: товар, количество и
// зафиксированная на момент покупки цена единицы (со скидкой)
type OrderItem struct {
	GameID   int64           `json:"gameId"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ShippingAddress — адрес доставки, указанный при оформлении заказа
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	ZipCode  string `json:"zipCode"`
}

// PaymentMethod — способ оплаты; для карт храним только последние 4 цифры
type PaymentMethod struct {
	Type       string `json:"type"` // credit-card, qr или paypal
	CardNumber string `json:"cardNumber,omitempty"`
	CardHolder string `json:"cardHolder,omitempty"`
}

// OrderStatus — запись журнала смены статусов заказа
type OrderStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// Order представляет заказ, созданный при оформлении покупки.
// UserID хранится как свободная строка: исторически туда записывались
// никнейм, полное имя, email или guest-идентификатор, поэтому сопоставление
// заказа с пользователем выполняется эвристиками в пакете report.
// После создания заказ не изменяется.
type Order struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	Items             []OrderItem     `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	ShippingCost      decimal.Decimal `json:"shippingCost"`
	Total             decimal.Decimal `json:"total"` // инвариант: total == subtotal + shippingCost
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	ShippingMethod    string          `json:"shippingMethod,omitempty"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	StatusHistory     []OrderStatus   `json:"statusHistory"`
	CurrentStatus     string          `json:"currentStatus"`
	CreatedAt         time.Time       `json:"createdAt"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery,omitempty"`
	TrackingNumber    string          `json:"trackingNumber,omitempty"`
	// Synthetic помечает сверочный заказ, сгенерированный при построении
	// отчётов; такие заказы никогда не сохраняются в БД
	Synthetic bool `json:"synthetic,omitempty"`
}

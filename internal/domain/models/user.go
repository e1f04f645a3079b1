package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User представляет пользователя магазина
type User struct {
	ID               int64           `json:"id"`
	Nickname         string          `json:"nickname"`
	FullName         string          `json:"fullName"`
	Email            string          `json:"email"`
	PassHash         []byte          `json:"-"`
	Avatar           string          `json:"avatar"`
	IsActive         bool            `json:"isActive"`
	IsAdmin          bool            `json:"isAdmin"`
	RegistrationDate time.Time       `json:"registrationDate"`
	LastLogin        time.Time       `json:"lastLogin,omitempty"` // нулевое время = пользователь ещё не входил
	TotalOrders      int             `json:"totalOrders"`
	TotalSpent       decimal.Decimal `json:"totalSpent"` // накопленная сумма покупок, ведётся отдельно от журнала заказов
}

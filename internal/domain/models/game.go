package models

import "github.com/shopspring/decimal"

// Game представляет товар каталога (игру), доступный для покупки
type Game struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	Platform    string          `json:"platform"`
	Trailer     string          `json:"trailer,omitempty"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	SKU         string          `json:"sku"`
	Discount    int             `json:"discount"` // скидка в процентах (0-100)
	Featured    bool            `json:"featured"`
}

// DiscountedPrice возвращает цену единицы товара с учётом скидки,
// округлённую до центов
func (g *Game) DiscountedPrice() decimal.Decimal {
	if g.Discount <= 0 {
		return g.Price.Round(2)
	}
	factor := decimal.NewFromInt(100 - int64(g.Discount)).Div(decimal.NewFromInt(100))
	return g.Price.Mul(factor).Round(2)
}

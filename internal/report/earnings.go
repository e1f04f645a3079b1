package report

import (
	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
)

// Earnings — итог выручки за период
type Earnings struct {
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
	Orders []*models.Order `json:"orders"`
}

// EarningsBetween суммирует заказы, созданные в окне [from, to] включительно.
// Границы — строки дат (YYYY-MM-DD); from расширяется до начала дня,
// to — до конца дня. Некорректные границы дают нулевой результат,
// заказы с неизвестной датой создания молча пропускаются — отчёт не должен
// прерывать отрисовку. Перевёрнутое окно (from > to) не нормализуется:
// проверка диапазона выполняется буквально, валидация — забота вызывающего.
func EarningsBetween(orders []*models.Order, from, to string) Earnings {
	result := Earnings{Total: decimal.Zero, Orders: []*models.Order{}}

	fromBound, okFrom := ParseDateBound(from, false)
	toBound, okTo := ParseDateBound(to, true)
	if !okFrom || !okTo {
		return result
	}

	for _, order := range orders {
		if order.CreatedAt.IsZero() {
			continue // дата создания неизвестна
		}
		if order.CreatedAt.Before(fromBound) || order.CreatedAt.After(toBound) {
			continue
		}
		result.Total = result.Total.Add(order.Total)
		result.Count++
		result.Orders = append(result.Orders, order)
	}
	result.Total = result.Total.Round(2)
	return result
}

// MonthlyEarnings раскладывает выручку по календарным месяцам:
// индекс 0 — январь, 11 — декабрь. При year > 0 учитываются только заказы
// этого года. Каждая ячейка округлена до центов.
func MonthlyEarnings(orders []*models.Order, year int) [12]decimal.Decimal {
	var months [12]decimal.Decimal
	for i := range months {
		months[i] = decimal.Zero
	}
	for _, order := range orders {
		if order.CreatedAt.IsZero() {
			continue
		}
		if year > 0 && order.CreatedAt.Year() != year {
			continue
		}
		m := int(order.CreatedAt.Month()) - 1
		months[m] = months[m].Add(order.Total)
	}
	for i := range months {
		months[i] = months[i].Round(2)
	}
	return months
}

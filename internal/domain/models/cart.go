package models

// CartItem представляет позицию корзины пользователя.
// Цена не фиксируется: она рассчитывается от актуальной цены товара
// и фиксируется только при оформлении заказа.
type CartItem struct {
	GameID   int64 `json:"gameId"`
	Quantity int   `json:"quantity"`
}

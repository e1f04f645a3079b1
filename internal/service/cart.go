package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/storage"
)

// CartService определяет операции с корзиной пользователя.
type CartService interface {
	GetCart(ctx context.Context, userID int64) (*CartView, error)
	AddItem(ctx context.Context, userID, gameID int64, quantity int) error
	SetItemQuantity(ctx context.Context, userID, gameID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, gameID int64) error
	Clear(ctx context.Context, userID int64) error
}

// CartView — корзина с рассчитанными ценами для отдачи клиенту.
// Цена единицы учитывает текущую скидку товара.
type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CartLine struct {
	Game      *models.Game    `json:"game"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartService struct {
	log      *slog.Logger
	cartRepo storage.CartStorage
	gameRepo storage.GameStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage, gameRepo storage.GameStorage) CartService {
	return &cartService{
		log:      log,
		cartRepo: cartRepo,
		gameRepo: gameRepo,
	}
}

// GetCart собирает корзину: позиции из хранилища плюс актуальные товары и цены
func (s *cartService) GetCart(ctx context.Context, userID int64) (*CartView, error) {
	const op = "service.CartService.GetCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	items, err := s.cartRepo.GetCartItems(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart items: %w", op, err)
	}

	view := &CartView{Items: []CartLine{}, Total: decimal.Zero}
	for _, item := range items {
		game, err := s.gameRepo.GetGameByID(ctx, item.GameID)
		if err != nil {
			// Товар могли удалить из каталога — позиция пропускается
			logger.Warn("cart references missing game", slog.Int64("gameID", item.GameID), slog.Any("error", err))
			continue
		}
		unitPrice := game.DiscountedPrice()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		view.Items = append(view.Items, CartLine{
			Game:      game,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}
	view.Total = view.Total.Round(2)
	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, gameID int64, quantity int) error {
	const op = "service.CartService.AddItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("gameID", gameID))

	if quantity <= 0 {
		return fmt.Errorf("%s: quantity must be positive", op)
	}

	// В корзину можно положить только активный товар
	game, err := s.gameRepo.GetGameByID(ctx, gameID)
	if err != nil {
		logger.Error("failed to get game", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get game: %w", op, err)
	}
	if !game.IsActive {
		return fmt.Errorf("%s: game is not available", op)
	}

	if err := s.cartRepo.AddCartItem(ctx, userID, gameID, quantity); err != nil {
		logger.Error("failed to add cart item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to add cart item: %w", op, err)
	}
	logger.Info("cart item added", slog.Int("quantity", quantity))
	return nil
}

func (s *cartService) SetItemQuantity(ctx context.Context, userID, gameID int64, quantity int) error {
	const op = "service.CartService.SetItemQuantity"
	if quantity <= 0 {
		return fmt.Errorf("%s: quantity must be positive", op)
	}
	if err := s.cartRepo.SetCartItemQuantity(ctx, userID, gameID, quantity); err != nil {
		return fmt.Errorf("%s: failed to set cart item quantity: %w", op, err)
	}
	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, gameID int64) error {
	const op = "service.CartService.RemoveItem"
	if err := s.cartRepo.RemoveCartItem(ctx, userID, gameID); err != nil {
		return fmt.Errorf("%s: failed to remove cart item: %w", op, err)
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID int64) error {
	const op = "service.CartService.Clear"
	if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
	"github.com/powermagic/shop/internal/storage"
)

// ErrEmptyCart возвращается при попытке оформить заказ с пустой корзиной.
var ErrEmptyCart = fmt.Errorf("cart is empty")

// CheckoutRequest — данные, которые покупатель указывает при оформлении заказа.
type CheckoutRequest struct {
	ShippingAddress models.ShippingAddress
	ShippingMethod  string
	PaymentType     string
	CardNumber      string
	CardHolder      string
}

// OrderEventPublisher публикует событие о созданном заказе.
// Реализация может отсутствовать (nil) — тогда события не публикуются.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

// CheckoutService оформляет заказ из корзины пользователя.
type CheckoutService interface {
	Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*models.Order, error)
}

type checkoutService struct {
	log          *slog.Logger
	db           *sql.DB
	userRepo     storage.UserStorage
	gameRepo     storage.GameStorage
	cartRepo     storage.CartStorage
	orderRepo    storage.OrderStorage
	publisher    OrderEventPublisher
	shippingCost decimal.Decimal
	deliveryDays int
}

func NewCheckoutService(
	log *slog.Logger,
	db *sql.DB,
	userRepo storage.UserStorage,
	gameRepo storage.GameStorage,
	cartRepo storage.CartStorage,
	orderRepo storage.OrderStorage,
	publisher OrderEventPublisher,
	shippingCost decimal.Decimal,
	deliveryDays int,
) CheckoutService {
	return &checkoutService{
		log:          log,
		db:           db,
		userRepo:     userRepo,
		gameRepo:     gameRepo,
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		publisher:    publisher,
		shippingCost: shippingCost,
		deliveryDays: deliveryDays,
	}
}

// Checkout превращает корзину в заказ.
// Весь процесс идёт в одной транзакции: блокировка и списание остатков,
// создание заказа, обновление счётчиков пользователя, очистка корзины.
// Если что-то идет не так, транзакция откатывается.
func (s *checkoutService) Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*models.Order, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("starting checkout transaction")

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	items, err := s.cartRepo.GetCartItems(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart items: %w", op, err)
	}
	if len(items) == 0 {
		logger.Warn("cart is empty")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Блокируем товары, фиксируем цены со скидкой и списываем остатки
	orderItems := make([]models.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		game, err := s.gameRepo.LockGameByIDTx(ctx, tx, item.GameID)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to get game", slog.Int64("gameID", item.GameID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to get game: %w", op, err)
		}
		if err := s.gameRepo.DecrementStockTx(ctx, tx, game.ID, item.Quantity); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Warn("failed to decrement stock", slog.Int64("gameID", game.ID), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to decrement stock for game %d: %w", op, game.ID, err)
		}

		unitPrice := game.DiscountedPrice()
		orderItems = append(orderItems, models.OrderItem{
			GameID:   game.ID,
			Title:    game.Title,
			Quantity: item.Quantity,
			Price:    unitPrice,
		})
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)
	total := subtotal.Add(s.shippingCost).Round(2)

	order := s.buildOrder(user, orderItems, subtotal, total, req)

	if err := s.orderRepo.CreateOrderTx(ctx, tx, order); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// Обновляем накопленные суммы пользователя
	if err := s.userRepo.AddOrderTotalsTx(ctx, tx, userID, total); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to update user totals", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update user totals: %w", op, err)
	}

	if err := s.cartRepo.ClearCartTx(ctx, tx, userID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	// Коммит транзакции
	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	// Событие о заказе публикуется best-effort уже после коммита
	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			logger.Warn("failed to publish order event", slog.Any("error", err))
		}
	}

	logger.Info("checkout completed successfully", slog.String("orderID", order.ID))
	return order, nil
}

// buildOrder собирает заказ из зафиксированных позиций.
// Идентификатором владельца записывается никнейм пользователя — исторический
// формат, который затем разбирает каскад сопоставления в отчётах.
func (s *checkoutService) buildOrder(user *models.User, items []models.OrderItem, subtotal, total decimal.Decimal, req CheckoutRequest) *models.Order {
	now := time.Now()

	payment := models.PaymentMethod{Type: req.PaymentType}
	if req.PaymentType == "credit-card" {
		// Храним только последние 4 цифры карты
		if n := len(req.CardNumber); n > 4 {
			payment.CardNumber = req.CardNumber[n-4:]
		} else {
			payment.CardNumber = req.CardNumber
		}
		payment.CardHolder = req.CardHolder
	}

	return &models.Order{
		ID:           fmt.Sprintf("RITUAL-%d", now.UnixMilli()),
		UserID:       user.Nickname,
		Items:        items,
		Subtotal:     subtotal,
		ShippingCost: s.shippingCost,
		Total:        total,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		PaymentMethod:   payment,
		StatusHistory: []models.OrderStatus{
			{Status: models.OrderStatusPending, Timestamp: now, Description: "Ritual iniciado"},
			{Status: models.OrderStatusConfirmed, Timestamp: now.Add(5 * time.Minute), Description: "Energía mágica confirmada"},
		},
		CurrentStatus:     models.OrderStatusConfirmed,
		CreatedAt:         now,
		EstimatedDelivery: now.AddDate(0, 0, s.deliveryDays).Truncate(24 * time.Hour),
		TrackingNumber:    "GRIMO-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9]),
	}
}

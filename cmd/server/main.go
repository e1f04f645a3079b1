package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/app"
	"github.com/powermagic/shop/internal/app/handlers"
	"github.com/powermagic/shop/internal/config"
	"github.com/powermagic/shop/internal/events"
	"github.com/powermagic/shop/internal/jwt-new/jwtmiddleware"
	"github.com/powermagic/shop/internal/lib/logger"
	"github.com/powermagic/shop/internal/lib/logger/handlers/urllog"
	"github.com/powermagic/shop/internal/report"
	"github.com/powermagic/shop/internal/service"
	"github.com/powermagic/shop/internal/storage"
)

func main() {
	// .env опционален: в проде переменные приходят из окружения
	_ = godotenv.Load()

	// суммы сериализуем как числа, а не строки
	decimal.MarshalJSONWithoutQuotes = true

	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	gameRepo := storage.NewGameRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	noticeRepo := storage.NewNoticeRepository(application.DB)

	// публикация событий о заказах включается только при заданном AMQP_URL
	var publisher service.OrderEventPublisher
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			log.Error("failed to connect to amqp", slog.Any("error", err))
			panic(errors.Wrap(err, "failed to connect to amqp"))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	reconciler := report.NewReconciler(decimal.NewFromFloat(cfg.Report.SyntheticEpsilon))

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(cfg.JWT.TokenTTL)*time.Minute)
	catalogService := service.NewCatalogService(application.Logger, gameRepo)
	cartService := service.NewCartService(application.Logger, cartRepo, gameRepo)
	checkoutService := service.NewCheckoutService(
		application.Logger,
		application.DB,
		userRepo,
		gameRepo,
		cartRepo,
		orderRepo,
		publisher,
		decimal.NewFromFloat(cfg.Checkout.ShippingCost),
		cfg.Checkout.EstimatedDeliveryDays,
	)
	orderService := service.NewOrderService(application.Logger, userRepo, orderRepo)
	noticeService := service.NewNoticeService(application.Logger, noticeRepo)
	adminUserService := service.NewAdminUserService(application.Logger, userRepo)
	reportService := service.NewReportService(application.Logger, orderRepo, userRepo, reconciler)

	// публичные эндпоинты: аутентификация, каталог и новости
	router.Post("/api/auth", handlers.AuthHandler(application.Logger, authService))
	router.Get("/api/games", handlers.ListGamesHandler(application.Logger, catalogService, false))
	router.Get("/api/games/{gameID}", handlers.GetGameHandler(application.Logger, catalogService))
	router.Get("/api/notices", handlers.ListNoticesHandler(application.Logger, noticeService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)
		// корзина текущего пользователя
		r.Get("/api/cart", handlers.GetCartHandler(application.Logger, cartService))
		r.Delete("/api/cart", handlers.ClearCartHandler(application.Logger, cartService))
		r.Post("/api/cart/items", handlers.AddCartItemHandler(application.Logger, cartService))
		r.Put("/api/cart/items/{gameID}", handlers.UpdateCartItemHandler(application.Logger, cartService))
		r.Delete("/api/cart/items/{gameID}", handlers.RemoveCartItemHandler(application.Logger, cartService))
		// оформление заказа и история заказов
		r.Post("/api/checkout", handlers.CheckoutHandler(application.Logger, checkoutService))
		r.Get("/api/orders", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Get("/api/orders/{orderID}", handlers.GetOrderHandler(application.Logger, orderService))

		// административные эндпоинты
		r.Group(func(admin chi.Router) {
			admin.Use(jwtmiddleware.RequireAdmin())
			admin.Get("/api/admin/games", handlers.ListGamesHandler(application.Logger, catalogService, true))
			admin.Post("/api/games", handlers.CreateGameHandler(application.Logger, catalogService))
			admin.Put("/api/games/{gameID}", handlers.UpdateGameHandler(application.Logger, catalogService))
			admin.Delete("/api/games/{gameID}", handlers.DeleteGameHandler(application.Logger, catalogService))
			admin.Post("/api/games/{gameID}/toggle", handlers.ToggleGameHandler(application.Logger, catalogService))
			admin.Post("/api/admin/notices", handlers.CreateNoticeHandler(application.Logger, noticeService))
			admin.Put("/api/admin/notices/{noticeID}", handlers.UpdateNoticeHandler(application.Logger, noticeService))
			admin.Delete("/api/admin/notices/{noticeID}", handlers.DeleteNoticeHandler(application.Logger, noticeService))
			admin.Get("/api/admin/users", handlers.ListUsersHandler(application.Logger, adminUserService))
			admin.Post("/api/admin/users/{userID}/toggle", handlers.ToggleUserHandler(application.Logger, adminUserService))
			admin.Get("/api/admin/earnings", handlers.EarningsHandler(application.Logger, reportService))
			admin.Get("/api/admin/earnings/monthly", handlers.MonthlyEarningsHandler(application.Logger, reportService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}

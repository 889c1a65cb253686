package main

import (
	"context"
	"log"
	"net/http"

	"github.com/ahmdfariiss/nilasense/config"
	"github.com/ahmdfariiss/nilasense/internal/auth"
	"github.com/ahmdfariiss/nilasense/internal/gateway"
	handler "github.com/ahmdfariiss/nilasense/internal/handler/http"
	"github.com/ahmdfariiss/nilasense/internal/logger"
	"github.com/ahmdfariiss/nilasense/internal/repository"
	"github.com/ahmdfariiss/nilasense/internal/repository/postgres"
	"github.com/ahmdfariiss/nilasense/internal/service"
	"github.com/ahmdfariiss/nilasense/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT secret is not set")
	}

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	token := auth.NewAuthToken([]byte(cfg.JWTSecret))

	// payment gateway client; with missing keys the issuer degrades to a
	// configuration error instead of crashing here
	midtrans := gateway.NewMidtrans(cfg)

	// dependency injection
	// user
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, token)
	userHandler := handler.NewUserHandler(userService)

	// pond
	pondRepo := repository.NewPondRepository(db)
	pondService := service.NewPondService(pondRepo)
	pondHandler := handler.NewPondHandler(pondService)

	// water quality monitoring
	monitoringRepo := repository.NewMonitoringRepository(db)
	monitoringService := service.NewMonitoringService(monitoringRepo, pondRepo)
	monitoringHandler := handler.NewMonitoringHandler(monitoringService)

	// feed schedules
	feedRepo := repository.NewFeedRepository(db)
	feedService := service.NewFeedService(feedRepo, pondRepo)
	feedHandler := handler.NewFeedHandler(feedService)

	// products
	productRepo := repository.NewProductRepository(db)
	productService := service.NewProductService(productRepo)
	productHandler := handler.NewProductHandler(productService)

	// orders
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo)
	orderHandler := handler.NewOrderHandler(orderService)

	// payments
	paymentRepo := repository.NewPaymentRepository(db)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, midtrans)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.IsProduction())

	// background reconcile sweeper
	reconciler := worker.NewPaymentReconciler(paymentService, cfg.ReconcileInterval)
	go reconciler.Run(ctx)

	router := chi.NewRouter()

	router.Use(handler.Logging(logger.Log))

	router.Post("/api/auth/register", userHandler.RegisterUser())
	router.Post("/api/auth/login", userHandler.LoginUser())

	router.Get("/api/products", productHandler.ListProducts())
	router.Get("/api/products/{productID}", productHandler.GetProduct())

	// gateway notifications carry no bearer token
	router.Post("/api/payments/webhook", paymentHandler.Webhook())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))

		group.Post("/api/ponds", pondHandler.CreatePond())
		group.Get("/api/ponds", pondHandler.ListPonds())
		group.Get("/api/ponds/{pondID}", pondHandler.GetPond())
		group.Put("/api/ponds/{pondID}", pondHandler.UpdatePond())
		group.Delete("/api/ponds/{pondID}", pondHandler.DeletePond())

		group.Post("/api/ponds/{pondID}/water-quality", monitoringHandler.AddWaterQualityLog())
		group.Get("/api/ponds/{pondID}/water-quality", monitoringHandler.ListWaterQualityLogs())

		group.Post("/api/ponds/{pondID}/feeds", feedHandler.CreateFeedSchedule())
		group.Get("/api/ponds/{pondID}/feeds", feedHandler.ListFeedSchedules())
		group.Put("/api/feeds/{feedID}", feedHandler.UpdateFeedSchedule())
		group.Delete("/api/feeds/{feedID}", feedHandler.DeleteFeedSchedule())

		group.Post("/api/products", productHandler.CreateProduct())
		group.Put("/api/products/{productID}", productHandler.UpdateProduct())
		group.Delete("/api/products/{productID}", productHandler.DeleteProduct())

		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/orders", orderHandler.ListUserOrders())
		group.Get("/api/orders/{orderID}", orderHandler.GetOrder())

		group.Post("/api/payments/create", paymentHandler.CreatePayment())
		group.Get("/api/payments/status/{orderID}", paymentHandler.PaymentStatus())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/almira/almira-backend/config"
	"github.com/almira/almira-backend/internal/app/controller"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/internal/app/service"
	"github.com/almira/almira-backend/internal/db"
	"github.com/almira/almira-backend/internal/middleware"
	"github.com/almira/almira-backend/internal/router"
	"github.com/almira/almira-backend/internal/scheduler"
	"github.com/almira/almira-backend/internal/storage"
	"github.com/almira/almira-backend/internal/websocket"
	"github.com/almira/almira-backend/pkg/logger"
	"github.com/almira/almira-backend/pkg/mail"
	"github.com/almira/almira-backend/pkg/payment/checkout"
	"github.com/almira/almira-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ALMIRA Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis for token revocation. The server stays up
	// without it; sign-out then only expires tokens naturally.
	var (
		blacklist  controller.TokenBlacklister
		revoked    middleware.RevocationChecker
		grantCache service.GrantCache
	)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		blacklist = redis.BlacklistToken
		revoked = redis.IsTokenBlacklisted
		grantCache = redis.PermissionCache{}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Object storage for seller documents and product images
	var s3 *storage.S3Storage
	if cfg.S3.AccessKeyID != "" {
		s3 = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	} else {
		logger.Warn("S3 credentials missing, uploads disabled")
	}

	// Outbound email
	mailer := mail.NewMailer(&cfg.SMTP)

	// Hosted checkout sessions
	var sessions service.SessionCreator
	if cfg.Payment.Checkout.SecretKey != "" {
		client, err := checkout.NewClient(checkout.Config{
			SecretKey:  cfg.Payment.Checkout.SecretKey,
			BaseURL:    cfg.Payment.Checkout.BaseURL,
			SuccessURL: cfg.Payment.Checkout.SuccessURL,
			CancelURL:  cfg.Payment.Checkout.CancelURL,
		})
		if err != nil {
			logger.Fatal("Failed to configure checkout client", err)
		}
		sessions = client
	} else {
		logger.Warn("Checkout secret key missing, payment sessions disabled")
	}

	// WebSocket hub for notification pushes
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	sellerRepo := repository.NewSellerRepository(db.GetDB())
	adminRoleRepo := repository.NewAdminRoleRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	couponRepo := repository.NewCouponRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	withdrawalRepo := repository.NewWithdrawalRepository(db.GetDB())
	settingsRepo := repository.NewSettingsRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, hub)
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	permissionService := service.NewPermissionService(adminRoleRepo, cfg.Admin.OwnerEmails, grantCache)
	var sellerStore service.ObjectStore
	if s3 != nil {
		sellerStore = s3
	}
	sellerService := service.NewSellerService(
		sellerRepo,
		userRepo,
		notificationService,
		sellerStore,
		mailer,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.Seller.LoginDomain,
		cfg.Seller.MaxDocumentSize,
		cfg.Seller.RegisterTimeout,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	couponService := service.NewCouponService(couponRepo)
	checkoutService := service.NewCheckoutService(
		cartRepo,
		productRepo,
		orderRepo,
		sellerRepo,
		userRepo,
		settingsRepo,
		couponService,
		notificationService,
		mailer,
		sessions,
		cfg.Shop.Currency,
		cfg.Shop.FreeDeliveryThreshold,
	)
	orderService := service.NewOrderService(orderRepo, notificationService)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, sellerRepo, notificationService)
	settingsService := service.NewSettingsService(settingsRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, blacklist, cfg.JWT.AccessTokenExpiry)
	sellerController := controller.NewSellerController(sellerService)
	productController := controller.NewProductController(productService, sellerService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService, sellerService)
	couponController := controller.NewCouponController(couponService)
	withdrawalController := controller.NewWithdrawalController(withdrawalService)
	adminRoleController := controller.NewAdminRoleController(permissionService)
	settingsController := controller.NewSettingsController(settingsService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	uploadController := controller.NewUploadController(s3)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, revoked)
	permissionMiddleware := middleware.NewPermissionMiddleware(permissionService)

	// Background jobs
	couponScheduler := scheduler.NewCouponScheduler(couponService)
	if err := couponScheduler.Start(); err != nil {
		logger.Fatal("Failed to start coupon scheduler", err)
	}
	defer couponScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		sellerController,
		productController,
		cartController,
		checkoutController,
		orderController,
		couponController,
		withdrawalController,
		adminRoleController,
		settingsController,
		notificationController,
		uploadController,
		authMiddleware,
		permissionMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

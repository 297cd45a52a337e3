package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/cache"
	"github.com/hemshop/hemshop-api/internal/config"
	"github.com/hemshop/hemshop-api/internal/database"
	"github.com/hemshop/hemshop-api/internal/handler"
	"github.com/hemshop/hemshop-api/internal/middleware"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/sse"
	"github.com/hemshop/hemshop-api/internal/utils"
	"github.com/hemshop/hemshop-api/internal/worker"
	"github.com/hemshop/hemshop-api/pkg/paygate"
)

// main is the application entrypoint for the HemShop marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting hemshop api")

	utils.InitJWT(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	catalogCache := cache.NewCatalogCache(redisClient)
	impersonationCache := cache.NewImpersonationCache(redisClient)

	// 4. Initialize store and seed settings
	store := repository.NewPostgresStore(db)
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Settings().EnsureDefaults(seedCtx, cfg.Ledger.DefaultServicePct); err != nil {
		seedCancel()
		log.Error().Err(err).Msg("settings seed failed")
		os.Exit(1)
	}
	seedCancel()

	// 5. Initialize settlement gateway client
	var transferrer service.Transferrer
	if cfg.Paygate.BaseURL != "" {
		transferrer = paygate.NewClient(cfg.Paygate.BaseURL, cfg.Paygate.APIKey, cfg.Paygate.Secret)
		log.Info().Msg("settlement gateway client configured")
	} else {
		log.Warn().Msg("PAYGATE_BASE_URL not set - payouts will stay queued")
	}

	// 6. Initialize SSE hub and services
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	sellerSvc := service.NewSellerService(store, transferrer, cfg.Ledger.OwnerAddress)
	catalogSvc := service.NewCatalogService(store, catalogCache)
	escrowSvc := service.NewEscrowService(store, notifier, catalogCache)
	reviewSvc := service.NewReviewService(store)
	categorySvc := service.NewCategoryService(store)
	adminAuthSvc := service.NewAdminAuthService(store, cfg.Ledger.OwnerAddress, cfg.Ledger.SessionTTL)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(adminAuthSvc, cfg.Ledger.SessionTTL),
		Seller:   handler.NewSellerHandler(sellerSvc),
		Product:  handler.NewProductHandler(catalogSvc),
		Order:    handler.NewOrderHandler(escrowSvc),
		Review:   handler.NewReviewHandler(reviewSvc),
		Category: handler.NewCategoryHandler(categorySvc),
		Admin:    handler.NewAdminHandler(sellerSvc, escrowSvc, catalogSvc, impersonationCache),
		SSE:      handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	authMw := middleware.NewAuthMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start payout worker
	if transferrer != nil {
		go worker.NewPayoutWorker(store, transferrer, cfg.Worker.PayoutInterval, cfg.Worker.PayoutMaxAttempts).Start(ctx)
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Seller   *handler.SellerHandler
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Review   *handler.ReviewHandler
	Category *handler.CategoryHandler
	Admin    *handler.AdminHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMw *middleware.AuthMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Session issuance
	router.POST("/v1/auth/session", handlers.Auth.CreateSession)
	router.POST("/v1/auth/admin/login", handlers.Auth.AdminLogin)

	// Public catalog reads
	router.GET("/v1/products", handlers.Product.List)
	router.GET("/v1/products/:id", handlers.Product.Get)
	router.GET("/v1/products/:id/reviews", handlers.Review.ListByProduct)
	router.GET("/v1/categories", handlers.Category.List)
	router.GET("/v1/categories/:id", handlers.Category.Get)
	router.GET("/v1/categories/:id/sub-categories", handlers.Category.ListSubCategories)
	router.GET("/v1/categories/:id/products", handlers.Product.ListByCategory)
	router.GET("/v1/sub-categories/:id", handlers.Category.GetSubCategory)
	router.GET("/v1/sellers", handlers.Seller.List)
	router.GET("/v1/sellers/:address", handlers.Seller.Get)
	router.GET("/v1/sellers/:address/profile", handlers.Seller.GetProfile)
	router.GET("/v1/sellers/:address/status", handlers.Seller.GetStatus)
	router.GET("/v1/sellers/:address/products", handlers.Product.ListBySeller)

	// Authenticated marketplace operations
	api := router.Group("/v1")
	api.Use(authMw.Handle())
	{
		api.POST("/sellers/register", handlers.Seller.Register)
		api.GET("/sellers/me", handlers.Seller.Me)
		api.POST("/sellers/withdraw", handlers.Seller.Withdraw)

		api.POST("/products", handlers.Product.Create)
		api.PUT("/products/:id", handlers.Product.Update)
		api.DELETE("/products/:id", handlers.Product.Delete)

		api.POST("/orders", handlers.Order.Buy)
		api.POST("/orders/deliver", handlers.Order.MarkDelivered)
		api.GET("/orders/sales", handlers.Order.SellerHistory)
		api.GET("/orders/purchases", handlers.Order.BuyerHistory)
		api.GET("/orders/service-pct", handlers.Order.ServicePct)

		api.POST("/reviews", handlers.Review.Create)
		api.DELETE("/products/:id/reviews/:reviewId", handlers.Review.Delete)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.GET("/sse", handlers.SSE.Stream)
	admin.Use(authMw.HandleAdmin())
	{
		admin.GET("/sellers/pending", handlers.Admin.PendingSellers)
		admin.PUT("/sellers/:address/status", handlers.Admin.UpdateSellerStatus)
		admin.POST("/sellers/grant-owner", handlers.Admin.GrantOwnerSellerAccess)

		admin.PUT("/service-pct", handlers.Admin.ChangeServicePct)
		admin.GET("/fee-pool", handlers.Admin.FeePool)
		admin.GET("/orders", handlers.Admin.AllOrders)

		admin.POST("/impersonate", handlers.Admin.Impersonate)
		admin.GET("/impersonate", handlers.Admin.ImpersonatedView)
		admin.DELETE("/impersonate", handlers.Admin.StopImpersonation)

		admin.POST("/categories", handlers.Category.Create)
		admin.PUT("/categories/:id", handlers.Category.Update)
		admin.DELETE("/categories/:id", handlers.Category.Delete)
		admin.POST("/categories/:id/sub-categories", handlers.Category.CreateSubCategories)
		admin.PUT("/sub-categories/:id", handlers.Category.UpdateSubCategory)
		admin.DELETE("/sub-categories/:id", handlers.Category.DeleteSubCategory)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

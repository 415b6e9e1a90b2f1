package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/cache"
	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/database"
	"github.com/umuhuza/umuhuza_api/internal/handler"
	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/repository"
	"github.com/umuhuza/umuhuza_api/internal/service"
	"github.com/umuhuza/umuhuza_api/internal/utils"
	"github.com/umuhuza/umuhuza_api/internal/worker"
)

// main is the application entrypoint for the UMUHUZA marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting umuhuza api")

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

	// 3c. Redis backed caches
	listingCache := cache.NewListingCache(redisClient, cfg.Listing.CacheTTL)
	viewCounter := cache.NewViewCounter(redisClient)
	denylist := cache.NewTokenDenylist(redisClient)

	// 4. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	savedFilterRepo := repository.NewSavedFilterRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// 5. Initialize services
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(userRepo, tokens, denylist)
	listingSvc := service.NewListingService(productRepo, listingCache, cfg.Listing)
	productSvc := service.NewProductService(productRepo, viewCounter, listingSvc, cfg.Marketplace)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, productRepo)
	savedFilterSvc := service.NewSavedFilterService(savedFilterRepo)
	messageSvc := service.NewMessageService(messageRepo, productRepo)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, listingSvc)
	adminSvc := service.NewAdminService(productRepo, paymentRepo, reviewRepo, messageRepo, listingSvc)
	receiptSvc := service.NewReceiptService(productRepo, paymentRepo, cfg.Marketplace)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uploadSvc, err := service.NewUploadService(ctx, cfg.S3, cfg.AWS)
	if err != nil {
		log.Error().Err(err).Msg("upload service initialization failed")
		fmt.Fprintf(os.Stderr, "upload service initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 5a. Seed the first admin account
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			log.Warn().Err(err).Msg("admin seed failed")
		}
	}

	// 6. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"database": db.PingContext,
			"redis":    redisClient.Ping,
		}),
		Catalog:     handler.NewCatalogHandler(cfg.Marketplace),
		Product:     handler.NewProductHandler(listingSvc, productSvc, favoriteSvc, receiptSvc),
		Favorite:    handler.NewFavoriteHandler(favoriteSvc),
		SavedFilter: handler.NewSavedFilterHandler(savedFilterSvc),
		Auth:        handler.NewAuthHandler(authSvc),
		Upload:      handler.NewUploadHandler(uploadSvc),
		Message:     handler.NewMessageHandler(messageSvc),
		Review:      handler.NewReviewHandler(reviewSvc),
		Admin:       handler.NewAdminHandler(adminSvc),
	}

	// 7. Initialize middleware
	limiter := middleware.NewInvalidAuthRateLimiter(5, time.Minute)
	authMw := middleware.NewAuthMiddleware(authSvc, limiter)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw, limiter)

	// 8. Start background workers
	var workers sync.WaitGroup
	runWorker := func(start func(context.Context)) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			start(ctx)
		}()
	}
	runWorker(limiter.Cleanup)
	runWorker(listingSvc.Start)
	runWorker(worker.NewViewFlushWorker(viewCounter, productRepo, listingSvc, cfg.Worker.ViewFlushInterval).Start)

	// 9. Start HTTP server
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

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout, then stop workers
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	cancel()
	workers.Wait()
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health      *handler.HealthHandler
	Catalog     *handler.CatalogHandler
	Product     *handler.ProductHandler
	Favorite    *handler.FavoriteHandler
	SavedFilter *handler.SavedFilterHandler
	Auth        *handler.AuthHandler
	Upload      *handler.UploadHandler
	Message     *handler.MessageHandler
	Review      *handler.ReviewHandler
	Admin       *handler.AdminHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, auth *middleware.AuthMiddleware, limiter *middleware.InvalidAuthRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	v1 := router.Group("/v1")

	// Catalog (public)
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/categories", handlers.Catalog.ListCategories)
		catalog.GET("/categories/:id", handlers.Catalog.GetCategory)
		catalog.GET("/filters/:id", handlers.Catalog.GetCategory)
		catalog.GET("/locations/provinces", handlers.Catalog.ListProvinces)
		catalog.GET("/locations/districts", handlers.Catalog.ListDistricts)
		catalog.GET("/locations/sectors", handlers.Catalog.ListSectors)
		catalog.GET("/contact", handlers.Catalog.GetContact)
	}

	// Auth
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", middleware.LoginThrottle(limiter), handlers.Auth.Login)
		authGroup.GET("/me", auth.Require(), handlers.Auth.Me)
		authGroup.POST("/logout", auth.Require(), handlers.Auth.Logout)
	}

	// Products (guests may browse; owner actions need a session)
	products := v1.Group("/products")
	{
		products.GET("", auth.Optional(), handlers.Product.Browse)
		products.GET("/featured", handlers.Product.Featured)
		products.GET("/quote", handlers.Product.Quote)
		products.GET("/:id", auth.Optional(), handlers.Product.GetProduct)
		products.GET("/:id/reviews", handlers.Review.List)

		products.POST("", auth.Require(), handlers.Product.Publish)
		products.PUT("/:id", auth.Require(), handlers.Product.Update)
		products.DELETE("/:id", auth.Require(), handlers.Product.Delete)
		products.GET("/:id/receipt", auth.Require(), handlers.Product.Receipt)
		products.POST("/:id/reviews", auth.Require(), handlers.Review.Create)
		products.POST("/:id/messages", auth.Require(), handlers.Message.Send)
		products.POST("/:id/favorite", auth.Require(), handlers.Favorite.Toggle)
	}

	// Signed-in user area
	me := v1.Group("/me")
	me.Use(auth.Require())
	{
		me.GET("/products", handlers.Product.Mine)
		me.GET("/reviews", handlers.Review.Mine)

		me.GET("/favorites", handlers.Favorite.List)
		me.GET("/favorites/ids", handlers.Favorite.IDs)

		me.GET("/saved-filters", handlers.SavedFilter.List)
		me.POST("/saved-filters", handlers.SavedFilter.Save)
		me.GET("/saved-filters/:id", handlers.SavedFilter.Load)
		me.DELETE("/saved-filters/:id", handlers.SavedFilter.Delete)

		me.GET("/conversations", handlers.Message.Conversations)
		me.GET("/conversations/unread", handlers.Message.UnreadCount)
		me.POST("/conversations/:id/messages", handlers.Message.Reply)
		me.POST("/conversations/:id/read", handlers.Message.MarkRead)

		me.POST("/uploads", handlers.Upload.Upload)
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(auth.Require(), auth.RequireAdmin())
	{
		admin.GET("/stats", handlers.Admin.Stats)

		admin.GET("/products", handlers.Admin.ListProducts)
		admin.PUT("/products/:id/status", handlers.Admin.UpdateProductStatus)
		admin.PUT("/products/:id/featured", handlers.Admin.UpdateFeatured)
		admin.DELETE("/products/:id", handlers.Admin.DeleteProduct)

		admin.GET("/payments", handlers.Admin.ListPayments)
		admin.POST("/payments/:id/confirm", handlers.Admin.ConfirmPayment)

		admin.GET("/reviews", handlers.Admin.ListReviews)
		admin.PUT("/reviews/:id/status", handlers.Admin.ModerateReview)

		admin.GET("/messages", handlers.Admin.ListMessages)
	}
}

// runMigrations applies the SQL files under ./migrations.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-auction/internal/api/handlers"
	"gallery-auction/internal/config"
	"gallery-auction/internal/domain"
	"gallery-auction/internal/infrastructure/leader"
	"gallery-auction/internal/infrastructure/mysql"
	"gallery-auction/internal/infrastructure/redis"
	"gallery-auction/internal/infrastructure/storage"
	"gallery-auction/internal/infrastructure/websocket"
	"gallery-auction/internal/services"
	"gallery-auction/pkg/logger"
	"gallery-auction/pkg/utils"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log := logger.New()
	log.Info("Starting Gallery Auction Service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db, err := utils.InitializeMySQL(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	if err := utils.RunMigrations(db, cfg.MySQL.MigrationsPath); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize object storage
	imageStore, err := storage.NewMinioImageStore(cfg.Minio)
	if err != nil {
		log.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if err := imageStore.EnsureBucket(ctx); err != nil {
		log.Error("Failed to ensure image bucket", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to object storage", "bucket", cfg.Minio.Bucket)

	// Initialize repositories
	userRepo := mysql.NewMySQLUserRepository(db)
	artworkRepo := mysql.NewMySQLArtworkRepository(db)
	configRepo := mysql.NewMySQLAuctionConfigRepository(db)

	// Initialize Redis based components
	bidGate := redis.NewRedisBidGate(rdb)
	stateCache := redis.NewRedisStateCache(rdb)
	eventPublisher := redis.NewEventPublisher(rdb)
	eventSubscriber := redis.NewRedisEventSubscriber(rdb, log)
	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)

	// Initialize services
	ingestor := services.NewImageIngestor(artworkRepo, imageStore, cfg.Fetcher.Workers, cfg.Fetcher.Timeout, log)
	authService := services.NewAuthService(userRepo, cfg.Admin.AccessCode, log)
	auctionService := services.NewAuctionService(configRepo, artworkRepo, log)
	bidService := services.NewBidService(artworkRepo, auctionService, bidGate, eventPublisher, log)
	artworkService := services.NewArtworkService(artworkRepo, imageStore, bidGate, ingestor, log)
	paymentService := services.NewPaymentService(auctionService, log)
	watcher := services.NewWindowWatcher(auctionService, stateCache, eventPublisher, leaderElection, cfg.Instance.ID, cfg.Watcher.PollInterval, log)

	// Initialize websocket gallery feed
	connManager := websocket.NewConnectionManager(log)
	feedHandler := websocket.NewGalleryFeedHandler(connManager, log)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Bridge pub/sub events to connected gallery clients
	go func() {
		err := eventSubscriber.Subscribe(rootCtx, func(event *domain.GalleryEvent) error {
			return connManager.Broadcast(event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event subscription ended", "error", err)
		}
	}()

	ingestor.Start(rootCtx)

	if err := watcher.Start(rootCtx); err != nil {
		log.Error("Failed to start window watcher", "error", err)
		os.Exit(1)
	}

	// Keep contending for watcher leadership
	go func() {
		for {
			became, err := leaderElection.BecomeLeader(rootCtx, cfg.Instance.ID)
			if err != nil {
				log.Error("Failed to attempt leadership", "error", err)
			} else if became {
				log.Info("Became window watcher leader", "instance_id", cfg.Instance.ID)
			}
			select {
			case <-rootCtx.Done():
				return
			case <-time.After(10 * time.Second):
			}
		}
	}()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		MaxAge: 86400,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	auctionHandler := handlers.NewAuctionHandler(auctionService, log)
	artworkHandler := handlers.NewArtworkHandler(artworkService, bidService, log)
	paymentHandler := handlers.NewPaymentHandler(paymentService, log)

	// API routes
	api := e.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/admin-code", authHandler.CheckAdminCode)
	api.GET("/users", authHandler.ListUsers)
	api.PUT("/users/:id", authHandler.UpdateUser)

	api.GET("/auction", auctionHandler.Status)
	api.PUT("/auction", auctionHandler.Configure)

	api.POST("/artworks", artworkHandler.Create)
	api.GET("/artworks", artworkHandler.List)
	api.GET("/artworks/:id", artworkHandler.Get)
	api.PUT("/artworks/:id", artworkHandler.Update)
	api.DELETE("/artworks/:id", artworkHandler.Delete)
	api.POST("/artworks/:id/images", artworkHandler.UploadImage)
	api.GET("/artworks/:id/bids", artworkHandler.BidHistory)
	api.POST("/artworks/:id/bids", artworkHandler.SubmitBid)

	api.GET("/payments/summary", paymentHandler.Summary)
	api.GET("/payments/banks", paymentHandler.Banks)
	api.POST("/payments/checkout", paymentHandler.Checkout)

	// Live gallery feed
	e.GET("/ws/gallery", echo.WrapHandler(feedHandler.Router()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "gallery-auction",
			"timestamp": time.Now().Format(time.RFC3339),
			"port":      cfg.Server.Port,
			"version":   "1.0.0",
		})
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting gallery auction server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gallery auction service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := watcher.Stop(); err != nil {
		log.Error("Failed to stop window watcher", "error", err)
	}
	ingestor.Stop()
	rootCancel()

	if err := leaderElection.ReleaseLeadership(shutdownCtx, cfg.Instance.ID); err != nil {
		log.Error("Failed to release leadership", "error", err)
	}
	connManager.CloseAll()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Gallery auction service stopped")
}

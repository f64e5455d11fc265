package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	configs "github.com/tubeworks/streamapi/config"
	"github.com/tubeworks/streamapi/internal/handler"
	"github.com/tubeworks/streamapi/internal/middleware"
	"github.com/tubeworks/streamapi/internal/repository"
	"github.com/tubeworks/streamapi/internal/router"
	"github.com/tubeworks/streamapi/internal/service"
	"github.com/tubeworks/streamapi/internal/tasks"
	"github.com/tubeworks/streamapi/pkg/database"
	"github.com/tubeworks/streamapi/pkg/health"
	"github.com/tubeworks/streamapi/pkg/logger"
	"github.com/tubeworks/streamapi/pkg/redis"
	"github.com/tubeworks/streamapi/pkg/storage"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Redis only backs the channel stats cache, so a missing instance
	// degrades the service instead of stopping it.
	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable, channel stats cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mediaStore, err := storage.NewS3Store(startupCtx, config.ObjectStore)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize object store", zap.Error(err))
	}
	prober := storage.NewMediaProber(config.Upload.ProbeBinary, config.Upload.ProbeTimeout)

	taskQueue := tasks.NewQueue(0, 0, 0)
	defer taskQueue.Close()

	monitor := health.NewMonitor(30*time.Second, 5*time.Second, logger.GetLogger())
	monitor.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisClient != nil {
		monitor.Register("redis", redisClient.Ping)
	}
	monitor.Start()
	defer monitor.Stop()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// Services
	tokenService := service.NewTokenService(config.JWT)
	userService := service.NewUserService(userRepo, tokenService, mediaStore, taskQueue)
	videoService := service.NewVideoService(videoRepo, userRepo, mediaStore, prober, taskQueue)
	channelService := service.NewChannelService(userRepo, subscriptionRepo, redisClient, config.Redis.StatsTTL)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, config)
	userHandler := handler.NewUserHandler(userService, config)
	channelHandler := handler.NewChannelHandler(channelService, videoService)
	videoHandler := handler.NewVideoHandler(videoService, config)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	r := router.NewRouter(
		authHandler,
		userHandler,
		channelHandler,
		videoHandler,
		healthHandler,
		authMiddleware,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server, draining background tasks")
}

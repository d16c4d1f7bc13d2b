package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/leaguify/cache"
	"github.com/Dosada05/leaguify/config"
	"github.com/Dosada05/leaguify/db"
	"github.com/Dosada05/leaguify/handlers"
	"github.com/Dosada05/leaguify/realtime"
	"github.com/Dosada05/leaguify/repositories"
	"github.com/Dosada05/leaguify/routes"
	"github.com/Dosada05/leaguify/services"
	"github.com/Dosada05/leaguify/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
	)

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(ctx, dbConn, cfg.DatabaseDriver); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("database migrations applied")

	// Хранилище аватаров (S3 или совместимое)
	var uploader storage.FileUploader
	if cfg.AvatarStorageEnabled() {
		uploader, err = storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
			Region:          cfg.AWSRegion,
			BucketName:      cfg.AvatarBucketName,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize avatar storage: %w", err)
		}
		logger.Info("avatar storage initialized", slog.String("bucket", cfg.AvatarBucketName))
	} else {
		logger.Warn("AVATAR_BUCKET_NAME is not set, avatar uploads are disabled")
	}

	// Кэш таблицы результатов
	var standingsCache cache.StandingsCache = cache.Nop{}
	if cfg.CacheEnabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		standingsCache = cache.NewRedisStandingsCache(redisClient, cfg.StandingsCacheTTL)
		logger.Info("standings cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.StandingsCacheTTL))
	}

	// Инициализация WebSocket Hub
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	repos := services.Repositories{
		Leagues:  repositories.NewLeagueRepository(dbConn),
		Players:  repositories.NewPlayerRepository(dbConn),
		Games:    repositories.NewGameRepository(dbConn),
		Outcomes: repositories.NewOutcomeRepository(dbConn),
	}
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	clk := clock.New()
	leagueService := services.NewLeagueService(dbConn, repos, cfg.DefaultAvatarURL, clk, logger)
	cycleService := services.NewCycleService(dbConn, repos, standingsCache, hub, clk, logger)
	statsService := services.NewStatsService(dbConn, repos, standingsCache, logger)
	playerService := services.NewPlayerService(dbConn, repos, uploader, standingsCache, hub, logger)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP и маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, logger, cfg.CORSAllowedOrigins, routes.Handlers{
		League:     handlers.NewLeagueHandler(leagueService, cycleService),
		Game:       handlers.NewGameHandler(leagueService, cycleService),
		Player:     handlers.NewPlayerHandler(playerService),
		Statistics: handlers.NewStatisticsHandler(statsService),
		WebSocket:  handlers.NewWebSocketHandler(hub, leagueService, cfg.CORSAllowedOrigins, logger),
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}

	// останавливаем hub: он закроет все websocket соединения
	cancel()
	return nil
}

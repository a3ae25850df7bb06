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

	"github.com/go-chi/chi/v5"
	"github.com/lennartwolf/tippliga/config"
	"github.com/lennartwolf/tippliga/db"
	"github.com/lennartwolf/tippliga/handlers"
	"github.com/lennartwolf/tippliga/repositories"
	api "github.com/lennartwolf/tippliga/routes"
	"github.com/lennartwolf/tippliga/services"
	"github.com/lennartwolf/tippliga/storage"
	_ "github.com/lib/pq"
)

const (
	recomputeLockKey  = "recompute:lock"
	leaderboardTTL    = 10 * time.Minute
	shutdownTimeout   = 15 * time.Second
	connectionTimeout = 5 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, connectionTimeout)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	redisClient, err := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, connectionTimeout)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis connection", slog.Any("error", err))
		}
	}()
	logger.Info("redis connection established")

	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	tipRepo := repositories.NewPostgresTipRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, cloudflareUploader)
	groupService := services.NewGroupService(dbConn, groupRepo)
	matchService := services.NewMatchService(matchRepo)
	tipService := services.NewTipService(tipRepo, matchRepo, groupRepo)
	statsService := services.NewStatsService(logger)
	emailService := services.NewEmailService(cfg)

	leaderboardCache := services.NewRedisLeaderboardCache(redisClient, leaderboardTTL, logger)
	leaderboardService := services.NewLeaderboardService(groupRepo, userRepo, leaderboardCache, logger)

	runLock := services.NewRedisRunLock(redisClient, recomputeLockKey, cfg.RecomputeTimeout)
	recomputeService := services.NewRecomputeService(
		userRepo,
		tipRepo,
		matchRepo,
		statsService,
		runLock,
		leaderboardService,
		logger,
		services.RecomputeConfig{
			Workers:     cfg.RecomputeWorkers,
			RunTimeout:  cfg.RecomputeTimeout,
			UserTimeout: cfg.RecomputeUserTimeout,
		},
	)
	logger.Info("services initialized")

	go func() {
		ticker := time.NewTicker(cfg.RecomputeInterval)
		defer ticker.Stop()
		logger.Info("recompute scheduler started", slog.Duration("interval", cfg.RecomputeInterval))

		runRecompute := func() {
			if _, err := recomputeService.RecomputeAll(context.Background()); err != nil {
				if errors.Is(err, services.ErrRecomputeAlreadyRunning) {
					logger.Info("scheduler: recompute already running, skipping")
					return
				}
				logger.Error("scheduler: recompute run failed", slog.Any("error", err))
			}
		}

		runRecompute()
		for range ticker.C {
			runRecompute()
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService, tipService)
	groupHandler := handlers.NewGroupHandler(groupService, leaderboardService)
	tipHandler := handlers.NewTipHandler(tipService)
	matchHandler := handlers.NewMatchHandler(matchService)
	adminHandler := handlers.NewAdminHandler(recomputeService)
	contactHandler := handlers.NewContactHandler(emailService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		groupHandler,
		tipHandler,
		matchHandler,
		adminHandler,
		contactHandler,
	)
	logger.Info("routes configured")

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

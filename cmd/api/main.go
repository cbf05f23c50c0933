package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"filedrop/internal/cache"
	"filedrop/internal/config"
	"filedrop/internal/database"
	"filedrop/internal/handlers"
	"filedrop/internal/jobs"
	"filedrop/internal/log"
	"filedrop/internal/ratelimit"
	"filedrop/internal/repository"
	"filedrop/internal/server"
	"filedrop/internal/service"
	"filedrop/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	if err := database.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	var redisClient *redis.Client
	var limiter ratelimit.Limiter
	switch cfg.RateLimit.Backend {
	case "redis":
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Threshold, cfg.RateLimit.Window)
	default:
		limiter = ratelimit.NewMemoryLimiter(
			ratelimit.WithThreshold(cfg.RateLimit.Threshold),
			ratelimit.WithWindow(cfg.RateLimit.Window),
			ratelimit.WithCleanupInterval(cfg.RateLimit.CleanupInterval),
		)
	}

	fileStore, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init file storage")
	}
	if objectStore, ok := fileStore.(*storage.ObjectStore); ok {
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
	}

	userRepo := repository.NewUserRepository(dbPool)
	if err := service.BootstrapAdmin(ctx, userRepo,
		cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword, logger); err != nil {
		logger.Fatal().Err(err).Msg("bootstrap admin failed")
	}

	authService := service.NewAuthService(
		userRepo,
		limiter,
		cfg.Security.SessionSecret,
		cfg.Security.SessionTTL,
		cfg.Security.RevalidationInterval,
		logger,
	)
	contentService := service.NewContentService(repository.NewContentRepository(dbPool), fileStore, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, dbPool, redisClient, fileStore, authService, contentService)
	httpServer := server.NewHTTPServer(cfg, logger, authService, handlerSet)

	scheduler := jobs.NewScheduler(contentService, cfg.Cleanup.Schedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	db.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
	os.Exit(0)
}

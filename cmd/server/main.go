package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/tradeledger/internal/adapter/http"
	"github.com/iho/tradeledger/internal/adapter/http/handler"
	"github.com/iho/tradeledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/tradeledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/tradeledger/internal/adapter/repository/redis"
	"github.com/iho/tradeledger/internal/infrastructure/config"
	"github.com/iho/tradeledger/internal/infrastructure/metrics"
	"github.com/iho/tradeledger/internal/infrastructure/postgres"
	"github.com/iho/tradeledger/internal/infrastructure/redis"
	"github.com/iho/tradeledger/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	instrumentRepo := postgresRepo.NewInstrumentRepository(pool)
	holdingRepo := postgresRepo.NewHoldingRepository(pool)
	tradeRepo := postgresRepo.NewTradeRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log.Logger)

	// Initialize use cases
	m := metrics.New()
	analyticsUC := usecase.NewAnalyticsUseCase(accountRepo, instrumentRepo, holdingRepo, tradeRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo, analyticsUC, idGen, log.Logger, m)
	tradeUC := usecase.NewTradeUseCase(txManager, accountRepo, instrumentRepo, holdingRepo, tradeRepo, idGen, retrier, auditUC)
	tradeService := usecase.NewLoggingTradeExecutor(tradeUC, log.Logger, m)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, idGen, m)
	instrumentUC := usecase.NewInstrumentUseCase(instrumentRepo, idGen, cache, m)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	instrumentHandler := handler.NewInstrumentHandler(instrumentUC)
	tradeHandler := handler.NewTradeHandler(tradeService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsUC)
	auditHandler := handler.NewAuditHandler(auditUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

		// Evict per-client limiters that have gone idle.
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				rateLimiter.Cleanup(time.Hour)
			}
		}()
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    accountHandler,
		InstrumentHandler: instrumentHandler,
		TradeHandler:      tradeHandler,
		AnalyticsHandler:  analyticsHandler,
		AuditHandler:      auditHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       rateLimiter,
		Logger:            log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/tradeledger/internal/adapter/http/handler"
	"github.com/iho/tradeledger/internal/adapter/http/middleware"
	"github.com/iho/tradeledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	InstrumentHandler *handler.InstrumentHandler
	TradeHandler      *handler.TradeHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	AuditHandler      *handler.AuditHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Post("/{id}/deposit", cfg.AccountHandler.Deposit)
			r.Get("/{id}/trades", cfg.TradeHandler.ListByAccount)
			r.Get("/{id}/portfolio", cfg.AnalyticsHandler.Portfolio)
			r.Get("/{id}/portfolio/evaluation", cfg.AnalyticsHandler.Evaluation)
			r.Get("/{id}/assets", cfg.AnalyticsHandler.TotalAssets)
			r.Get("/{id}/return-rate", cfg.AnalyticsHandler.ReturnRate)
			r.Get("/{id}/statistics", cfg.AnalyticsHandler.Statistics)
			r.Get("/{id}/daily-summaries", cfg.AnalyticsHandler.DailySummaries)
			r.Get("/{id}/trade-details", cfg.AnalyticsHandler.TradeDetails)
			r.Get("/{id}/audit-logs", cfg.AuditHandler.ListByAccount)
		})

		// Instruments
		r.Route("/instruments", func(r chi.Router) {
			r.Post("/", cfg.InstrumentHandler.Create)
			r.Get("/", cfg.InstrumentHandler.List)
			r.Get("/{id}", cfg.InstrumentHandler.Get)
			r.Get("/code/{code}", cfg.InstrumentHandler.GetByCode)
			r.Put("/{id}", cfg.InstrumentHandler.Update)
			r.Put("/{id}/price", cfg.InstrumentHandler.UpdatePrice)
			r.Delete("/{id}", cfg.InstrumentHandler.Delete)
		})

		// Trades
		r.Route("/trades", func(r chi.Router) {
			r.Post("/", cfg.TradeHandler.Execute)
			r.Get("/{id}", cfg.TradeHandler.Get)
		})
	})

	return r
}

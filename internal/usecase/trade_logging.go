package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/infrastructure/metrics"
)

// TradeExecutor is the ledger engine's mutating entry point.
type TradeExecutor interface {
	ExecuteTrade(ctx context.Context, input ExecuteTradeInput) (*TradeResult, error)
}

// LoggingTradeExecutor wraps a TradeUseCase with structured logging
// and metrics around every execution attempt. Read operations pass
// through unchanged.
type LoggingTradeExecutor struct {
	*TradeUseCase
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewLoggingTradeExecutor creates a new LoggingTradeExecutor.
// metrics is optional.
func NewLoggingTradeExecutor(next *TradeUseCase, logger zerolog.Logger, m *metrics.Metrics) *LoggingTradeExecutor {
	return &LoggingTradeExecutor{
		TradeUseCase: next,
		logger:       logger,
		metrics:      m,
	}
}

// ExecuteTrade delegates to the wrapped engine.
func (e *LoggingTradeExecutor) ExecuteTrade(ctx context.Context, input ExecuteTradeInput) (*TradeResult, error) {
	e.logger.Info().
		Str("account_id", input.AccountID).
		Str("instrument_id", input.InstrumentID).
		Str("side", input.Side).
		Int64("quantity", input.Quantity).
		Msg("executing trade")

	start := time.Now()
	result, err := e.TradeUseCase.ExecuteTrade(ctx, input)
	elapsed := time.Since(start)

	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("account_id", input.AccountID).
			Str("instrument_id", input.InstrumentID).
			Str("kind", errorKind(err)).
			Dur("duration", elapsed).
			Msg("trade rejected")

		if e.metrics != nil {
			e.metrics.TradeErrors.WithLabelValues(errorKind(err)).Inc()
		}

		return nil, err
	}

	e.logger.Info().
		Str("trade_id", result.Trade.ID).
		Str("account_id", result.Trade.AccountID).
		Str("instrument_id", result.Trade.InstrumentID).
		Str("side", string(result.Trade.Side)).
		Int64("quantity", result.Trade.Quantity).
		Str("total_amount", result.Trade.TotalAmount.String()).
		Dur("duration", elapsed).
		Msg("trade executed")

	if e.metrics != nil {
		e.metrics.TradesExecuted.WithLabelValues(string(result.Trade.Side)).Inc()
		e.metrics.TradeDuration.Observe(elapsed.Seconds())

		amount, _ := result.Trade.TotalAmount.Float64()
		e.metrics.TradeAmount.Observe(amount)
	}

	return result, nil
}

// errorKind names a domain error for logs and metric labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInstrumentNotFound),
		errors.Is(err, domain.ErrHoldingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrInvalidSide):
		return "invalid_side"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrInsufficientHoldings):
		return "insufficient_holdings"
	default:
		return "storage_failure"
	}
}

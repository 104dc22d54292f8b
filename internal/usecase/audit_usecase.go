package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/infrastructure/metrics"
)

// AuditUseCase is the audit sidecar. It writes a diagnostic record
// for every trade attempt through a repository whose writes are not
// part of the trade's transaction, so a rolled-back trade still
// leaves its audit trail. Its own failures are logged and never
// surfaced to the trade.
type AuditUseCase struct {
	auditRepo AuditRepository
	analytics *AnalyticsUseCase
	idGen     IDGenerator
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewAuditUseCase creates a new AuditUseCase. analytics is optional;
// without it the derived-totals snapshot is left at zero. m is
// optional too.
func NewAuditUseCase(auditRepo AuditRepository, analytics *AnalyticsUseCase, idGen IDGenerator, logger zerolog.Logger, m *metrics.Metrics) *AuditUseCase {
	return &AuditUseCase{
		auditRepo: auditRepo,
		analytics: analytics,
		idGen:     idGen,
		logger:    logger,
		metrics:   m,
	}
}

// Record writes one audit entry for a trade attempt. Implements
// AuditRecorder.
func (uc *AuditUseCase) Record(ctx context.Context, order domain.Order, status domain.AuditStatus, message string) {
	entry := &domain.TradeAuditLog{
		ID:              uc.idGen.Generate(),
		AccountID:       order.AccountID,
		InstrumentID:    order.InstrumentID,
		Side:            order.Side,
		Quantity:        order.Quantity,
		Status:          status,
		Message:         message,
		TotalAssets:     decimal.Zero,
		TotalReturnRate: decimal.Zero,
		CreatedAt:       time.Now().UTC(),
	}

	if uc.analytics != nil {
		if assets, err := uc.analytics.GetTotalAssets(ctx, order.AccountID); err == nil {
			entry.TotalAssets = assets.TotalAssets
		}

		if rate, err := uc.analytics.GetReturnRate(ctx, order.AccountID); err == nil {
			entry.TotalReturnRate = decimal.NewFromFloat(rate.ReturnRate)
		}
	}

	if err := uc.auditRepo.Create(ctx, entry); err != nil {
		uc.logger.Error().
			Err(err).
			Str("account_id", order.AccountID).
			Str("instrument_id", order.InstrumentID).
			Str("status", string(status)).
			Msg("failed to write trade audit log")
		return
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(status)).Inc()
	}
}

// ListByAccount returns audit entries for an account, newest first.
func (uc *AuditUseCase) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TradeAuditLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return uc.auditRepo.ListByAccount(ctx, accountID, limit, offset)
}

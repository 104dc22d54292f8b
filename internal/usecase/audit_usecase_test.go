package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
	"github.com/iho/tradeledger/internal/usecase/mocks"
)

func TestAuditUseCase_Record(t *testing.T) {
	t.Run("snapshots portfolio totals", func(t *testing.T) {
		f := newAnalyticsFixture()
		f.seedPortfolio()

		auditRepo := mocks.NewMockAuditRepository()
		uc := usecase.NewAuditUseCase(auditRepo, f.uc, mocks.NewMockIDGenerator(), zerolog.Nop(), nil)

		order := domain.Order{AccountID: "acc-1", InstrumentID: "ins-1", Side: domain.SideBuy, Quantity: 5}
		uc.Record(context.Background(), order, domain.AuditStatusSuccess, "BUY 5 x ins-1 at 200")

		if len(auditRepo.Entries) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(auditRepo.Entries))
		}

		entry := auditRepo.Entries[0]
		if entry.Status != domain.AuditStatusSuccess {
			t.Errorf("expected success status, got %s", entry.Status)
		}
		if !entry.TotalAssets.Equal(decimal.NewFromInt(8000)) {
			t.Errorf("expected total assets 8000, got %s", entry.TotalAssets)
		}
		if entry.TotalReturnRate.IsZero() {
			t.Error("expected a non-zero return rate snapshot")
		}
	})

	t.Run("records failures without analytics", func(t *testing.T) {
		auditRepo := mocks.NewMockAuditRepository()
		uc := usecase.NewAuditUseCase(auditRepo, nil, mocks.NewMockIDGenerator(), zerolog.Nop(), nil)

		order := domain.Order{AccountID: "acc-1", InstrumentID: "ins-1", Side: domain.SideSell, Quantity: 3}
		uc.Record(context.Background(), order, domain.AuditStatusFailure, "insufficient holdings: held 0, requested 3")

		if len(auditRepo.Entries) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(auditRepo.Entries))
		}
		if auditRepo.Entries[0].Message == "" {
			t.Error("expected failure message preserved")
		}
		if !auditRepo.Entries[0].TotalAssets.IsZero() {
			t.Errorf("expected zero snapshot without analytics, got %s", auditRepo.Entries[0].TotalAssets)
		}
	})

	t.Run("swallows storage failures", func(t *testing.T) {
		auditRepo := mocks.NewMockAuditRepository()
		auditRepo.CreateFunc = func(ctx context.Context, entry *domain.TradeAuditLog) error {
			return errors.New("connection refused")
		}

		uc := usecase.NewAuditUseCase(auditRepo, nil, mocks.NewMockIDGenerator(), zerolog.Nop(), nil)

		// Must not panic or surface the error.
		uc.Record(context.Background(), domain.Order{AccountID: "acc-1"}, domain.AuditStatusFailure, "boom")
	})
}

func TestAuditUseCase_ListByAccount(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository()
	for i := 0; i < 3; i++ {
		auditRepo.Entries = append(auditRepo.Entries, &domain.TradeAuditLog{
			ID:        "aud-" + string(rune('1'+i)),
			AccountID: "acc-1",
			Status:    domain.AuditStatusSuccess,
		})
	}

	uc := usecase.NewAuditUseCase(auditRepo, nil, mocks.NewMockIDGenerator(), zerolog.Nop(), nil)

	entries, err := uc.ListByAccount(context.Background(), "acc-1", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}

	// Newest first.
	if entries[0].ID != "aud-3" {
		t.Errorf("expected aud-3 first, got %s", entries[0].ID)
	}
}

package usecase_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/infrastructure/metrics"
	"github.com/iho/tradeledger/internal/usecase"
	"github.com/iho/tradeledger/internal/usecase/mocks"
)

// newTestMetrics builds a Metrics value with unregistered collectors
// so each test gets independent counters without touching the default
// registry.
func newTestMetrics() *metrics.Metrics {
	return &metrics.Metrics{
		TradesExecuted:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "trades_executed_total"}, []string{"side"}),
		TradeErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "trade_errors_total"}, []string{"kind"}),
		TradeDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Name: "trade_duration_seconds"}),
		TradeAmount:        prometheus.NewHistogram(prometheus.HistogramOpts{Name: "trade_amount"}),
		AccountsCreated:    prometheus.NewCounter(prometheus.CounterOpts{Name: "accounts_created_total"}),
		InstrumentsCreated: prometheus.NewCounter(prometheus.CounterOpts{Name: "instruments_created_total"}),
		PriceUpdates:       prometheus.NewCounter(prometheus.CounterOpts{Name: "price_updates_total"}),
		AuditLogsCreated:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "audit_logs_total"}, []string{"status"}),
	}
}

func TestAccountUseCase_CreateAccount_CountsMetric(t *testing.T) {
	m := newTestMetrics()
	uc := usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), mocks.NewMockAccountRepository(), mocks.NewMockIDGenerator(), m)

	if _, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Name: "trader", OpeningBalance: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(m.AccountsCreated); got != 1 {
		t.Errorf("expected accounts counter 1, got %v", got)
	}

	// A rejected account must not count.
	if _, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Name: "bad", OpeningBalance: decimal.NewFromInt(-1)}); err == nil {
		t.Fatal("expected error for negative opening balance")
	}
	if got := testutil.ToFloat64(m.AccountsCreated); got != 1 {
		t.Errorf("expected accounts counter to stay at 1, got %v", got)
	}
}

func TestInstrumentUseCase_Metrics(t *testing.T) {
	m := newTestMetrics()
	repo := mocks.NewMockInstrumentRepository()
	uc := usecase.NewInstrumentUseCase(repo, mocks.NewMockIDGenerator(), nil, m)

	instrument, err := uc.CreateInstrument(context.Background(), usecase.CreateInstrumentInput{
		Code:          "AAPL",
		Name:          "Apple",
		CurrentPrice:  decimal.NewFromInt(200),
		PreviousPrice: decimal.NewFromInt(195),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(m.InstrumentsCreated); got != 1 {
		t.Errorf("expected instruments counter 1, got %v", got)
	}

	if _, err := uc.UpdatePrice(context.Background(), instrument.ID, decimal.NewFromInt(210)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(m.PriceUpdates); got != 1 {
		t.Errorf("expected price updates counter 1, got %v", got)
	}

	// A rejected price must not count.
	if _, err := uc.UpdatePrice(context.Background(), instrument.ID, decimal.Zero); err == nil {
		t.Fatal("expected error for non-positive price")
	}
	if got := testutil.ToFloat64(m.PriceUpdates); got != 1 {
		t.Errorf("expected price updates counter to stay at 1, got %v", got)
	}
}

func TestAuditUseCase_Record_CountsMetric(t *testing.T) {
	m := newTestMetrics()
	uc := usecase.NewAuditUseCase(mocks.NewMockAuditRepository(), nil, mocks.NewMockIDGenerator(), zerolog.Nop(), m)

	order := domain.Order{AccountID: "acc-1", InstrumentID: "ins-1", Side: domain.SideBuy, Quantity: 5}

	uc.Record(context.Background(), order, domain.AuditStatusSuccess, "order executed")
	uc.Record(context.Background(), order, domain.AuditStatusFailure, "insufficient funds")
	uc.Record(context.Background(), order, domain.AuditStatusFailure, "insufficient funds")

	if got := testutil.ToFloat64(m.AuditLogsCreated.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 success audit log, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuditLogsCreated.WithLabelValues("failure")); got != 2 {
		t.Errorf("expected 2 failure audit logs, got %v", got)
	}
}

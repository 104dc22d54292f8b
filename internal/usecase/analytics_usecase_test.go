package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
	"github.com/iho/tradeledger/internal/usecase/mocks"
)

type analyticsFixture struct {
	accountRepo    *mocks.MockAccountRepository
	instrumentRepo *mocks.MockInstrumentRepository
	holdingRepo    *mocks.MockHoldingRepository
	tradeRepo      *mocks.MockTradeRepository
	uc             *usecase.AnalyticsUseCase
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		accountRepo:    mocks.NewMockAccountRepository(),
		instrumentRepo: mocks.NewMockInstrumentRepository(),
		holdingRepo:    mocks.NewMockHoldingRepository(),
		tradeRepo:      mocks.NewMockTradeRepository(),
	}
	f.uc = usecase.NewAnalyticsUseCase(f.accountRepo, f.instrumentRepo, f.holdingRepo, f.tradeRepo)

	return f
}

func (f *analyticsFixture) seedPortfolio() {
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(5000)})
	f.instrumentRepo.Seed(&domain.Instrument{
		ID: "ins-1", Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200),
	})
	f.instrumentRepo.Seed(&domain.Instrument{
		ID: "ins-2", Code: "MSFT", Name: "Microsoft", CurrentPrice: decimal.NewFromInt(50),
	})
	f.holdingRepo.Seed(&domain.Holding{
		AccountID: "acc-1", InstrumentID: "ins-1", Quantity: 10, AverageCost: decimal.NewFromInt(100),
	})
	f.holdingRepo.Seed(&domain.Holding{
		AccountID: "acc-1", InstrumentID: "ins-2", Quantity: 20, AverageCost: decimal.NewFromInt(60),
	})
}

func TestAnalyticsUseCase_GetPortfolioEvaluation(t *testing.T) {
	f := newAnalyticsFixture()
	f.seedPortfolio()

	eval, err := f.uc.GetPortfolioEvaluation(context.Background(), "acc-1")
	require.NoError(t, err)

	// ins-1: cost 1000, market 2000. ins-2: cost 1200, market 1000.
	assert.True(t, eval.TotalCost.Equal(decimal.NewFromInt(2200)), "total cost %s", eval.TotalCost)
	assert.True(t, eval.TotalMarketValue.Equal(decimal.NewFromInt(3000)), "market value %s", eval.TotalMarketValue)
	assert.True(t, eval.TotalProfitLoss.Equal(decimal.NewFromInt(800)), "profit %s", eval.TotalProfitLoss)
	assert.True(t, eval.CashBalance.Equal(decimal.NewFromInt(5000)))
	assert.True(t, eval.TotalAssets.Equal(decimal.NewFromInt(8000)), "total assets %s", eval.TotalAssets)
	assert.InDelta(t, 36.3636, eval.ReturnRate, 0.0001)
	assert.Len(t, eval.Holdings, 2)
}

func TestAnalyticsUseCase_GetPortfolioEvaluation_EmptyPortfolio(t *testing.T) {
	f := newAnalyticsFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.NewFromInt(5000)})

	eval, err := f.uc.GetPortfolioEvaluation(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Zero(t, eval.ReturnRate, "empty portfolio must report exactly zero")
	assert.True(t, eval.TotalAssets.Equal(decimal.NewFromInt(5000)))
	assert.Empty(t, eval.Holdings)
}

func TestAnalyticsUseCase_GetPortfolio_UnknownAccount(t *testing.T) {
	f := newAnalyticsFixture()

	_, err := f.uc.GetPortfolio(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
}

func TestAnalyticsUseCase_GetTotalAssets(t *testing.T) {
	f := newAnalyticsFixture()
	f.seedPortfolio()

	summary, err := f.uc.GetTotalAssets(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.True(t, summary.HoldingsValue.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.TotalAssets.Equal(decimal.NewFromInt(8000)))
}

func TestAnalyticsUseCase_GetReturnRate(t *testing.T) {
	f := newAnalyticsFixture()
	f.seedPortfolio()

	summary, err := f.uc.GetReturnRate(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.True(t, summary.ProfitLoss.Equal(decimal.NewFromInt(800)))
	assert.InDelta(t, 36.3636, summary.ReturnRate, 0.0001)
}

func TestAnalyticsUseCase_ReadsAreRepeatable(t *testing.T) {
	f := newAnalyticsFixture()
	f.seedPortfolio()

	first, err := f.uc.GetReturnRate(context.Background(), "acc-1")
	require.NoError(t, err)

	second, err := f.uc.GetReturnRate(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, first.ReturnRate, second.ReturnRate)
	assert.True(t, first.ProfitLoss.Equal(second.ProfitLoss))
}

func TestAnalyticsUseCase_GetTradeStatistics(t *testing.T) {
	f := newAnalyticsFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.Zero})
	f.instrumentRepo.Seed(&domain.Instrument{ID: "ins-1", Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200)})
	f.instrumentRepo.Seed(&domain.Instrument{ID: "ins-2", Code: "MSFT", Name: "Microsoft", CurrentPrice: decimal.NewFromInt(50)})

	now := time.Now().UTC()
	seed := []struct {
		instrument string
		side       domain.Side
		qty        int64
		amount     int64
	}{
		{"ins-1", domain.SideBuy, 10, 1000},
		{"ins-1", domain.SideBuy, 5, 600},
		{"ins-1", domain.SideSell, 8, 1600},
		{"ins-2", domain.SideBuy, 20, 1000},
	}
	for i, s := range seed {
		f.tradeRepo.Seed(&domain.Trade{
			ID:           "trd-" + string(rune('1'+i)),
			AccountID:    "acc-1",
			InstrumentID: s.instrument,
			Side:         s.side,
			Quantity:     s.qty,
			TotalAmount:  decimal.NewFromInt(s.amount),
			ExecutedAt:   now,
		})
	}

	stats, err := f.uc.GetTradeStatistics(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	aapl := stats[0]
	assert.Equal(t, "ins-1", aapl.InstrumentID)
	assert.Equal(t, "AAPL", aapl.InstrumentCode)
	assert.Equal(t, int64(15), aapl.BuyQuantity)
	assert.Equal(t, int64(8), aapl.SellQuantity)
	assert.Equal(t, int64(7), aapl.NetQuantity)
	assert.True(t, aapl.BuyAmount.Equal(decimal.NewFromInt(1600)))
	assert.True(t, aapl.SellAmount.Equal(decimal.NewFromInt(1600)))
	assert.True(t, aapl.NetAmount.IsZero())

	msft := stats[1]
	assert.Equal(t, "ins-2", msft.InstrumentID)
	assert.Equal(t, int64(20), msft.NetQuantity)
	assert.True(t, msft.NetAmount.Equal(decimal.NewFromInt(-1000)))
}

func TestAnalyticsUseCase_GetDailySummaries(t *testing.T) {
	f := newAnalyticsFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.Zero})

	day1 := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 15, 45, 0, 0, time.UTC)

	f.tradeRepo.Seed(&domain.Trade{
		ID: "trd-1", AccountID: "acc-1", InstrumentID: "ins-1",
		Side: domain.SideBuy, Quantity: 1, TotalAmount: decimal.NewFromInt(100), ExecutedAt: day1,
	})
	f.tradeRepo.Seed(&domain.Trade{
		ID: "trd-2", AccountID: "acc-1", InstrumentID: "ins-1",
		Side: domain.SideSell, Quantity: 1, TotalAmount: decimal.NewFromInt(120), ExecutedAt: day1,
	})
	f.tradeRepo.Seed(&domain.Trade{
		ID: "trd-3", AccountID: "acc-1", InstrumentID: "ins-1",
		Side: domain.SideBuy, Quantity: 2, TotalAmount: decimal.NewFromInt(250), ExecutedAt: day2,
	})

	summaries, err := f.uc.GetDailySummaries(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Newest date first.
	assert.Equal(t, "2026-03-11", summaries[0].Date)
	assert.Equal(t, int64(1), summaries[0].BuyCount)
	assert.Equal(t, int64(0), summaries[0].SellCount)
	assert.True(t, summaries[0].TotalAmount.Equal(decimal.NewFromInt(250)))

	assert.Equal(t, "2026-03-10", summaries[1].Date)
	assert.Equal(t, int64(2), summaries[1].TotalCount)
	assert.True(t, summaries[1].TotalAmount.Equal(decimal.NewFromInt(220)))
}

func TestAnalyticsUseCase_GetTradeDetails(t *testing.T) {
	f := newAnalyticsFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Balance: decimal.Zero})

	now := time.Now().UTC()
	f.tradeRepo.Seed(&domain.Trade{
		ID: "trd-1", AccountID: "acc-1", InstrumentID: "ins-1",
		Side: domain.SideBuy, Quantity: 2, TotalAmount: decimal.NewFromInt(400), ExecutedAt: now,
	})
	f.tradeRepo.Seed(&domain.Trade{
		ID: "trd-2", AccountID: "acc-1", InstrumentID: "ins-1",
		Side: domain.SideSell, Quantity: 1, TotalAmount: decimal.NewFromInt(250), ExecutedAt: now,
	})

	details, err := f.uc.GetTradeDetails(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.True(t, details.TotalBuyAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, details.TotalSellAmount.Equal(decimal.NewFromInt(250)))
	assert.True(t, details.NetAmount.Equal(decimal.NewFromInt(-150)))
	assert.Len(t, details.Trades, 2)
}

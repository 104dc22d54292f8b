package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// AnalyticsUseCase derives read-only aggregations from current
// holdings and the trade log. It never mutates and is never invoked
// inside the trade write path.
type AnalyticsUseCase struct {
	accountRepo    AccountRepository
	instrumentRepo InstrumentRepository
	holdingRepo    HoldingRepository
	tradeRepo      TradeRepository
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase.
func NewAnalyticsUseCase(
	accountRepo AccountRepository,
	instrumentRepo InstrumentRepository,
	holdingRepo HoldingRepository,
	tradeRepo TradeRepository,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		accountRepo:    accountRepo,
		instrumentRepo: instrumentRepo,
		holdingRepo:    holdingRepo,
		tradeRepo:      tradeRepo,
	}
}

// HoldingValuation is one holding priced at the current market.
type HoldingValuation struct {
	AccountID      string
	InstrumentID   string
	InstrumentCode string
	InstrumentName string
	Quantity       int64
	AverageCost    decimal.Decimal
	CurrentPrice   decimal.Decimal
	MarketValue    decimal.Decimal
	CostBasisValue decimal.Decimal
	ProfitLoss     decimal.Decimal
}

// PortfolioEvaluation is a whole-portfolio snapshot.
type PortfolioEvaluation struct {
	AccountID        string
	CashBalance      decimal.Decimal
	TotalCost        decimal.Decimal
	TotalMarketValue decimal.Decimal
	TotalProfitLoss  decimal.Decimal
	ReturnRate       float64
	TotalAssets      decimal.Decimal
	Holdings         []HoldingValuation
}

// AssetSummary is cash plus holdings at market.
type AssetSummary struct {
	AccountID     string
	CashBalance   decimal.Decimal
	HoldingsValue decimal.Decimal
	TotalAssets   decimal.Decimal
}

// ReturnRateSummary is profit/loss relative to cost basis.
type ReturnRateSummary struct {
	AccountID        string
	TotalCost        decimal.Decimal
	TotalMarketValue decimal.Decimal
	ProfitLoss       decimal.Decimal
	ReturnRate       float64
}

// InstrumentStatistics aggregates the trade log per instrument.
type InstrumentStatistics struct {
	InstrumentID   string
	InstrumentCode string
	InstrumentName string
	BuyQuantity    int64
	SellQuantity   int64
	NetQuantity    int64
	BuyAmount      decimal.Decimal
	SellAmount     decimal.Decimal
	NetAmount      decimal.Decimal
}

// DailySummary aggregates the trade log per calendar date.
type DailySummary struct {
	Date        string
	BuyCount    int64
	SellCount   int64
	TotalCount  int64
	TotalAmount decimal.Decimal
}

// TradeDetails is the trade list with buy/sell totals.
type TradeDetails struct {
	AccountID       string
	TotalBuyAmount  decimal.Decimal
	TotalSellAmount decimal.Decimal
	NetAmount       decimal.Decimal
	Trades          []*domain.Trade
}

// GetPortfolio returns the account's holdings priced at the current
// market.
func (uc *AnalyticsUseCase) GetPortfolio(ctx context.Context, accountID string) ([]HoldingValuation, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return uc.valuedHoldings(ctx, accountID)
}

// GetPortfolioEvaluation returns the full portfolio snapshot: cash,
// cost basis, market value, profit/loss, return rate and total assets.
func (uc *AnalyticsUseCase) GetPortfolioEvaluation(ctx context.Context, accountID string) (*PortfolioEvaluation, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := uc.valuedHoldings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totalCost := decimal.Zero
	totalMarket := decimal.Zero

	for _, h := range holdings {
		totalCost = totalCost.Add(h.CostBasisValue)
		totalMarket = totalMarket.Add(h.MarketValue)
	}

	profitLoss := totalMarket.Sub(totalCost)

	return &PortfolioEvaluation{
		AccountID:        accountID,
		CashBalance:      account.Balance,
		TotalCost:        totalCost,
		TotalMarketValue: totalMarket,
		TotalProfitLoss:  profitLoss,
		ReturnRate:       returnRate(profitLoss, totalCost),
		TotalAssets:      account.Balance.Add(totalMarket),
		Holdings:         holdings,
	}, nil
}

// GetTotalAssets returns cash plus the market value of all holdings.
func (uc *AnalyticsUseCase) GetTotalAssets(ctx context.Context, accountID string) (*AssetSummary, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := uc.valuedHoldings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdingsValue := decimal.Zero
	for _, h := range holdings {
		holdingsValue = holdingsValue.Add(h.MarketValue)
	}

	return &AssetSummary{
		AccountID:     accountID,
		CashBalance:   account.Balance,
		HoldingsValue: holdingsValue,
		TotalAssets:   account.Balance.Add(holdingsValue),
	}, nil
}

// GetReturnRate returns profit/loss as a percentage of cost basis.
// An empty portfolio has a return rate of exactly 0.
func (uc *AnalyticsUseCase) GetReturnRate(ctx context.Context, accountID string) (*ReturnRateSummary, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	holdings, err := uc.valuedHoldings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totalCost := decimal.Zero
	totalMarket := decimal.Zero

	for _, h := range holdings {
		totalCost = totalCost.Add(h.CostBasisValue)
		totalMarket = totalMarket.Add(h.MarketValue)
	}

	profitLoss := totalMarket.Sub(totalCost)

	return &ReturnRateSummary{
		AccountID:        accountID,
		TotalCost:        totalCost,
		TotalMarketValue: totalMarket,
		ProfitLoss:       profitLoss,
		ReturnRate:       returnRate(profitLoss, totalCost),
	}, nil
}

// GetTradeStatistics groups the account's trade log by instrument and
// sums buy and sell quantities and amounts separately.
func (uc *AnalyticsUseCase) GetTradeStatistics(ctx context.Context, accountID string) ([]InstrumentStatistics, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	trades, err := uc.tradeRepo.ListAllByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	byInstrument := make(map[string]*InstrumentStatistics)

	for _, t := range trades {
		stats, ok := byInstrument[t.InstrumentID]
		if !ok {
			stats = &InstrumentStatistics{
				InstrumentID: t.InstrumentID,
				BuyAmount:    decimal.Zero,
				SellAmount:   decimal.Zero,
			}
			byInstrument[t.InstrumentID] = stats
		}

		switch t.Side {
		case domain.SideBuy:
			stats.BuyQuantity += t.Quantity
			stats.BuyAmount = stats.BuyAmount.Add(t.TotalAmount)
		case domain.SideSell:
			stats.SellQuantity += t.Quantity
			stats.SellAmount = stats.SellAmount.Add(t.TotalAmount)
		}
	}

	result := make([]InstrumentStatistics, 0, len(byInstrument))

	for id, stats := range byInstrument {
		stats.NetQuantity = stats.BuyQuantity - stats.SellQuantity
		stats.NetAmount = stats.SellAmount.Sub(stats.BuyAmount)

		if instrument, err := uc.instrumentRepo.GetByID(ctx, id); err == nil {
			stats.InstrumentCode = instrument.Code
			stats.InstrumentName = instrument.Name
		}

		result = append(result, *stats)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].InstrumentID < result[j].InstrumentID
	})

	return result, nil
}

// GetDailySummaries groups the account's trade log by calendar date,
// newest date first.
func (uc *AnalyticsUseCase) GetDailySummaries(ctx context.Context, accountID string) ([]DailySummary, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	trades, err := uc.tradeRepo.ListAllByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*DailySummary)

	for _, t := range trades {
		date := t.ExecutedAt.UTC().Format(time.DateOnly)

		summary, ok := byDate[date]
		if !ok {
			summary = &DailySummary{Date: date, TotalAmount: decimal.Zero}
			byDate[date] = summary
		}

		switch t.Side {
		case domain.SideBuy:
			summary.BuyCount++
		case domain.SideSell:
			summary.SellCount++
		}

		summary.TotalCount++
		summary.TotalAmount = summary.TotalAmount.Add(t.TotalAmount)
	}

	result := make([]DailySummary, 0, len(byDate))
	for _, s := range byDate {
		result = append(result, *s)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})

	return result, nil
}

// GetTradeDetails returns the full trade list with buy/sell totals.
func (uc *AnalyticsUseCase) GetTradeDetails(ctx context.Context, accountID string) (*TradeDetails, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	trades, err := uc.tradeRepo.ListAllByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totalBuy := decimal.Zero
	totalSell := decimal.Zero

	for _, t := range trades {
		switch t.Side {
		case domain.SideBuy:
			totalBuy = totalBuy.Add(t.TotalAmount)
		case domain.SideSell:
			totalSell = totalSell.Add(t.TotalAmount)
		}
	}

	return &TradeDetails{
		AccountID:       accountID,
		TotalBuyAmount:  totalBuy,
		TotalSellAmount: totalSell,
		NetAmount:       totalSell.Sub(totalBuy),
		Trades:          trades,
	}, nil
}

func (uc *AnalyticsUseCase) valuedHoldings(ctx context.Context, accountID string) ([]HoldingValuation, error) {
	holdings, err := uc.holdingRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	result := make([]HoldingValuation, 0, len(holdings))

	for _, h := range holdings {
		instrument, err := uc.instrumentRepo.GetByID(ctx, h.InstrumentID)
		if err != nil {
			return nil, err
		}

		marketValue := h.Valuation(instrument.CurrentPrice)
		costBasis := h.CostBasisValue()

		result = append(result, HoldingValuation{
			AccountID:      h.AccountID,
			InstrumentID:   h.InstrumentID,
			InstrumentCode: instrument.Code,
			InstrumentName: instrument.Name,
			Quantity:       h.Quantity,
			AverageCost:    h.AverageCost,
			CurrentPrice:   instrument.CurrentPrice,
			MarketValue:    marketValue,
			CostBasisValue: costBasis,
			ProfitLoss:     marketValue.Sub(costBasis),
		})
	}

	return result, nil
}

// returnRate is (profitLoss * 100) / totalCost, or 0 exactly when the
// cost basis is zero. Never NaN or Inf.
func returnRate(profitLoss, totalCost decimal.Decimal) float64 {
	if totalCost.IsZero() {
		return 0.0
	}

	rate, _ := profitLoss.Mul(decimal.NewFromInt(100)).
		DivRound(totalCost, 4).
		Float64()

	return rate
}

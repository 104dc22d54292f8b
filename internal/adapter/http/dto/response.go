package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// InstrumentResponse represents an instrument in API responses.
type InstrumentResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InstrumentFromDomain converts domain instrument to response.
func InstrumentFromDomain(i *domain.Instrument) *InstrumentResponse {
	return &InstrumentResponse{
		ID:            i.ID,
		Code:          i.Code,
		Name:          i.Name,
		CurrentPrice:  i.CurrentPrice,
		PreviousPrice: i.PreviousPrice,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// InstrumentsFromDomain converts domain instruments to responses.
func InstrumentsFromDomain(instruments []*domain.Instrument) []*InstrumentResponse {
	result := make([]*InstrumentResponse, len(instruments))
	for i, ins := range instruments {
		result[i] = InstrumentFromDomain(ins)
	}
	return result
}

// TradeResponse represents a trade in API responses.
type TradeResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	InstrumentID string          `json:"instrument_id"`
	Side         string          `json:"side"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ExecutedAt   time.Time       `json:"executed_at"`
}

// TradeFromDomain converts domain trade to response.
func TradeFromDomain(t *domain.Trade) *TradeResponse {
	return &TradeResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		InstrumentID: t.InstrumentID,
		Side:         string(t.Side),
		Quantity:     t.Quantity,
		Price:        t.Price,
		TotalAmount:  t.TotalAmount,
		ExecutedAt:   t.ExecutedAt,
	}
}

// TradesFromDomain converts domain trades to responses.
func TradesFromDomain(trades []*domain.Trade) []*TradeResponse {
	result := make([]*TradeResponse, len(trades))
	for i, t := range trades {
		result[i] = TradeFromDomain(t)
	}
	return result
}

// HoldingResponse represents a holding in API responses.
type HoldingResponse struct {
	AccountID    string          `json:"account_id"`
	InstrumentID string          `json:"instrument_id"`
	Quantity     int64           `json:"quantity"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HoldingFromDomain converts domain holding to response.
func HoldingFromDomain(h *domain.Holding) *HoldingResponse {
	return &HoldingResponse{
		AccountID:    h.AccountID,
		InstrumentID: h.InstrumentID,
		Quantity:     h.Quantity,
		AverageCost:  h.AverageCost,
		UpdatedAt:    h.UpdatedAt,
	}
}

// TradeResultResponse is the outcome of an executed trade. Holding is
// null when the sell exhausted the position.
type TradeResultResponse struct {
	Trade   *TradeResponse   `json:"trade"`
	Holding *HoldingResponse `json:"holding,omitempty"`
}

// TradeResultFromUseCase converts a trade result to response.
func TradeResultFromUseCase(r *usecase.TradeResult) *TradeResultResponse {
	resp := &TradeResultResponse{Trade: TradeFromDomain(r.Trade)}
	if r.Holding != nil {
		resp.Holding = HoldingFromDomain(r.Holding)
	}
	return resp
}

// HoldingValuationResponse is a holding priced at the current market.
type HoldingValuationResponse struct {
	InstrumentID   string          `json:"instrument_id"`
	InstrumentCode string          `json:"instrument_code"`
	InstrumentName string          `json:"instrument_name"`
	Quantity       int64           `json:"quantity"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	MarketValue    decimal.Decimal `json:"market_value"`
	CostBasisValue decimal.Decimal `json:"cost_basis_value"`
	ProfitLoss     decimal.Decimal `json:"profit_loss"`
}

// HoldingValuationsFromUseCase converts valuations to responses.
func HoldingValuationsFromUseCase(valuations []usecase.HoldingValuation) []HoldingValuationResponse {
	result := make([]HoldingValuationResponse, len(valuations))
	for i, v := range valuations {
		result[i] = HoldingValuationResponse{
			InstrumentID:   v.InstrumentID,
			InstrumentCode: v.InstrumentCode,
			InstrumentName: v.InstrumentName,
			Quantity:       v.Quantity,
			AverageCost:    v.AverageCost,
			CurrentPrice:   v.CurrentPrice,
			MarketValue:    v.MarketValue,
			CostBasisValue: v.CostBasisValue,
			ProfitLoss:     v.ProfitLoss,
		}
	}
	return result
}

// PortfolioResponse wraps a portfolio listing.
type PortfolioResponse struct {
	AccountID string                     `json:"account_id"`
	Holdings  []HoldingValuationResponse `json:"holdings"`
}

// PortfolioEvaluationResponse is a whole-portfolio snapshot.
type PortfolioEvaluationResponse struct {
	AccountID        string                     `json:"account_id"`
	CashBalance      decimal.Decimal            `json:"cash_balance"`
	TotalCost        decimal.Decimal            `json:"total_cost"`
	TotalMarketValue decimal.Decimal            `json:"total_market_value"`
	TotalProfitLoss  decimal.Decimal            `json:"total_profit_loss"`
	ReturnRate       float64                    `json:"return_rate"`
	TotalAssets      decimal.Decimal            `json:"total_assets"`
	Holdings         []HoldingValuationResponse `json:"holdings"`
}

// PortfolioEvaluationFromUseCase converts an evaluation to response.
func PortfolioEvaluationFromUseCase(e *usecase.PortfolioEvaluation) *PortfolioEvaluationResponse {
	return &PortfolioEvaluationResponse{
		AccountID:        e.AccountID,
		CashBalance:      e.CashBalance,
		TotalCost:        e.TotalCost,
		TotalMarketValue: e.TotalMarketValue,
		TotalProfitLoss:  e.TotalProfitLoss,
		ReturnRate:       e.ReturnRate,
		TotalAssets:      e.TotalAssets,
		Holdings:         HoldingValuationsFromUseCase(e.Holdings),
	}
}

// AssetSummaryResponse is cash plus holdings at market.
type AssetSummaryResponse struct {
	AccountID     string          `json:"account_id"`
	CashBalance   decimal.Decimal `json:"cash_balance"`
	HoldingsValue decimal.Decimal `json:"holdings_value"`
	TotalAssets   decimal.Decimal `json:"total_assets"`
}

// ReturnRateResponse is profit/loss relative to cost basis.
type ReturnRateResponse struct {
	AccountID        string          `json:"account_id"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalMarketValue decimal.Decimal `json:"total_market_value"`
	ProfitLoss       decimal.Decimal `json:"profit_loss"`
	ReturnRate       float64         `json:"return_rate"`
}

// InstrumentStatisticsResponse aggregates trades per instrument.
type InstrumentStatisticsResponse struct {
	InstrumentID   string          `json:"instrument_id"`
	InstrumentCode string          `json:"instrument_code"`
	InstrumentName string          `json:"instrument_name"`
	BuyQuantity    int64           `json:"buy_quantity"`
	SellQuantity   int64           `json:"sell_quantity"`
	NetQuantity    int64           `json:"net_quantity"`
	BuyAmount      decimal.Decimal `json:"buy_amount"`
	SellAmount     decimal.Decimal `json:"sell_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
}

// DailySummaryResponse aggregates trades per calendar date.
type DailySummaryResponse struct {
	Date        string          `json:"date"`
	BuyCount    int64           `json:"buy_count"`
	SellCount   int64           `json:"sell_count"`
	TotalCount  int64           `json:"total_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// TradeDetailsResponse is the trade list with buy/sell totals.
type TradeDetailsResponse struct {
	AccountID       string           `json:"account_id"`
	TotalBuyAmount  decimal.Decimal  `json:"total_buy_amount"`
	TotalSellAmount decimal.Decimal  `json:"total_sell_amount"`
	NetAmount       decimal.Decimal  `json:"net_amount"`
	Trades          []*TradeResponse `json:"trades"`
}

// AuditLogResponse represents a trade audit entry.
type AuditLogResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	InstrumentID    string          `json:"instrument_id"`
	Side            string          `json:"side"`
	Quantity        int64           `json:"quantity"`
	Status          string          `json:"status"`
	Message         string          `json:"message"`
	TotalAssets     decimal.Decimal `json:"total_assets"`
	TotalReturnRate decimal.Decimal `json:"total_return_rate"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AuditLogsFromDomain converts audit entries to responses.
func AuditLogsFromDomain(entries []*domain.TradeAuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(entries))
	for i, e := range entries {
		result[i] = &AuditLogResponse{
			ID:              e.ID,
			AccountID:       e.AccountID,
			InstrumentID:    e.InstrumentID,
			Side:            string(e.Side),
			Quantity:        e.Quantity,
			Status:          string(e.Status),
			Message:         e.Message,
			TotalAssets:     e.TotalAssets,
			TotalReturnRate: e.TotalReturnRate,
			CreatedAt:       e.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

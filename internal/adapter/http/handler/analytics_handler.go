package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/usecase"
)

// AnalyticsService defines the behavior needed by AnalyticsHandler.
type AnalyticsService interface {
	GetPortfolio(ctx context.Context, accountID string) ([]usecase.HoldingValuation, error)
	GetPortfolioEvaluation(ctx context.Context, accountID string) (*usecase.PortfolioEvaluation, error)
	GetTotalAssets(ctx context.Context, accountID string) (*usecase.AssetSummary, error)
	GetReturnRate(ctx context.Context, accountID string) (*usecase.ReturnRateSummary, error)
	GetTradeStatistics(ctx context.Context, accountID string) ([]usecase.InstrumentStatistics, error)
	GetDailySummaries(ctx context.Context, accountID string) ([]usecase.DailySummary, error)
	GetTradeDetails(ctx context.Context, accountID string) (*usecase.TradeDetails, error)
}

// AnalyticsHandler serves read-only portfolio and trade aggregations.
type AnalyticsHandler struct {
	analyticsUC AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsUC AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUC: analyticsUC}
}

// Portfolio lists the account's holdings priced at the current market.
func (h *AnalyticsHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	holdings, err := h.analyticsUC.GetPortfolio(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get portfolio", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfolioResponse{
		AccountID: accountID,
		Holdings:  dto.HoldingValuationsFromUseCase(holdings),
	})
}

// Evaluation returns the full portfolio snapshot.
func (h *AnalyticsHandler) Evaluation(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	eval, err := h.analyticsUC.GetPortfolioEvaluation(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to evaluate portfolio", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfolioEvaluationFromUseCase(eval))
}

// TotalAssets returns cash plus holdings at market.
func (h *AnalyticsHandler) TotalAssets(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	summary, err := h.analyticsUC.GetTotalAssets(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get total assets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetSummaryResponse{
		AccountID:     summary.AccountID,
		CashBalance:   summary.CashBalance,
		HoldingsValue: summary.HoldingsValue,
		TotalAssets:   summary.TotalAssets,
	})
}

// ReturnRate returns profit/loss as a percentage of cost basis.
func (h *AnalyticsHandler) ReturnRate(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	summary, err := h.analyticsUC.GetReturnRate(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get return rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReturnRateResponse{
		AccountID:        summary.AccountID,
		TotalCost:        summary.TotalCost,
		TotalMarketValue: summary.TotalMarketValue,
		ProfitLoss:       summary.ProfitLoss,
		ReturnRate:       summary.ReturnRate,
	})
}

// Statistics returns per-instrument trade aggregations.
func (h *AnalyticsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	stats, err := h.analyticsUC.GetTradeStatistics(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get trade statistics", err.Error())
		return
	}

	result := make([]dto.InstrumentStatisticsResponse, len(stats))
	for i, s := range stats {
		result[i] = dto.InstrumentStatisticsResponse{
			InstrumentID:   s.InstrumentID,
			InstrumentCode: s.InstrumentCode,
			InstrumentName: s.InstrumentName,
			BuyQuantity:    s.BuyQuantity,
			SellQuantity:   s.SellQuantity,
			NetQuantity:    s.NetQuantity,
			BuyAmount:      s.BuyAmount,
			SellAmount:     s.SellAmount,
			NetAmount:      s.NetAmount,
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// DailySummaries returns per-date trade aggregations, newest first.
func (h *AnalyticsHandler) DailySummaries(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	summaries, err := h.analyticsUC.GetDailySummaries(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get daily summaries", err.Error())
		return
	}

	result := make([]dto.DailySummaryResponse, len(summaries))
	for i, s := range summaries {
		result[i] = dto.DailySummaryResponse{
			Date:        s.Date,
			BuyCount:    s.BuyCount,
			SellCount:   s.SellCount,
			TotalCount:  s.TotalCount,
			TotalAmount: s.TotalAmount,
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// TradeDetails returns the full trade list with buy/sell totals.
func (h *AnalyticsHandler) TradeDetails(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	details, err := h.analyticsUC.GetTradeDetails(r.Context(), accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get trade details", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradeDetailsResponse{
		AccountID:       details.AccountID,
		TotalBuyAmount:  details.TotalBuyAmount,
		TotalSellAmount: details.TotalSellAmount,
		NetAmount:       details.NetAmount,
		Trades:          dto.TradesFromDomain(details.Trades),
	})
}

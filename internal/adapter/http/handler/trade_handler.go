package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// TradeService defines the behavior needed by TradeHandler.
type TradeService interface {
	ExecuteTrade(ctx context.Context, input usecase.ExecuteTradeInput) (*usecase.TradeResult, error)
	GetTrade(ctx context.Context, id string) (*domain.Trade, error)
	ListTradesByAccount(ctx context.Context, input usecase.ListTradesByAccountInput) ([]*domain.Trade, error)
}

// TradeHandler handles trade execution HTTP requests.
type TradeHandler struct {
	tradeUC TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeUC TradeService) *TradeHandler {
	return &TradeHandler{tradeUC: tradeUC}
}

// Execute submits an order.
func (h *TradeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req dto.ExecuteTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.tradeUC.ExecuteTrade(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to execute trade", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TradeResultFromUseCase(result))
}

// Get retrieves a trade by ID.
func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trade ID", "")
		return
	}

	trade, err := h.tradeUC.GetTrade(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get trade", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradeFromDomain(trade))
}

// ListByAccount lists trades for an account, newest first. An optional
// instrument_id query filters by instrument.
func (h *TradeHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	trades, err := h.tradeUC.ListTradesByAccount(r.Context(), usecase.ListTradesByAccountInput{
		AccountID:    accountID,
		InstrumentID: r.URL.Query().Get("instrument_id"),
		Limit:        parseIntQuery(r, "limit", 20),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list trades", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradesFromDomain(trades))
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// InstrumentService defines the behavior needed by InstrumentHandler.
type InstrumentService interface {
	CreateInstrument(ctx context.Context, input usecase.CreateInstrumentInput) (*domain.Instrument, error)
	GetInstrument(ctx context.Context, id string) (*domain.Instrument, error)
	GetInstrumentByCode(ctx context.Context, code string) (*domain.Instrument, error)
	UpdateInstrument(ctx context.Context, input usecase.UpdateInstrumentInput) (*domain.Instrument, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Instrument, error)
	DeleteInstrument(ctx context.Context, id string) error
	ListInstruments(ctx context.Context, input usecase.ListInstrumentsInput) ([]*domain.Instrument, error)
}

// InstrumentHandler handles instrument catalog HTTP requests.
type InstrumentHandler struct {
	instrumentUC InstrumentService
}

// NewInstrumentHandler creates a new InstrumentHandler.
func NewInstrumentHandler(instrumentUC InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{instrumentUC: instrumentUC}
}

// Create adds an instrument to the catalog.
func (h *InstrumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	instrument, err := h.instrumentUC.CreateInstrument(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create instrument", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.InstrumentFromDomain(instrument))
}

// Get retrieves an instrument by ID.
func (h *InstrumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing instrument ID", "")
		return
	}

	instrument, err := h.instrumentUC.GetInstrument(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get instrument", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InstrumentFromDomain(instrument))
}

// GetByCode retrieves an instrument by catalog code.
func (h *InstrumentHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing instrument code", "")
		return
	}

	instrument, err := h.instrumentUC.GetInstrumentByCode(r.Context(), code)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get instrument", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InstrumentFromDomain(instrument))
}

// Update replaces catalog fields of an instrument.
func (h *InstrumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing instrument ID", "")
		return
	}

	var req dto.UpdateInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	instrument, err := h.instrumentUC.UpdateInstrument(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update instrument", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InstrumentFromDomain(instrument))
}

// UpdatePrice sets a new market price.
func (h *InstrumentHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing instrument ID", "")
		return
	}

	var req dto.UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	instrument, err := h.instrumentUC.UpdatePrice(r.Context(), id, req.Price)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update price", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InstrumentFromDomain(instrument))
}

// Delete removes an instrument from the catalog.
func (h *InstrumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing instrument ID", "")
		return
	}

	if err := h.instrumentUC.DeleteInstrument(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete instrument", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists instruments.
func (h *InstrumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	instruments, err := h.instrumentUC.ListInstruments(r.Context(), usecase.ListInstrumentsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list instruments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InstrumentsFromDomain(instruments))
}

package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TradeAuditLog, error)
}

// AuditHandler serves the trade audit trail.
type AuditHandler struct {
	auditUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// ListByAccount lists audit entries for an account, newest first.
func (h *AuditHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	entries, err := h.auditUC.ListByAccount(r.Context(), accountID,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list audit logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(entries))
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Audit outcome of a trade attempt.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// TradeAuditLog is a diagnostic record of a trade attempt. It lives
// outside the trade's atomic unit: the record survives even when the
// trade itself is rolled back, and the ledger engine never reads it
// back.
type TradeAuditLog struct {
	ID              string
	AccountID       string
	InstrumentID    string
	Side            Side
	Quantity        int64
	Status          AuditStatus
	Message         string
	TotalAssets     decimal.Decimal
	TotalReturnRate decimal.Decimal
	CreatedAt       time.Time
}

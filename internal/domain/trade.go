package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide parses a side string case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SideBuy):
		return SideBuy, nil
	case string(SideSell):
		return SideSell, nil
	default:
		return "", ErrInvalidSide
	}
}

// Trade is one executed order. Trades are append-only: once written
// they are never mutated or deleted, and together they form the audit
// trail that analytics is derived from.
type Trade struct {
	ID           string
	AccountID    string
	InstrumentID string
	Side         Side
	Quantity     int64
	Price        decimal.Decimal
	TotalAmount  decimal.Decimal
	ExecutedAt   time.Time
}

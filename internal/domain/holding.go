package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostBasisScale is the number of decimal places kept when the
// weighted average cost is recomputed on a buy.
const CostBasisScale = 4

// Holding is an account's current position in one instrument.
// A holding exists only while quantity > 0; a sell that exhausts the
// position removes the holding rather than storing it at zero.
type Holding struct {
	AccountID    string
	InstrumentID string
	Quantity     int64
	AverageCost  decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewHolding opens a position on a first buy.
func NewHolding(accountID, instrumentID string, quantity int64, price decimal.Decimal, now time.Time) *Holding {
	return &Holding{
		AccountID:    accountID,
		InstrumentID: instrumentID,
		Quantity:     quantity,
		AverageCost:  price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyBuy returns the holding after buying quantity units at price.
// The average cost is the quantity-weighted average of the existing
// position and the new lot, rounded on the real quotient. Integer
// truncation would bias the average low and is deliberately avoided.
func (h *Holding) ApplyBuy(price decimal.Decimal, quantity int64, now time.Time) *Holding {
	newQuantity := h.Quantity + quantity
	totalCost := h.AverageCost.Mul(decimal.NewFromInt(h.Quantity)).
		Add(price.Mul(decimal.NewFromInt(quantity)))
	newAverage := totalCost.DivRound(decimal.NewFromInt(newQuantity), CostBasisScale)

	return &Holding{
		AccountID:    h.AccountID,
		InstrumentID: h.InstrumentID,
		Quantity:     newQuantity,
		AverageCost:  newAverage,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    now,
	}
}

// ApplySell returns the holding after selling quantity units, or nil
// when the sale exhausts the position. The average cost never changes
// on a sell. The caller guarantees quantity <= h.Quantity.
func (h *Holding) ApplySell(quantity int64, now time.Time) *Holding {
	remaining := h.Quantity - quantity
	if remaining == 0 {
		return nil
	}

	return &Holding{
		AccountID:    h.AccountID,
		InstrumentID: h.InstrumentID,
		Quantity:     remaining,
		AverageCost:  h.AverageCost,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    now,
	}
}

// CostBasisValue is quantity x average cost.
func (h *Holding) CostBasisValue() decimal.Decimal {
	return h.AverageCost.Mul(decimal.NewFromInt(h.Quantity))
}

// Valuation is quantity x the instrument's current price.
func (h *Holding) Valuation(currentPrice decimal.Decimal) decimal.Decimal {
	return currentPrice.Mul(decimal.NewFromInt(h.Quantity))
}

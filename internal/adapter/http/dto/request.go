package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
	}
}

// DepositRequest represents a cash deposit.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ExecuteTradeRequest represents an order submission.
type ExecuteTradeRequest struct {
	AccountID    string `json:"account_id"`
	InstrumentID string `json:"instrument_id"`
	Side         string `json:"side"`
	Quantity     int64  `json:"quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *ExecuteTradeRequest) ToUseCaseInput() usecase.ExecuteTradeInput {
	return usecase.ExecuteTradeInput{
		AccountID:    r.AccountID,
		InstrumentID: r.InstrumentID,
		Side:         r.Side,
		Quantity:     r.Quantity,
	}
}

// CreateInstrumentRequest represents a request to add an instrument.
type CreateInstrumentRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInstrumentRequest) ToUseCaseInput() usecase.CreateInstrumentInput {
	return usecase.CreateInstrumentInput{
		Code:          r.Code,
		Name:          r.Name,
		CurrentPrice:  r.CurrentPrice,
		PreviousPrice: r.PreviousPrice,
	}
}

// UpdateInstrumentRequest represents a catalog update.
type UpdateInstrumentRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateInstrumentRequest) ToUseCaseInput(id string) usecase.UpdateInstrumentInput {
	return usecase.UpdateInstrumentInput{
		ID:            id,
		Code:          r.Code,
		Name:          r.Name,
		CurrentPrice:  r.CurrentPrice,
		PreviousPrice: r.PreviousPrice,
	}
}

// UpdatePriceRequest represents a market price update.
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

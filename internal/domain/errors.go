package domain

import "errors"

var (
	// Lookup errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrHoldingNotFound    = errors.New("holding not found")
	ErrTradeNotFound      = errors.New("trade not found")

	// Order errors
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidSide     = errors.New("side must be BUY or SELL")
	ErrInvalidAmount   = errors.New("amount must be positive")

	// Trade errors
	ErrInsufficientFunds    = errors.New("insufficient funds for purchase")
	ErrInsufficientHoldings = errors.New("insufficient holdings for sale")

	// Catalog errors
	ErrDuplicateInstrumentCode = errors.New("instrument code already exists")
	ErrInvalidInstrumentCode   = errors.New("instrument code must not be empty")
	ErrInvalidPrice            = errors.New("price must be positive")
)

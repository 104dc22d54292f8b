package domain

// Order is a validated trade request. Build one with NewOrder before
// handing it to the ledger engine.
type Order struct {
	AccountID    string
	InstrumentID string
	Side         Side
	Quantity     int64
}

// NewOrder validates the pure parts of a trade request: side and
// quantity. Existence of the account and instrument is checked by the
// ledger engine against the stores. No side effects.
func NewOrder(accountID, instrumentID, side string, quantity int64) (Order, error) {
	s, err := ParseSide(side)
	if err != nil {
		return Order{}, err
	}

	if quantity <= 0 {
		return Order{}, ErrInvalidQuantity
	}

	return Order{
		AccountID:    accountID,
		InstrumentID: instrumentID,
		Side:         s,
		Quantity:     quantity,
	}, nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument is a tradable symbol with a current market price.
// Instruments are maintained by the catalog and read-only to the
// ledger engine.
type Instrument struct {
	ID            string
	Code          string
	Name          string
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks catalog invariants for an instrument.
func (i *Instrument) Validate() error {
	if i.Code == "" {
		return ErrInvalidInstrumentCode
	}
	if i.CurrentPrice.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	return nil
}

package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestNewOrder(t *testing.T) {
	tests := []struct {
		name     string
		side     string
		quantity int64
		wantErr  error
		wantSide Side
	}{
		{name: "buy", side: "BUY", quantity: 10, wantSide: SideBuy},
		{name: "sell lowercase", side: "sell", quantity: 1, wantSide: SideSell},
		{name: "zero quantity", side: "BUY", quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", side: "SELL", quantity: -3, wantErr: ErrInvalidQuantity},
		{name: "unknown side", side: "SHORT", quantity: 1, wantErr: ErrInvalidSide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder("acc-1", "ins-1", tt.side, tt.quantity)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if order.Side != tt.wantSide {
				t.Errorf("side = %s, want %s", order.Side, tt.wantSide)
			}
			if order.Quantity != tt.quantity {
				t.Errorf("quantity = %d, want %d", order.Quantity, tt.quantity)
			}
		})
	}
}

func TestAccount_DebitCredit(t *testing.T) {
	acc := &Account{ID: "acc-1", Balance: dec(1000)}

	if err := acc.ValidateDebit(dec(2000)); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("ValidateDebit(2000) = %v, want ErrInsufficientFunds", err)
	}
	if err := acc.ValidateDebit(dec(1000)); err != nil {
		t.Errorf("ValidateDebit(1000) = %v, want nil", err)
	}
	if got := acc.ApplyDebit(dec(300)); !got.Equal(dec(700)) {
		t.Errorf("ApplyDebit = %s, want 700", got)
	}
	if got := acc.ApplyCredit(dec(500)); !got.Equal(dec(1500)) {
		t.Errorf("ApplyCredit = %s, want 1500", got)
	}
}

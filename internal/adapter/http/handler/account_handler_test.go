package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

type accountServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	depositFn func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)
	getFn     func(ctx context.Context, id string) (*domain.Account, error)
	listFn    func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	return s.depositFn(ctx, accountID, amount)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return &domain.Account{
				ID:      "acc-1",
				Name:    input.Name,
				Balance: input.OpeningBalance,
			}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:           "Alice",
		OpeningBalance: decimal.NewFromInt(1000),
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Name != "Alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected balance 1000, got %s", resp.Balance)
	}
}

func TestAccountHandler_Create_InvalidBody(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_NegativeBalance(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrInvalidAmount
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:           "Alice",
		OpeningBalance: decimal.NewFromInt(-5),
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Deposit(t *testing.T) {
	var gotID string
	var gotAmount decimal.Decimal

	handler := NewAccountHandler(&accountServiceStub{
		depositFn: func(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
			gotID = accountID
			gotAmount = amount
			return &domain.Account{ID: accountID, Balance: decimal.NewFromInt(1100)}, nil
		},
	})

	r := chi.NewRouter()
	r.Post("/accounts/{id}/deposit", handler.Deposit)

	body, _ := json.Marshal(dto.DepositRequest{Amount: decimal.NewFromInt(100)})
	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/deposit", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "acc-1" || !gotAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected deposit of 100 to acc-1, got %s to %s", gotAmount, gotID)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	r := chi.NewRouter()
	r.Get("/accounts/{id}", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/accounts/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: "acc-1", Name: "Alice"},
				{ID: "acc-2", Name: "Bob"},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %+v", resp)
	}
}

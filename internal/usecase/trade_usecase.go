package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// TradeUseCase is the ledger engine. ExecuteTrade is its only
// mutating entry point: validate, mutate account and holding
// atomically, append to the trade log.
type TradeUseCase struct {
	txManager      TransactionManager
	accountRepo    AccountRepository
	instrumentRepo InstrumentRepository
	holdingRepo    HoldingRepository
	tradeRepo      TradeRepository
	idGen          IDGenerator
	retrier        Retrier
	audit          AuditRecorder
}

// NewTradeUseCase creates a new TradeUseCase. retrier and audit are
// optional; pass nil to run each trade once and skip audit records.
func NewTradeUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	instrumentRepo InstrumentRepository,
	holdingRepo HoldingRepository,
	tradeRepo TradeRepository,
	idGen IDGenerator,
	retrier Retrier,
	audit AuditRecorder,
) *TradeUseCase {
	return &TradeUseCase{
		txManager:      txManager,
		accountRepo:    accountRepo,
		instrumentRepo: instrumentRepo,
		holdingRepo:    holdingRepo,
		tradeRepo:      tradeRepo,
		idGen:          idGen,
		retrier:        retrier,
		audit:          audit,
	}
}

// ExecuteTradeInput represents an incoming order.
type ExecuteTradeInput struct {
	AccountID    string
	InstrumentID string
	Side         string
	Quantity     int64
}

// TradeResult is the outcome of an executed trade: the appended trade
// record and the resulting holding. Holding is nil when a sell
// exhausted the position.
type TradeResult struct {
	Trade   *domain.Trade
	Holding *domain.Holding
}

// ExecuteTrade executes one order as a single atomic unit against the
// account, its holding and the trade log. Any failure before commit
// leaves all three unchanged. Trades against the same account are
// serialized by the account row lock. The audit sidecar is notified
// about every attempt, including ones that fail before the lock is
// taken.
func (uc *TradeUseCase) ExecuteTrade(ctx context.Context, input ExecuteTradeInput) (*TradeResult, error) {
	order, err := domain.NewOrder(input.AccountID, input.InstrumentID, input.Side, input.Quantity)
	if err != nil {
		uc.recordAudit(ctx, domain.Order{
			AccountID:    input.AccountID,
			InstrumentID: input.InstrumentID,
			Quantity:     input.Quantity,
		}, domain.AuditStatusFailure, err.Error())

		return nil, err
	}

	var result *TradeResult

	operation := func() error {
		r, err := uc.executeOnce(ctx, order)
		if err != nil {
			return err
		}

		result = r

		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if err != nil {
		uc.recordAudit(ctx, order, domain.AuditStatusFailure, err.Error())
		return nil, err
	}

	uc.recordAudit(ctx, order, domain.AuditStatusSuccess,
		fmt.Sprintf("%s %d x %s at %s", order.Side, order.Quantity, order.InstrumentID, result.Trade.Price))

	return result, nil
}

func (uc *TradeUseCase) executeOnce(ctx context.Context, order domain.Order) (*TradeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The FOR UPDATE lock on the account row serializes concurrent
	// trades against the same account for the rest of this function.
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, order.AccountID)
	if err != nil {
		return nil, err
	}

	instrument, err := uc.instrumentRepo.GetByID(ctx, order.InstrumentID)
	if err != nil {
		return nil, err
	}

	price := instrument.CurrentPrice
	totalAmount := price.Mul(decimal.NewFromInt(order.Quantity))
	now := time.Now().UTC()

	var holding *domain.Holding

	switch order.Side {
	case domain.SideBuy:
		holding, err = uc.applyBuy(ctx, tx, account, order, price, totalAmount, now)
	case domain.SideSell:
		holding, err = uc.applySell(ctx, tx, account, order, totalAmount, now)
	default:
		err = domain.ErrInvalidSide
	}

	if err != nil {
		return nil, err
	}

	trade := &domain.Trade{
		ID:           uc.idGen.Generate(),
		AccountID:    order.AccountID,
		InstrumentID: order.InstrumentID,
		Side:         order.Side,
		Quantity:     order.Quantity,
		Price:        price,
		TotalAmount:  totalAmount,
		ExecutedAt:   now,
	}

	if err := uc.tradeRepo.Append(ctx, tx, trade); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TradeResult{Trade: trade, Holding: holding}, nil
}

func (uc *TradeUseCase) applyBuy(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	order domain.Order,
	price, totalAmount decimal.Decimal,
	now time.Time,
) (*domain.Holding, error) {
	if err := account.ValidateDebit(totalAmount); err != nil {
		return nil, fmt.Errorf("%w: required %s, held %s", err, totalAmount, account.Balance)
	}

	existing, err := uc.holdingRepo.GetForUpdate(ctx, tx, order.AccountID, order.InstrumentID)

	var holding *domain.Holding

	switch {
	case err == nil:
		holding = existing.ApplyBuy(price, order.Quantity, now)
	case errors.Is(err, domain.ErrHoldingNotFound):
		holding = domain.NewHolding(order.AccountID, order.InstrumentID, order.Quantity, price, now)
	default:
		return nil, err
	}

	if err := uc.holdingRepo.Upsert(ctx, tx, holding); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyDebit(totalAmount), now); err != nil {
		return nil, err
	}

	return holding, nil
}

func (uc *TradeUseCase) applySell(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	order domain.Order,
	totalAmount decimal.Decimal,
	now time.Time,
) (*domain.Holding, error) {
	existing, err := uc.holdingRepo.GetForUpdate(ctx, tx, order.AccountID, order.InstrumentID)
	if err != nil {
		if errors.Is(err, domain.ErrHoldingNotFound) {
			// No position at all reads as quantity held 0.
			return nil, fmt.Errorf("%w: held 0, requested %d", domain.ErrInsufficientHoldings, order.Quantity)
		}

		return nil, err
	}

	if existing.Quantity < order.Quantity {
		return nil, fmt.Errorf("%w: held %d, requested %d", domain.ErrInsufficientHoldings, existing.Quantity, order.Quantity)
	}

	holding := existing.ApplySell(order.Quantity, now)
	if holding == nil {
		// A holding is never stored at quantity 0.
		if err := uc.holdingRepo.Delete(ctx, tx, order.AccountID, order.InstrumentID); err != nil {
			return nil, err
		}
	} else {
		if err := uc.holdingRepo.Upsert(ctx, tx, holding); err != nil {
			return nil, err
		}
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.ApplyCredit(totalAmount), now); err != nil {
		return nil, err
	}

	return holding, nil
}

func (uc *TradeUseCase) recordAudit(ctx context.Context, order domain.Order, status domain.AuditStatus, message string) {
	if uc.audit == nil {
		return
	}

	uc.audit.Record(ctx, order, status, message)
}

// GetTrade retrieves a trade by ID.
func (uc *TradeUseCase) GetTrade(ctx context.Context, id string) (*domain.Trade, error) {
	return uc.tradeRepo.GetByID(ctx, id)
}

// ListTradesByAccountInput represents input for listing trades.
type ListTradesByAccountInput struct {
	AccountID    string
	InstrumentID string
	Limit        int
	Offset       int
}

// ListTradesByAccount lists trades for an account, newest first.
// When InstrumentID is set, only trades in that instrument are
// returned.
func (uc *TradeUseCase) ListTradesByAccount(ctx context.Context, input ListTradesByAccountInput) ([]*domain.Trade, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	if input.InstrumentID != "" {
		return uc.tradeRepo.ListByAccountAndInstrument(ctx, input.AccountID, input.InstrumentID, input.Limit, input.Offset)
	}

	return uc.tradeRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

// MockTransaction stages writes and applies them on Commit, so tests
// can observe committed state separately from attempted writes.
type MockTransaction struct {
	mu         sync.Mutex
	staged     []func()
	Committed  bool
	RolledBack bool
}

// Stage queues a write to be applied on Commit.
func (t *MockTransaction) Stage(apply func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged = append(t.staged, apply)
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.RolledBack {
		return fmt.Errorf("commit after rollback")
	}

	for _, apply := range t.staged {
		apply()
	}

	t.staged = nil
	t.Committed = true

	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.Committed {
		t.staged = nil
		t.RolledBack = true
	}

	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)

	return tx, nil
}

// LastTransaction returns the most recently begun transaction.
func (m *MockTransactionManager) LastTransaction() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Transactions) == 0 {
		return nil
	}

	return m.Transactions[len(m.Transactions)-1]
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores an account directly, bypassing any transaction.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

// Balance returns the committed balance of an account.
func (m *MockAccountRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if acc, ok := m.accounts[id]; ok {
		return acc.Balance
	}

	return decimal.Zero
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}

	m.Seed(account)

	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	clone := *acc

	return &clone, nil
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}

	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}

	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if acc, ok := m.accounts[id]; ok {
			acc.Balance = balance
			acc.Version++
			acc.UpdatedAt = updatedAt
		}
	}

	if mt, ok := tx.(*MockTransaction); ok {
		mt.Stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*domain.Account
	for _, acc := range m.accounts {
		clone := *acc
		accounts = append(accounts, &clone)
	}

	return accounts, nil
}

// MockInstrumentRepository is a mock implementation of InstrumentRepository.
type MockInstrumentRepository struct {
	mu          sync.RWMutex
	instruments map[string]*domain.Instrument

	CreateFunc       func(ctx context.Context, instrument *domain.Instrument) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Instrument, error)
	GetByCodeFunc    func(ctx context.Context, code string) (*domain.Instrument, error)
	ExistsByCodeFunc func(ctx context.Context, code string) (bool, error)
	UpdateFunc       func(ctx context.Context, instrument *domain.Instrument) error
	UpdatePriceFunc  func(ctx context.Context, id string, current, previous decimal.Decimal, updatedAt time.Time) error
	DeleteFunc       func(ctx context.Context, id string) error
	ListFunc         func(ctx context.Context, limit, offset int) ([]*domain.Instrument, error)
}

func NewMockInstrumentRepository() *MockInstrumentRepository {
	return &MockInstrumentRepository{
		instruments: make(map[string]*domain.Instrument),
	}
}

func (m *MockInstrumentRepository) Seed(instrument *domain.Instrument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instruments[instrument.ID] = instrument
}

func (m *MockInstrumentRepository) Create(ctx context.Context, instrument *domain.Instrument) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, instrument)
	}

	m.Seed(instrument)

	return nil
}

func (m *MockInstrumentRepository) GetByID(ctx context.Context, id string) (*domain.Instrument, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ins, ok := m.instruments[id]
	if !ok {
		return nil, domain.ErrInstrumentNotFound
	}

	clone := *ins

	return &clone, nil
}

func (m *MockInstrumentRepository) GetByCode(ctx context.Context, code string) (*domain.Instrument, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, ins := range m.instruments {
		if ins.Code == code {
			clone := *ins
			return &clone, nil
		}
	}

	return nil, domain.ErrInstrumentNotFound
}

func (m *MockInstrumentRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.ExistsByCodeFunc != nil {
		return m.ExistsByCodeFunc(ctx, code)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, ins := range m.instruments {
		if ins.Code == code {
			return true, nil
		}
	}

	return false, nil
}

func (m *MockInstrumentRepository) Update(ctx context.Context, instrument *domain.Instrument) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, instrument)
	}

	m.Seed(instrument)

	return nil
}

func (m *MockInstrumentRepository) UpdatePrice(ctx context.Context, id string, current, previous decimal.Decimal, updatedAt time.Time) error {
	if m.UpdatePriceFunc != nil {
		return m.UpdatePriceFunc(ctx, id, current, previous, updatedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ins, ok := m.instruments[id]
	if !ok {
		return domain.ErrInstrumentNotFound
	}

	ins.CurrentPrice = current
	ins.PreviousPrice = previous
	ins.UpdatedAt = updatedAt

	return nil
}

func (m *MockInstrumentRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.instruments[id]; !ok {
		return domain.ErrInstrumentNotFound
	}

	delete(m.instruments, id)

	return nil
}

func (m *MockInstrumentRepository) List(ctx context.Context, limit, offset int) ([]*domain.Instrument, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var instruments []*domain.Instrument
	for _, ins := range m.instruments {
		clone := *ins
		instruments = append(instruments, &clone)
	}

	return instruments, nil
}

func holdingKey(accountID, instrumentID string) string {
	return accountID + "/" + instrumentID
}

// MockHoldingRepository is a mock implementation of HoldingRepository.
type MockHoldingRepository struct {
	mu       sync.RWMutex
	holdings map[string]*domain.Holding

	GetFunc           func(ctx context.Context, accountID, instrumentID string) (*domain.Holding, error)
	GetForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, accountID, instrumentID string) (*domain.Holding, error)
	ListByAccountFunc func(ctx context.Context, accountID string) ([]*domain.Holding, error)
	UpsertFunc        func(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error
	DeleteFunc        func(ctx context.Context, tx usecase.Transaction, accountID, instrumentID string) error
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{
		holdings: make(map[string]*domain.Holding),
	}
}

func (m *MockHoldingRepository) Seed(holding *domain.Holding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[holdingKey(holding.AccountID, holding.InstrumentID)] = holding
}

// Committed returns the committed holding, or nil when absent.
func (m *MockHoldingRepository) Committed(accountID, instrumentID string) *domain.Holding {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.holdings[holdingKey(accountID, instrumentID)]
	if !ok {
		return nil
	}

	clone := *h

	return &clone
}

func (m *MockHoldingRepository) Get(ctx context.Context, accountID, instrumentID string) (*domain.Holding, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID, instrumentID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.holdings[holdingKey(accountID, instrumentID)]
	if !ok {
		return nil, domain.ErrHoldingNotFound
	}

	clone := *h

	return &clone, nil
}

func (m *MockHoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID, instrumentID string) (*domain.Holding, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, accountID, instrumentID)
	}

	return m.Get(ctx, accountID, instrumentID)
}

func (m *MockHoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var holdings []*domain.Holding
	for _, h := range m.holdings {
		if h.AccountID == accountID {
			clone := *h
			holdings = append(holdings, &clone)
		}
	}

	return holdings, nil
}

func (m *MockHoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, holding)
	}

	apply := func() {
		m.Seed(holding)
	}

	if mt, ok := tx.(*MockTransaction); ok {
		mt.Stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockHoldingRepository) Delete(ctx context.Context, tx usecase.Transaction, accountID, instrumentID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, accountID, instrumentID)
	}

	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.holdings, holdingKey(accountID, instrumentID))
	}

	if mt, ok := tx.(*MockTransaction); ok {
		mt.Stage(apply)
	} else {
		apply()
	}

	return nil
}

// MockTradeRepository is a mock implementation of TradeRepository.
type MockTradeRepository struct {
	mu     sync.RWMutex
	trades []*domain.Trade

	AppendFunc                     func(ctx context.Context, tx usecase.Transaction, trade *domain.Trade) error
	GetByIDFunc                    func(ctx context.Context, id string) (*domain.Trade, error)
	ListByAccountFunc              func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Trade, error)
	ListByAccountAndInstrumentFunc func(ctx context.Context, accountID, instrumentID string, limit, offset int) ([]*domain.Trade, error)
	ListAllByAccountFunc           func(ctx context.Context, accountID string) ([]*domain.Trade, error)
}

func NewMockTradeRepository() *MockTradeRepository {
	return &MockTradeRepository{}
}

func (m *MockTradeRepository) Seed(trade *domain.Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, trade)
}

// Count returns the number of committed trades.
func (m *MockTradeRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.trades)
}

func (m *MockTradeRepository) Append(ctx context.Context, tx usecase.Transaction, trade *domain.Trade) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, trade)
	}

	apply := func() {
		m.Seed(trade)
	}

	if mt, ok := tx.(*MockTransaction); ok {
		mt.Stage(apply)
	} else {
		apply()
	}

	return nil
}

func (m *MockTradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.trades {
		if t.ID == id {
			return t, nil
		}
	}

	return nil, domain.ErrTradeNotFound
}

func (m *MockTradeRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Trade, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}

	all, _ := m.ListAllByAccount(ctx, accountID)
	if offset >= len(all) {
		return nil, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], nil
}

func (m *MockTradeRepository) ListByAccountAndInstrument(ctx context.Context, accountID, instrumentID string, limit, offset int) ([]*domain.Trade, error) {
	if m.ListByAccountAndInstrumentFunc != nil {
		return m.ListByAccountAndInstrumentFunc(ctx, accountID, instrumentID, limit, offset)
	}

	all, _ := m.ListAllByAccount(ctx, accountID)

	var filtered []*domain.Trade
	for _, t := range all {
		if t.InstrumentID == instrumentID {
			filtered = append(filtered, t)
		}
	}

	if offset >= len(filtered) {
		return nil, nil
	}

	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[offset:end], nil
}

func (m *MockTradeRepository) ListAllByAccount(ctx context.Context, accountID string) ([]*domain.Trade, error) {
	if m.ListAllByAccountFunc != nil {
		return m.ListAllByAccountFunc(ctx, accountID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Newest first, matching the repository contract.
	var trades []*domain.Trade
	for i := len(m.trades) - 1; i >= 0; i-- {
		if m.trades[i].AccountID == accountID {
			trades = append(trades, m.trades[i])
		}
	}

	return trades, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu      sync.RWMutex
	Entries []*domain.TradeAuditLog

	CreateFunc        func(ctx context.Context, entry *domain.TradeAuditLog) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.TradeAuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *domain.TradeAuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)

	return nil
}

func (m *MockAuditRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TradeAuditLog, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*domain.TradeAuditLog
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].AccountID == accountID {
			entries = append(entries, m.Entries[i])
		}
	}

	return entries, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++

	return fmt.Sprintf("id-%d", m.counter)
}

// MockRetrier runs the operation once, without retries.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}

	return operation()
}

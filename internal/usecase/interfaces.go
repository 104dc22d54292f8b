package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// InstrumentRepository defines data access for the instrument catalog.
type InstrumentRepository interface {
	Create(ctx context.Context, instrument *domain.Instrument) error
	GetByID(ctx context.Context, id string) (*domain.Instrument, error)
	GetByCode(ctx context.Context, code string) (*domain.Instrument, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, instrument *domain.Instrument) error
	UpdatePrice(ctx context.Context, id string, current, previous decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Instrument, error)
}

// HoldingRepository defines data access for holdings. A holding is
// keyed by (account, instrument); implementations return
// domain.ErrHoldingNotFound when it is absent.
type HoldingRepository interface {
	Get(ctx context.Context, accountID, instrumentID string) (*domain.Holding, error)
	GetForUpdate(ctx context.Context, tx Transaction, accountID, instrumentID string) (*domain.Holding, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error)
	Upsert(ctx context.Context, tx Transaction, holding *domain.Holding) error
	Delete(ctx context.Context, tx Transaction, accountID, instrumentID string) error
}

// TradeRepository defines access to the append-only trade log.
type TradeRepository interface {
	Append(ctx context.Context, tx Transaction, trade *domain.Trade) error
	GetByID(ctx context.Context, id string) (*domain.Trade, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Trade, error)
	ListByAccountAndInstrument(ctx context.Context, accountID, instrumentID string, limit, offset int) ([]*domain.Trade, error)
	ListAllByAccount(ctx context.Context, accountID string) ([]*domain.Trade, error)
}

// AuditRepository defines data access for trade audit logs. Create
// runs in its own write scope, never inside the trade's transaction.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.TradeAuditLog) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TradeAuditLog, error)
}

// AuditRecorder is the sidecar the ledger engine notifies about every
// trade attempt. Implementations must never fail the trade.
type AuditRecorder interface {
	Record(ctx context.Context, order domain.Order, status domain.AuditStatus, message string)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

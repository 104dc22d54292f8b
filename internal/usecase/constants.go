package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single ledger transaction
	// so a stuck storage call cannot hold the account lock forever.
	DefaultTransactionTimeout = 10 * time.Second

	// InstrumentCacheTTL is how long cached instrument snapshots live.
	InstrumentCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
)

const holdingColumns = `account_id, instrument_id, quantity, average_cost, created_at, updated_at`

// HoldingRepository implements usecase.HoldingRepository. Holdings are
// keyed by (account_id, instrument_id); a row never exists at quantity
// zero.
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

// Get retrieves one holding.
func (r *HoldingRepository) Get(ctx context.Context, accountID, instrumentID string) (*domain.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE account_id = $1 AND instrument_id = $2`

	return scanHolding(r.pool.QueryRow(ctx, query, accountID, instrumentID))
}

// GetForUpdate retrieves one holding with a FOR UPDATE lock.
func (r *HoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID, instrumentID string) (*domain.Holding, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE account_id = $1 AND instrument_id = $2 FOR UPDATE`

	return scanHolding(pgxTx.QueryRow(ctx, query, accountID, instrumentID))
}

// ListByAccount lists all holdings of an account ordered by instrument.
func (r *HoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE account_id = $1
		ORDER BY instrument_id
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []*domain.Holding

	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}

		holdings = append(holdings, holding)
	}

	return holdings, rows.Err()
}

// Upsert inserts or replaces a holding inside a transaction.
func (r *HoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO holdings (account_id, instrument_id, quantity, average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, instrument_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              average_cost = EXCLUDED.average_cost,
		              updated_at = EXCLUDED.updated_at
	`

	_, err := pgxTx.Exec(ctx, query,
		holding.AccountID,
		holding.InstrumentID,
		holding.Quantity,
		decimalToNumeric(holding.AverageCost),
		timeToPgTimestamptz(holding.CreatedAt),
		timeToPgTimestamptz(holding.UpdatedAt),
	)

	return err
}

// Delete removes a holding inside a transaction.
func (r *HoldingRepository) Delete(ctx context.Context, tx usecase.Transaction, accountID, instrumentID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`DELETE FROM holdings WHERE account_id = $1 AND instrument_id = $2`,
		accountID, instrumentID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrHoldingNotFound
	}

	return nil
}

func scanHolding(row pgx.Row) (*domain.Holding, error) {
	var (
		holding     domain.Holding
		averageCost pgtype.Numeric
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&holding.AccountID,
		&holding.InstrumentID,
		&holding.Quantity,
		&averageCost,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldingNotFound
		}

		return nil, err
	}

	holding.AverageCost = numericToDecimal(averageCost)
	holding.CreatedAt = createdAt.Time
	holding.UpdatedAt = updatedAt.Time

	return &holding, nil
}

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

const tradeColumns = `id, account_id, instrument_id, side, quantity, price, total_amount, executed_at`

// TradeRepository implements usecase.TradeRepository. The trades table
// is append-only; nothing here updates or deletes.
type TradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository.
func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

// Append writes one trade inside the executing transaction.
func (r *TradeRepository) Append(ctx context.Context, tx usecase.Transaction, trade *domain.Trade) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO trades (id, account_id, instrument_id, side, quantity, price, total_amount, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		trade.ID,
		trade.AccountID,
		trade.InstrumentID,
		string(trade.Side),
		trade.Quantity,
		decimalToNumeric(trade.Price),
		decimalToNumeric(trade.TotalAmount),
		timeToPgTimestamptz(trade.ExecutedAt),
	)

	return err
}

// GetByID retrieves a trade by ID.
func (r *TradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

	return scanTrade(r.pool.QueryRow(ctx, query, id))
}

// ListByAccount lists trades for an account, newest first.
func (r *TradeRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1
		ORDER BY executed_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryTrades(ctx, query, accountID, limit, offset)
}

// ListByAccountAndInstrument lists trades for one instrument, newest
// first.
func (r *TradeRepository) ListByAccountAndInstrument(ctx context.Context, accountID, instrumentID string, limit, offset int) ([]*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1 AND instrument_id = $2
		ORDER BY executed_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	return r.queryTrades(ctx, query, accountID, instrumentID, limit, offset)
}

// ListAllByAccount returns the whole trade log of an account, newest
// first. Analytics aggregations run over this.
func (r *TradeRepository) ListAllByAccount(ctx context.Context, accountID string) ([]*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1
		ORDER BY executed_at DESC, id DESC
	`

	return r.queryTrades(ctx, query, accountID)
}

func (r *TradeRepository) queryTrades(ctx context.Context, query string, args ...any) ([]*domain.Trade, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*domain.Trade

	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}

		trades = append(trades, trade)
	}

	return trades, rows.Err()
}

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var (
		trade       domain.Trade
		side        string
		price       pgtype.Numeric
		totalAmount pgtype.Numeric
		executedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&trade.ID,
		&trade.AccountID,
		&trade.InstrumentID,
		&side,
		&trade.Quantity,
		&price,
		&totalAmount,
		&executedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}

		return nil, err
	}

	trade.Side = domain.Side(side)
	trade.Price = numericToDecimal(price)
	trade.TotalAmount = numericToDecimal(totalAmount)
	trade.ExecutedAt = executedAt.Time

	return &trade, nil
}

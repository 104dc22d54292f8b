package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/tradeledger/internal/domain"
)

const auditColumns = `id, account_id, instrument_id, side, quantity, status, message, total_assets, total_return_rate, created_at`

// AuditRepository implements usecase.AuditRepository. Writes go
// straight to the pool so they commit independently of the trade's
// transaction; a rolled-back trade keeps its audit entry.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts one audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *domain.TradeAuditLog) error {
	query := `
		INSERT INTO trade_audit_logs (
			id, account_id, instrument_id, side, quantity,
			status, message, total_assets, total_return_rate, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.InstrumentID,
		string(entry.Side),
		entry.Quantity,
		string(entry.Status),
		entry.Message,
		decimalToNumeric(entry.TotalAssets),
		decimalToNumeric(entry.TotalReturnRate),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByAccount returns audit entries for an account, newest first.
func (r *AuditRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TradeAuditLog, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM trade_audit_logs
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TradeAuditLog

	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanAuditLog(row pgx.Row) (*domain.TradeAuditLog, error) {
	var (
		entry           domain.TradeAuditLog
		side            string
		status          string
		totalAssets     pgtype.Numeric
		totalReturnRate pgtype.Numeric
		createdAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.InstrumentID,
		&side,
		&entry.Quantity,
		&status,
		&entry.Message,
		&totalAssets,
		&totalReturnRate,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Side = domain.Side(side)
	entry.Status = domain.AuditStatus(status)
	entry.TotalAssets = numericToDecimal(totalAssets)
	entry.TotalReturnRate = numericToDecimal(totalReturnRate)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

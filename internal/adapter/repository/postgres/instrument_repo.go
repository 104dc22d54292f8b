package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
)

const pgErrUniqueViolation = "23505"

const instrumentColumns = `id, code, name, current_price, previous_price, created_at, updated_at`

// InstrumentRepository implements usecase.InstrumentRepository.
type InstrumentRepository struct {
	pool *pgxpool.Pool
}

// NewInstrumentRepository creates a new InstrumentRepository.
func NewInstrumentRepository(pool *pgxpool.Pool) *InstrumentRepository {
	return &InstrumentRepository{pool: pool}
}

// Create adds an instrument to the catalog. A concurrent insert of the
// same code surfaces as domain.ErrDuplicateInstrumentCode.
func (r *InstrumentRepository) Create(ctx context.Context, instrument *domain.Instrument) error {
	query := `
		INSERT INTO instruments (id, code, name, current_price, previous_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		instrument.ID,
		instrument.Code,
		instrument.Name,
		decimalToNumeric(instrument.CurrentPrice),
		decimalToNumeric(instrument.PreviousPrice),
		timeToPgTimestamptz(instrument.CreatedAt),
		timeToPgTimestamptz(instrument.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateInstrumentCode
		}

		return err
	}

	return nil
}

// GetByID retrieves an instrument by ID.
func (r *InstrumentRepository) GetByID(ctx context.Context, id string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE id = $1`

	return scanInstrument(r.pool.QueryRow(ctx, query, id))
}

// GetByCode retrieves an instrument by its catalog code.
func (r *InstrumentRepository) GetByCode(ctx context.Context, code string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE code = $1`

	return scanInstrument(r.pool.QueryRow(ctx, query, code))
}

// ExistsByCode reports whether an instrument with the code exists.
func (r *InstrumentRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM instruments WHERE code = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// Update replaces the catalog fields of an instrument.
func (r *InstrumentRepository) Update(ctx context.Context, instrument *domain.Instrument) error {
	query := `
		UPDATE instruments
		SET code = $2, name = $3, current_price = $4, previous_price = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		instrument.ID,
		instrument.Code,
		instrument.Name,
		decimalToNumeric(instrument.CurrentPrice),
		decimalToNumeric(instrument.PreviousPrice),
		timeToPgTimestamptz(instrument.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateInstrumentCode
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrInstrumentNotFound
	}

	return nil
}

// UpdatePrice sets a new market price and rolls the old one into
// previous_price.
func (r *InstrumentRepository) UpdatePrice(ctx context.Context, id string, current, previous decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE instruments
		SET current_price = $2, previous_price = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		id,
		decimalToNumeric(current),
		decimalToNumeric(previous),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrInstrumentNotFound
	}

	return nil
}

// Delete removes an instrument from the catalog.
func (r *InstrumentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM instruments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrInstrumentNotFound
	}

	return nil
}

// List lists instruments ordered by code.
func (r *InstrumentRepository) List(ctx context.Context, limit, offset int) ([]*domain.Instrument, error) {
	query := `
		SELECT ` + instrumentColumns + `
		FROM instruments
		ORDER BY code
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []*domain.Instrument

	for rows.Next() {
		instrument, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}

		instruments = append(instruments, instrument)
	}

	return instruments, rows.Err()
}

func scanInstrument(row pgx.Row) (*domain.Instrument, error) {
	var (
		instrument    domain.Instrument
		currentPrice  pgtype.Numeric
		previousPrice pgtype.Numeric
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&instrument.ID,
		&instrument.Code,
		&instrument.Name,
		&currentPrice,
		&previousPrice,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstrumentNotFound
		}

		return nil, err
	}

	instrument.CurrentPrice = numericToDecimal(currentPrice)
	instrument.PreviousPrice = numericToDecimal(previousPrice)
	instrument.CreatedAt = createdAt.Time
	instrument.UpdatedAt = updatedAt.Time

	return &instrument, nil
}

package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/infrastructure/metrics"
)

// InstrumentUseCase handles the instrument catalog. Instrument reads
// go through a short-lived cache because the ledger engine looks the
// price up on every trade.
type InstrumentUseCase struct {
	instrumentRepo InstrumentRepository
	idGen          IDGenerator
	cache          Cache
	metrics        *metrics.Metrics
}

// NewInstrumentUseCase creates a new InstrumentUseCase. cache and m
// are optional.
func NewInstrumentUseCase(instrumentRepo InstrumentRepository, idGen IDGenerator, cache Cache, m *metrics.Metrics) *InstrumentUseCase {
	return &InstrumentUseCase{
		instrumentRepo: instrumentRepo,
		idGen:          idGen,
		cache:          cache,
		metrics:        m,
	}
}

// CreateInstrumentInput represents input for creating an instrument.
type CreateInstrumentInput struct {
	Code          string
	Name          string
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
}

// CreateInstrument adds an instrument to the catalog. The code must
// be unique.
func (uc *InstrumentUseCase) CreateInstrument(ctx context.Context, input CreateInstrumentInput) (*domain.Instrument, error) {
	now := time.Now().UTC()

	instrument := &domain.Instrument{
		ID:            uc.idGen.Generate(),
		Code:          strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:          input.Name,
		CurrentPrice:  input.CurrentPrice,
		PreviousPrice: input.PreviousPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := instrument.Validate(); err != nil {
		return nil, err
	}

	exists, err := uc.instrumentRepo.ExistsByCode(ctx, instrument.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateInstrumentCode
	}

	if err := uc.instrumentRepo.Create(ctx, instrument); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.InstrumentsCreated.Inc()
	}

	return instrument, nil
}

// GetInstrument retrieves an instrument by ID, via cache when one is
// configured.
func (uc *InstrumentUseCase) GetInstrument(ctx context.Context, id string) (*domain.Instrument, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey(id)); err == nil {
			var instrument domain.Instrument
			if err := json.Unmarshal(data, &instrument); err == nil {
				return &instrument, nil
			}
		}
	}

	instrument, err := uc.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cachePut(ctx, instrument)

	return instrument, nil
}

// GetInstrumentByCode retrieves an instrument by its code.
func (uc *InstrumentUseCase) GetInstrumentByCode(ctx context.Context, code string) (*domain.Instrument, error) {
	return uc.instrumentRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// UpdateInstrumentInput represents input for updating an instrument.
type UpdateInstrumentInput struct {
	ID            string
	Code          string
	Name          string
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
}

// UpdateInstrument replaces catalog fields. Changing the code
// re-checks uniqueness.
func (uc *InstrumentUseCase) UpdateInstrument(ctx context.Context, input UpdateInstrumentInput) (*domain.Instrument, error) {
	instrument, err := uc.instrumentRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	newCode := strings.ToUpper(strings.TrimSpace(input.Code))

	if newCode != instrument.Code {
		exists, err := uc.instrumentRepo.ExistsByCode(ctx, newCode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateInstrumentCode
		}
	}

	instrument.Code = newCode
	instrument.Name = input.Name
	instrument.CurrentPrice = input.CurrentPrice
	instrument.PreviousPrice = input.PreviousPrice
	instrument.UpdatedAt = time.Now().UTC()

	if err := instrument.Validate(); err != nil {
		return nil, err
	}

	if err := uc.instrumentRepo.Update(ctx, instrument); err != nil {
		return nil, err
	}

	uc.cacheDrop(ctx, instrument.ID)

	return instrument, nil
}

// UpdatePrice moves the current price to previous and sets a new
// current price.
func (uc *InstrumentUseCase) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Instrument, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidPrice
	}

	instrument, err := uc.instrumentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	previous := instrument.CurrentPrice

	if err := uc.instrumentRepo.UpdatePrice(ctx, id, price, previous, now); err != nil {
		return nil, err
	}

	uc.cacheDrop(ctx, id)

	if uc.metrics != nil {
		uc.metrics.PriceUpdates.Inc()
	}

	instrument.PreviousPrice = previous
	instrument.CurrentPrice = price
	instrument.UpdatedAt = now

	return instrument, nil
}

// DeleteInstrument removes an instrument from the catalog.
func (uc *InstrumentUseCase) DeleteInstrument(ctx context.Context, id string) error {
	if err := uc.instrumentRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.cacheDrop(ctx, id)

	return nil
}

// ListInstrumentsInput represents input for listing instruments.
type ListInstrumentsInput struct {
	Limit  int
	Offset int
}

// ListInstruments lists instruments with pagination.
func (uc *InstrumentUseCase) ListInstruments(ctx context.Context, input ListInstrumentsInput) ([]*domain.Instrument, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.instrumentRepo.List(ctx, input.Limit, input.Offset)
}

func (uc *InstrumentUseCase) cachePut(ctx context.Context, instrument *domain.Instrument) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(instrument)
	if err != nil {
		return
	}

	_ = uc.cache.Set(ctx, cacheKey(instrument.ID), data, InstrumentCacheTTL)
}

func (uc *InstrumentUseCase) cacheDrop(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, cacheKey(id))
}

func cacheKey(id string) string {
	return "instrument:" + id
}

package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/tradeledger/internal/domain"
	"github.com/iho/tradeledger/internal/usecase"
	"github.com/iho/tradeledger/internal/usecase/mocks"
)

func TestInstrumentUseCase_CreateInstrument(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateInstrumentInput
		setup       func(*mocks.MockInstrumentRepository)
		expectError bool
		errorType   error
		wantCode    string
	}{
		{
			name:     "new instrument",
			input:    usecase.CreateInstrumentInput{Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200)},
			setup:    func(repo *mocks.MockInstrumentRepository) {},
			wantCode: "AAPL",
		},
		{
			name:     "code is normalized",
			input:    usecase.CreateInstrumentInput{Code: "  msft ", Name: "Microsoft", CurrentPrice: decimal.NewFromInt(50)},
			setup:    func(repo *mocks.MockInstrumentRepository) {},
			wantCode: "MSFT",
		},
		{
			name:  "duplicate code",
			input: usecase.CreateInstrumentInput{Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200)},
			setup: func(repo *mocks.MockInstrumentRepository) {
				repo.Seed(&domain.Instrument{ID: "ins-0", Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(150)})
			},
			expectError: true,
			errorType:   domain.ErrDuplicateInstrumentCode,
		},
		{
			name:        "empty code",
			input:       usecase.CreateInstrumentInput{Code: "   ", Name: "Nameless", CurrentPrice: decimal.NewFromInt(10)},
			setup:       func(repo *mocks.MockInstrumentRepository) {},
			expectError: true,
			errorType:   domain.ErrInvalidInstrumentCode,
		},
		{
			name:        "non-positive price",
			input:       usecase.CreateInstrumentInput{Code: "AAPL", Name: "Apple", CurrentPrice: decimal.Zero},
			setup:       func(repo *mocks.MockInstrumentRepository) {},
			expectError: true,
			errorType:   domain.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockInstrumentRepository()
			tt.setup(repo)

			uc := usecase.NewInstrumentUseCase(repo, mocks.NewMockIDGenerator(), nil, nil)

			instrument, err := uc.CreateInstrument(context.Background(), tt.input)

			if tt.expectError {
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if instrument.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, instrument.Code)
			}
		})
	}
}

func TestInstrumentUseCase_GetInstrument_CacheFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	seeded := &domain.Instrument{ID: "ins-1", Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200)}

	t.Run("miss populates the cache", func(t *testing.T) {
		repo := mocks.NewMockInstrumentRepository()
		repo.Seed(seeded)

		cache := mocks.NewMockCache(ctrl)
		cache.EXPECT().Get(gomock.Any(), "instrument:ins-1").Return(nil, errors.New("miss"))
		cache.EXPECT().Set(gomock.Any(), "instrument:ins-1", gomock.Any(), usecase.InstrumentCacheTTL).Return(nil)

		uc := usecase.NewInstrumentUseCase(repo, mocks.NewMockIDGenerator(), cache, nil)

		instrument, err := uc.GetInstrument(context.Background(), "ins-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if instrument.Code != "AAPL" {
			t.Errorf("expected AAPL, got %s", instrument.Code)
		}
	})

	t.Run("hit skips the repository", func(t *testing.T) {
		repo := mocks.NewMockInstrumentRepository()
		repo.GetByIDFunc = func(ctx context.Context, id string) (*domain.Instrument, error) {
			t.Error("repository must not be hit on a cache hit")
			return nil, domain.ErrInstrumentNotFound
		}

		data, err := json.Marshal(seeded)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		cache := mocks.NewMockCache(ctrl)
		cache.EXPECT().Get(gomock.Any(), "instrument:ins-1").Return(data, nil)

		uc := usecase.NewInstrumentUseCase(repo, mocks.NewMockIDGenerator(), cache, nil)

		instrument, err := uc.GetInstrument(context.Background(), "ins-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !instrument.CurrentPrice.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected price 200, got %s", instrument.CurrentPrice)
		}
	})
}

func TestInstrumentUseCase_UpdateInstrument(t *testing.T) {
	newRepo := func() *mocks.MockInstrumentRepository {
		repo := mocks.NewMockInstrumentRepository()
		repo.Seed(&domain.Instrument{ID: "ins-1", Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200)})
		repo.Seed(&domain.Instrument{ID: "ins-2", Code: "MSFT", Name: "Microsoft", CurrentPrice: decimal.NewFromInt(50)})
		return repo
	}

	t.Run("rename keeps the code unique", func(t *testing.T) {
		uc := usecase.NewInstrumentUseCase(newRepo(), mocks.NewMockIDGenerator(), nil, nil)

		_, err := uc.UpdateInstrument(context.Background(), usecase.UpdateInstrumentInput{
			ID:           "ins-1",
			Code:         "MSFT",
			Name:         "Apple",
			CurrentPrice: decimal.NewFromInt(200),
		})
		if !errors.Is(err, domain.ErrDuplicateInstrumentCode) {
			t.Errorf("expected ErrDuplicateInstrumentCode, got %v", err)
		}
	})

	t.Run("update in place", func(t *testing.T) {
		uc := usecase.NewInstrumentUseCase(newRepo(), mocks.NewMockIDGenerator(), nil, nil)

		instrument, err := uc.UpdateInstrument(context.Background(), usecase.UpdateInstrumentInput{
			ID:           "ins-1",
			Code:         "AAPL",
			Name:         "Apple Inc.",
			CurrentPrice: decimal.NewFromInt(210),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if instrument.Name != "Apple Inc." {
			t.Errorf("expected renamed instrument, got %s", instrument.Name)
		}
	})
}

func TestInstrumentUseCase_UpdatePrice(t *testing.T) {
	repo := mocks.NewMockInstrumentRepository()
	repo.Seed(&domain.Instrument{ID: "ins-1", Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200)})

	uc := usecase.NewInstrumentUseCase(repo, mocks.NewMockIDGenerator(), nil, nil)

	t.Run("rolls current into previous", func(t *testing.T) {
		instrument, err := uc.UpdatePrice(context.Background(), "ins-1", decimal.NewFromInt(220))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !instrument.CurrentPrice.Equal(decimal.NewFromInt(220)) {
			t.Errorf("expected current 220, got %s", instrument.CurrentPrice)
		}
		if !instrument.PreviousPrice.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected previous 200, got %s", instrument.PreviousPrice)
		}
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		if _, err := uc.UpdatePrice(context.Background(), "ins-1", decimal.Zero); !errors.Is(err, domain.ErrInvalidPrice) {
			t.Errorf("expected ErrInvalidPrice, got %v", err)
		}
	})

	t.Run("unknown instrument", func(t *testing.T) {
		if _, err := uc.UpdatePrice(context.Background(), "missing", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrInstrumentNotFound) {
			t.Errorf("expected ErrInstrumentNotFound, got %v", err)
		}
	})
}

func TestInstrumentUseCase_DeleteInstrument(t *testing.T) {
	repo := mocks.NewMockInstrumentRepository()
	repo.Seed(&domain.Instrument{ID: "ins-1", Code: "AAPL", Name: "Apple", CurrentPrice: decimal.NewFromInt(200)})

	uc := usecase.NewInstrumentUseCase(repo, mocks.NewMockIDGenerator(), nil, nil)

	if err := uc.DeleteInstrument(context.Background(), "ins-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.GetByID(context.Background(), "ins-1"); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Errorf("expected instrument gone, got %v", err)
	}

	if err := uc.DeleteInstrument(context.Background(), "ins-1"); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Errorf("expected ErrInstrumentNotFound on second delete, got %v", err)
	}
}

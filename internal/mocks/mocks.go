// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockExchangeRateRepository mocks the ExchangeRateRepository interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FetchCurrencyCatalog(ctx context.Context) (entity.CurrencyCatalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return entity.CurrencyCatalog{}, args.Error(1)
	}
	return args.Get(0).(entity.CurrencyCatalog), args.Error(1)
}

func (m *MockExchangeRateRepository) FetchRateSeries(ctx context.Context, query entity.RateQuery) (*entity.RateSeries, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSeries), args.Error(1)
}

// MockInflationRepository mocks the InflationRepository interface
type MockInflationRepository struct {
	mock.Mock
}

func (m *MockInflationRepository) SupportedCountries() []entity.Country {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]entity.Country)
}

func (m *MockInflationRepository) FetchCountryInflation(ctx context.Context, country string) (entity.InflationSeries, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return entity.InflationSeries{Country: country}, args.Error(1)
	}
	return args.Get(0).(entity.InflationSeries), args.Error(1)
}

func (m *MockInflationRepository) FetchGlobalInflationSnapshot(ctx context.Context) (entity.GlobalInflationSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return entity.GlobalInflationSnapshot{}, args.Error(1)
	}
	return args.Get(0).(entity.GlobalInflationSnapshot), args.Error(1)
}

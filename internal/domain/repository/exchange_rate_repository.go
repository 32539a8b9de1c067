// Package repository internal/domain/repository/exchange_rate_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
)

// ExchangeRateRepository defines access to currency data
type ExchangeRateRepository interface {
	// FetchCurrencyCatalog returns every known currency code with its display name
	FetchCurrencyCatalog(ctx context.Context) (entity.CurrencyCatalog, error)

	// FetchRateSeries returns the rate history of a currency pair, ascending by date
	FetchRateSeries(ctx context.Context, query entity.RateQuery) (*entity.RateSeries, error)
}

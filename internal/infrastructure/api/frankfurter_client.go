package api

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/civil"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
)

const (
	frankfurterBaseURL = "https://api.frankfurter.app"
	currenciesPath     = "/currencies"

	defaultRateWindowDays     = 180
	defaultSameCurrencyPoints = 10
)

// FrankfurterClient reads currencies and exchange-rate history from the Frankfurter API
type FrankfurterClient struct {
	baseURL            string
	fetcher            fetcher
	logger             logger.Logger
	now                func() civil.Date
	rateWindowDays     int
	sameCurrencyPoints int
}

// NewFrankfurterClient creates a new Frankfurter API client
func NewFrankfurterClient(opts ...Option) *FrankfurterClient {
	cfg := newClientConfig(frankfurterBaseURL, opts)

	return &FrankfurterClient{
		baseURL: cfg.baseURL,
		fetcher: cfg.fetcher(),
		logger:  cfg.logger,
		now: func() civil.Date {
			return civil.DateOf(cfg.now().UTC())
		},
		rateWindowDays:     cfg.rateWindowDays,
		sameCurrencyPoints: cfg.sameCurrencyPoints,
	}
}

// rangeResponse is the body of GET /{start}..{end}
type rangeResponse struct {
	Base      string                        `json:"base"`
	StartDate string                        `json:"start_date"`
	EndDate   string                        `json:"end_date"`
	Rates     map[string]map[string]float64 `json:"rates"`
}

// FetchCurrencyCatalog retrieves every supported currency code and its display name
func (c *FrankfurterClient) FetchCurrencyCatalog(ctx context.Context) (entity.CurrencyCatalog, error) {
	reqURL := c.baseURL + currenciesPath

	catalog, err := fetchAndNormalize(ctx, &c.fetcher, sourceFrankfurter, "currencies", reqURL,
		nil,
		func(names map[string]string) (entity.CurrencyCatalog, error) {
			return entity.NewCurrencyCatalog(names), nil
		})
	if err != nil {
		c.logger.Error("Failed to fetch currency catalog", map[string]interface{}{
			"url":   reqURL,
			"error": err.Error(),
		})
		return entity.CurrencyCatalog{}, err
	}

	c.logger.Info("Fetched currency catalog", map[string]interface{}{
		"currencies": catalog.Len(),
	})

	return catalog, nil
}

// FetchRateSeries retrieves the daily rates of base→target. A zero start
// defaults to the configured look-back window and a zero end to today. When
// base equals target a flat series of 1.0 is returned without a network call.
func (c *FrankfurterClient) FetchRateSeries(ctx context.Context, query entity.RateQuery) (*entity.RateSeries, error) {
	q := query.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	today := c.now()
	if q.Base == q.Target {
		return c.flatSeries(q, today)
	}

	start, end := q.Start, q.End
	if isZero(end) {
		end = today
	}
	if isZero(start) {
		start = today.AddDays(-c.rateWindowDays)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", entity.ErrInvalidQuery, start, end)
	}

	params := url.Values{}
	params.Set("from", q.Base)
	params.Set("to", q.Target)
	reqURL := fmt.Sprintf("%s/%s..%s?%s", c.baseURL, start, end, params.Encode())

	series, err := fetchAndNormalize(ctx, &c.fetcher, sourceFrankfurter, "rate_series", reqURL,
		func(resp rangeResponse) error {
			if len(resp.Rates) == 0 {
				return &entity.RemoteFetchError{
					Source: sourceFrankfurter,
					URL:    reqURL,
					Reason: fmt.Sprintf("no rate data available for %s->%s", q.Base, q.Target),
				}
			}
			return nil
		},
		func(resp rangeResponse) (*entity.RateSeries, error) {
			return normalizeRates(q, reqURL, resp)
		})
	if err != nil {
		c.logger.Error("Failed to fetch rate series", map[string]interface{}{
			"base":   q.Base,
			"target": q.Target,
			"start":  start.String(),
			"end":    end.String(),
			"error":  err.Error(),
		})
		return nil, err
	}

	c.logger.Info("Fetched rate series", map[string]interface{}{
		"base":   q.Base,
		"target": q.Target,
		"points": series.Len(),
	})

	return series, nil
}

// normalizeRates reshapes the date→{currency→rate} map into a sorted series.
// Dates that do not parse or lack a positive target rate are skipped.
func normalizeRates(q entity.RateQuery, reqURL string, resp rangeResponse) (*entity.RateSeries, error) {
	points := make([]entity.RatePoint, 0, len(resp.Rates))
	for day, byCurrency := range resp.Rates {
		date, err := civil.ParseDate(day)
		if err != nil {
			continue
		}
		rate, ok := byCurrency[q.Target]
		if !ok || rate <= 0 {
			continue
		}
		points = append(points, entity.RatePoint{Date: date, Rate: rate})
	}

	if len(points) == 0 {
		return nil, &entity.RemoteFetchError{
			Source: sourceFrankfurter,
			URL:    reqURL,
			Reason: fmt.Sprintf("response has no %s rates", q.Target),
		}
	}

	return entity.NewRateSeries(q.Base, q.Target, points)
}

// flatSeries synthesizes a constant 1.0 series ending today
func (c *FrankfurterClient) flatSeries(q entity.RateQuery, today civil.Date) (*entity.RateSeries, error) {
	points := make([]entity.RatePoint, c.sameCurrencyPoints)
	first := today.AddDays(-(c.sameCurrencyPoints - 1))
	for i := range points {
		points[i] = entity.RatePoint{Date: first.AddDays(i), Rate: 1.0}
	}

	c.logger.Debug("Synthesized same-currency series", map[string]interface{}{
		"currency": q.Base,
		"points":   len(points),
	})

	return entity.NewRateSeries(q.Base, q.Target, points)
}

func isZero(d civil.Date) bool {
	return d == civil.Date{}
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/httpx"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/metrics"
)

const (
	sourceFrankfurter = "frankfurter"
	sourceWorldBank   = "worldbank"

	// World Bank "all countries" pages are a few hundred KB
	maxBodyBytes = 16 << 20
	snippetBytes = 256
)

// fetcher is the shared GET + decode step of every upstream call
type fetcher struct {
	http    *httpx.Client
	logger  logger.Logger
	metrics *metrics.Recorder
}

// getJSON issues a GET for reqURL and decodes the body into out. Transport
// failures, non-2xx statuses and undecodable bodies all come back as
// *entity.RemoteFetchError.
func (f *fetcher) getJSON(ctx context.Context, source, operation, reqURL string, out interface{}) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		f.metrics.ObserveUpstream(source, operation, outcome, time.Since(start))
	}()

	f.logger.Debug("Upstream request", map[string]interface{}{
		"source":    source,
		"operation": operation,
		"url":       reqURL,
	})

	resp, err := f.http.Get(ctx, reqURL)
	if err != nil {
		outcome = "error"
		return &entity.RemoteFetchError{Source: source, URL: reqURL, Reason: "request failed", Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			f.logger.Warn("Error closing response body", map[string]interface{}{
				"source": source,
				"error":  closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		outcome = "error"
		return &entity.RemoteFetchError{Source: source, URL: reqURL, StatusCode: resp.StatusCode, Reason: "read response body", Err: err}
	}

	f.logger.Debug("Upstream response", map[string]interface{}{
		"source":      source,
		"operation":   operation,
		"status":      resp.StatusCode,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		outcome = "bad_status"
		return &entity.RemoteFetchError{
			Source:     source,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Reason:     "unexpected status",
			Err:        errors.New(snippet(body)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		outcome = "decode_error"
		return &entity.RemoteFetchError{Source: source, URL: reqURL, StatusCode: resp.StatusCode, Reason: "decode response", Err: err}
	}

	return nil
}

// fetchAndNormalize runs the pipeline every fetch operation shares: GET and
// decode into P, check the payload shape, then map it into the canonical T.
func fetchAndNormalize[P any, T any](
	ctx context.Context,
	f *fetcher,
	source, operation, reqURL string,
	validate func(P) error,
	normalize func(P) (T, error),
) (T, error) {
	var zero T

	var payload P
	if err := f.getJSON(ctx, source, operation, reqURL, &payload); err != nil {
		return zero, err
	}

	if validate != nil {
		if err := validate(payload); err != nil {
			return zero, err
		}
	}

	return normalize(payload)
}

// soften turns an upstream status or payload error into an empty result.
// Transport failures stay hard.
func soften(err error) error {
	var rfe *entity.RemoteFetchError
	if errors.As(err, &rfe) && rfe.StatusCode != 0 {
		return fmt.Errorf("%w: %s", entity.ErrNoData, rfe.Error())
	}
	return err
}

func snippet(body []byte) string {
	if len(body) > snippetBytes {
		return string(body[:snippetBytes]) + "..."
	}
	return string(body)
}

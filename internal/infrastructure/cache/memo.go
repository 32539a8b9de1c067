package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

const keySeparator = "|"

// Memo memoizes successful fetch results in a Store. Concurrent misses for
// the same key share one fetch.
type Memo struct {
	group   singleflight.Group
	store   Store
	ttl     time.Duration
	logger  logger.Logger
	metrics *metrics.Recorder
}

// NewMemo creates a memo over store with a default ttl
func NewMemo(store Store, ttl time.Duration, log logger.Logger, rec *metrics.Recorder) *Memo {
	if log == nil {
		log = logger.Nop()
	}
	return &Memo{
		store:   store,
		ttl:     ttl,
		logger:  log,
		metrics: rec,
	}
}

// TTL returns the default time to live
func (m *Memo) TTL() time.Duration {
	return m.ttl
}

// Clear empties the underlying store
func (m *Memo) Clear(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// Key joins an operation name and its parameters into a cache key
func Key(operation string, params ...string) string {
	parts := append([]string{operation}, params...)
	return strings.Join(parts, keySeparator)
}

// GetOrFetch returns the value cached under key or calls fetch and caches
// its result. Errors are never cached. A ttl of zero uses the memo's default.
// A nil memo always calls fetch.
func GetOrFetch[T any](ctx context.Context, m *Memo, operation, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if m == nil {
		return fetch(ctx)
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn("Cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			m.metrics.CacheHit(operation)
			m.logger.Debug("Cache hit", map[string]interface{}{
				"key": key,
			})
			return cached, nil
		}
		m.logger.Warn("Discarding undecodable cache entry", map[string]interface{}{
			"key": key,
		})
	}

	m.metrics.CacheMiss(operation)

	// The shared fetch ignores caller cancellation; a cancelled caller stops
	// waiting but the fetch runs to completion for everyone else.
	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (interface{}, error) {
		value, err := fetch(detached)
		if err != nil {
			return value, err
		}
		m.put(detached, key, value, ttl)
		return value, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			m.logger.Debug("Shared in-flight fetch", map[string]interface{}{
				"key": key,
			})
		}
		value, _ := res.Val.(T)
		return value, res.Err
	}
}

func (m *Memo) put(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	encoded, err := json.Marshal(value)
	if err != nil {
		m.logger.Warn("Could not encode value for cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	if err := m.store.Set(ctx, key, encoded, ttl); err != nil {
		m.logger.Warn("Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

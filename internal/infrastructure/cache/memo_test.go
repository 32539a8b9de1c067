package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "currencies", Key("currencies"))
	assert.Equal(t, "rate_series|USD|EUR", Key("rate_series", "USD", "EUR"))
}

func TestGetOrFetch(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"badger": func(t *testing.T) Store { return newTestBadgerStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			rec := metrics.New(prometheus.NewRegistry())
			memo := NewMemo(newStore(t), time.Hour, logger.Nop(), rec)
			ctx := context.Background()

			calls := 0
			fetch := func(context.Context) (payload, error) {
				calls++
				return payload{Name: "EUR", Value: 0.92}, nil
			}

			first, err := GetOrFetch(ctx, memo, "test", "k", 0, fetch)
			require.NoError(t, err)
			second, err := GetOrFetch(ctx, memo, "test", "k", 0, fetch)
			require.NoError(t, err)

			assert.Equal(t, 1, calls)
			assert.Equal(t, first, second)
			assert.Equal(t, 0.92, second.Value)
		})
	}
}

func TestGetOrFetchDoesNotCacheErrors(t *testing.T) {
	memo := NewMemo(NewMemoryStore(), time.Hour, logger.Nop(), nil)
	ctx := context.Background()

	calls := 0
	boom := errors.New("boom")
	fetch := func(context.Context) (payload, error) {
		calls++
		if calls == 1 {
			return payload{}, boom
		}
		return payload{Name: "ok"}, nil
	}

	_, err := GetOrFetch(ctx, memo, "test", "k", 0, fetch)
	assert.ErrorIs(t, err, boom)

	got, err := GetOrFetch(ctx, memo, "test", "k", 0, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Name)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetchExpiry(t *testing.T) {
	memo := NewMemo(NewMemoryStore(), time.Hour, logger.Nop(), nil)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, err := GetOrFetch(ctx, memo, "test", "k", 10*time.Millisecond, fetch)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	got, err := GetOrFetch(ctx, memo, "test", "k", 10*time.Millisecond, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestGetOrFetchNilMemo(t *testing.T) {
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrFetch(context.Background(), nil, "test", "k", 0, fetch)
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	}
	assert.Equal(t, 3, calls)
}

func TestGetOrFetchRecordsLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	memo := NewMemo(NewMemoryStore(), time.Hour, logger.Nop(), metrics.New(reg))
	ctx := context.Background()

	fetch := func(context.Context) (string, error) { return "v", nil }
	for i := 0; i < 3; i++ {
		_, err := GetOrFetch(ctx, memo, "currencies", "k", 0, fetch)
		require.NoError(t, err)
	}

	expected := `
# HELP fxmon_cache_lookups_total Memo cache lookups by operation and result.
# TYPE fxmon_cache_lookups_total counter
fxmon_cache_lookups_total{operation="currencies",result="hit"} 2
fxmon_cache_lookups_total{operation="currencies",result="miss"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fxmon_cache_lookups_total"))
}

func TestGetOrFetchSharesConcurrentMisses(t *testing.T) {
	memo := NewMemo(NewMemoryStore(), time.Hour, logger.Nop(), nil)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrFetch(ctx, memo, "test", "k", 0, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestGetOrFetchCancelledCallerDoesNotFailOthers(t *testing.T) {
	memo := NewMemo(NewMemoryStore(), time.Hour, logger.Nop(), nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var fetchErr error
	fetch := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		<-release
		fetchErr = ctx.Err()
		return "snapshot", nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := GetOrFetch(first, memo, "global_inflation", "global", 0, fetch)
		firstDone <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-firstDone, context.Canceled)

	secondDone := make(chan error, 1)
	var second string
	go func() {
		var err error
		second, err = GetOrFetch(context.Background(), memo, "global_inflation", "global", 0, fetch)
		secondDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, <-secondDone)
	assert.Equal(t, "snapshot", second)
	assert.NoError(t, fetchErr)

	// The completed fetch was cached despite the first caller leaving
	cached, err := GetOrFetch(context.Background(), memo, "global_inflation", "global", 0, func(context.Context) (string, error) {
		return "", errors.New("should not be called")
	})
	require.NoError(t, err)
	assert.Equal(t, "snapshot", cached)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := OpenBadgerStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBadgerStore(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "rate_series|USD|EUR", []byte(`{"base":"USD"}`), time.Hour))
	require.NoError(t, store.Set(ctx, "currencies", []byte(`{}`), time.Hour))

	value, ok, err := store.Get(ctx, "rate_series|USD|EUR")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"base":"USD"}`, string(value))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	require.NoError(t, store.Clear(ctx))
	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestBadgerStoreExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping expiry test in short mode")
	}

	store := newTestBadgerStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("x"), time.Second))
	time.Sleep(2100 * time.Millisecond)

	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

package repository

import (
	"context"
	"testing"
	"time"

	"EigenFlow/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore(time.Hour, func() time.Time { return now }, metrics.NewWithRegistry(prometheus.NewRegistry()))

	a, err := store.Create(ctx)
	require.NoError(t, err)
	b, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Len())

	got, ok := store.Get(ctx, a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = store.Get(ctx, "nope")
	assert.False(t, ok)

	store.Delete(ctx, b.ID)
	_, ok = store.Get(ctx, b.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStoreIdleExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore(time.Hour, func() time.Time { return now }, nil)

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	_, ok := store.Get(ctx, sess.ID)
	require.True(t, ok, "access refreshes the idle timer")

	now = now.Add(50 * time.Minute)
	_, ok = store.Get(ctx, sess.ID)
	require.True(t, ok)

	now = now.Add(61 * time.Minute)
	_, ok = store.Get(ctx, sess.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

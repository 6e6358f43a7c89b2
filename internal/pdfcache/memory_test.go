package pdfcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests age entries without sleeping.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	id, err := store.Store(ctx, "cGRmLWJ5dGVz")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	payload, err := store.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cGRmLWJ5dGVz", payload)

	// retrieval is idempotent
	payload, err = store.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cGRmLWJ5dGVz", payload)
}

func TestMemoryStoreUniqueIdentifiers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	a, err := store.Store(ctx, "one")
	require.NoError(t, err)
	b, err := store.Store(ctx, "two")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestMemoryStoreUnknownID(t *testing.T) {
	store := NewMemoryStore(0)

	_, err := store.Retrieve(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{current: time.Unix(1700000000, 0)}
	store := newMemoryStore(10*time.Minute, clock.now)

	id, err := store.Store(ctx, "old")
	require.NoError(t, err)

	clock.advance(10*time.Minute + time.Second)

	// expired before any sweep runs: retrieve already misses
	_, err = store.Retrieve(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	// the next store sweeps the aged entry out of the table
	_, err = store.Store(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreSweepCount(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{current: time.Unix(1700000000, 0)}
	store := newMemoryStore(time.Minute, clock.now)

	_, err := store.Store(ctx, "a")
	require.NoError(t, err)
	_, err = store.Store(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, 0, store.Sweep(ctx))

	clock.advance(2 * time.Minute)
	assert.Equal(t, 2, store.Sweep(ctx))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreEntryWithinTTLSurvivesSweep(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{current: time.Unix(1700000000, 0)}
	store := newMemoryStore(10*time.Minute, clock.now)

	id, err := store.Store(ctx, "fresh")
	require.NoError(t, err)

	clock.advance(9 * time.Minute)
	store.Sweep(ctx)

	payload, err := store.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "fresh", payload)
}

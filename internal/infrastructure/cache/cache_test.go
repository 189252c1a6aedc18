package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := NewMemoryLocker()
	l.now = func() time.Time { return now }

	ok, err := l.TryLock(ctx, "sync:products", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.TryLock(ctx, "sync:products", time.Minute)
	assert.False(t, ok, "held lock must not be re-acquired")

	ok, _ = l.TryLock(ctx, "sync:featured", time.Minute)
	assert.True(t, ok, "locks are per name")

	now = now.Add(2 * time.Minute)
	ok, _ = l.TryLock(ctx, "sync:products", time.Minute)
	assert.True(t, ok, "expired lock is free")

	require.NoError(t, l.Unlock(ctx, "sync:products"))
	ok, _ = l.TryLock(ctx, "sync:products", time.Minute)
	assert.True(t, ok)
}

func TestMemoryDeduper(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	d := NewMemoryDeduper()
	d.now = func() time.Time { return now }

	first, err := d.FirstSeen(ctx, "evt_1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	first, _ = d.FirstSeen(ctx, "evt_1", time.Hour)
	assert.False(t, first)

	now = now.Add(2 * time.Hour)
	first, _ = d.FirstSeen(ctx, "evt_1", time.Hour)
	assert.True(t, first)

	require.NoError(t, d.Forget(ctx, "evt_1"))
	first, _ = d.FirstSeen(ctx, "evt_1", time.Hour)
	assert.True(t, first, "forgotten id is processed again")
}

// Runs only when a Redis instance is provided.
func TestRedisLockerAndDeduper(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, addr, os.Getenv("TEST_REDIS_PASSWORD"))
	require.NoError(t, err)
	defer rdb.Close()

	name := "test-" + uuid.NewString()
	a, b := NewRedisLocker(rdb), NewRedisLocker(rdb)

	ok, err := a.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = b.TryLock(ctx, name, time.Minute)
	assert.False(t, ok)

	require.NoError(t, b.Unlock(ctx, name))
	ok, _ = b.TryLock(ctx, name, time.Minute)
	assert.False(t, ok, "unlock by a non-holder is a no-op")

	require.NoError(t, a.Unlock(ctx, name))
	ok, _ = b.TryLock(ctx, name, time.Minute)
	assert.True(t, ok)
	require.NoError(t, b.Unlock(ctx, name))

	d := NewRedisDeduper(rdb)
	id := uuid.NewString()
	first, err := d.FirstSeen(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.True(t, first)
	first, _ = d.FirstSeen(ctx, id, time.Minute)
	assert.False(t, first)
}

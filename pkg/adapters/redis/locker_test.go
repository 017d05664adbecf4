package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redislock "github.com/aretw0/folio/pkg/adapters/redis"
	backend "github.com/redis/go-redis/v9"
)

func setup(t *testing.T) *redislock.Locker {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return redislock.NewLocker(client, "folio:")
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	locker := setup(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "papers/vq", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	// Released lock can be re-acquired immediately.
	unlock2, err := locker.Lock(ctx, "papers/vq", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_Contention(t *testing.T) {
	locker := setup(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "shared", time.Minute)
	require.NoError(t, err)

	// Second acquirer blocks until the first releases.
	acquired := make(chan struct{})
	go func() {
		unlock2, err := locker.Lock(ctx, "shared", time.Minute)
		assert.NoError(t, err)
		close(acquired)
		unlock2(ctx)
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while still held")
	case <-time.After(250 * time.Millisecond):
	}

	require.NoError(t, unlock(ctx))

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("lock not acquired after release")
	}
}

func TestLocker_ContextCancel(t *testing.T) {
	locker := setup(t)

	unlock, err := locker.Lock(context.Background(), "held", time.Minute)
	require.NoError(t, err)
	defer unlock(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "held", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// Package redis implements ports.Locker over Redis for deployments
// where several replicas share one workspace volume and compile locks
// must hold across processes.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/folio/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Locker implements ports.Locker using Redis SET NX PX.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires the lock for key, polling with backoff until it is
// acquired or the context is canceled. The TTL bounds how long a
// crashed holder can keep the key alive.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	// Value identifies this holder so release cannot delete a lock that
	// expired and was re-acquired by someone else.
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
			if err != nil {
				return nil, fmt.Errorf("redis error acquiring lock: %w", err)
			}
			if success {
				return func(ctx context.Context) error {
					// Check-and-delete atomically so only the holder releases.
					script := `
						if redis.call("get", KEYS[1]) == ARGV[1] then
							return redis.call("del", KEYS[1])
						else
							return 0
						end
					`
					return l.client.Eval(ctx, script, []string{lockKey}, val).Err()
				}, nil
			}
			// Held by someone else; retry on the next tick.
		}
	}
}

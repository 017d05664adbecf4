// Package memlock implements ports.Locker with in-process mutexes.
// It is the default compile lock for single-instance deployments.
package memlock

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/ports"
)

// Locker serializes access per key within a single process.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*semaphore
}

// semaphore is a channel-based mutex so acquisition can honor context
// cancellation, which sync.Mutex cannot.
type semaphore struct {
	ch chan struct{}
}

// New creates a new in-process Locker.
func New() *Locker {
	return &Locker{
		locks: make(map[string]*semaphore),
	}
}

func (l *Locker) sem(key string) *semaphore {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.locks[key]
	if !ok {
		s = &semaphore{ch: make(chan struct{}, 1)}
		l.locks[key] = s
	}
	return s
}

// Lock blocks until the lock for key is acquired or the context is
// canceled. The TTL is ignored: an in-process lock dies with the
// process, so expiry is unnecessary.
func (l *Locker) Lock(ctx context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	s := l.sem(key)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case s.ch <- struct{}{}:
		return func(context.Context) error {
			<-s.ch
			return nil
		}, nil
	}
}

package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a held lock.
type UnlockFunc func(ctx context.Context) error

// Locker provides mutual exclusion keyed by an arbitrary string.
// The LatexCompiler uses it keyed by project directory: two compile
// sequences against the same directory touch the same auxiliary and
// output files, so they must never interleave.
type Locker interface {
	// Lock blocks until the lock for key is acquired, the context is
	// canceled, or the TTL expires (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

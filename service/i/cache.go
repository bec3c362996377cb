package i

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by caches for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// BlobCache keeps encoded mazes close to the service.
type BlobCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
}

// Locker hands out exclusive named locks.
type Locker interface {
	// Lock blocks until the named lock is held or ctx is done and returns a
	// function releasing it.
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// SortedSet ranks members by score.
type SortedSet interface {
	Add(ctx context.Context, key string, score float64, member string) error
	// Top returns up to n members with the highest scores, highest first.
	Top(ctx context.Context, key string, n int64) ([]string, error)
	Count(ctx context.Context, key string) int64
}

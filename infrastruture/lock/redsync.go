// Package lock provides distributed locks backed by Redis.
package lock

import (
	"context"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "lock:"
	defaultExpiry = 30 * time.Second
)

// RedisLocker implements i.Locker with redsync mutexes.
type RedisLocker struct {
	locker *redsync.Redsync
	expiry time.Duration
	tries  int
}

// NewRedisLocker creates a locker whose locks expire after expiry unless released.
// Acquisition is retried up to tries times.
func NewRedisLocker(client *redis.Client, expiry time.Duration, tries int) *RedisLocker {
	if expiry < time.Second {
		expiry = defaultExpiry
	}
	pool := goredis.NewPool(client)
	return &RedisLocker{
		locker: redsync.New(pool),
		expiry: expiry,
		tries:  tries,
	}
}

// Lock acquires the named lock. Failing to acquire it reports dmn.ErrMazeBusy.
// The lock is extended every half expiry until the returned function is called,
// so holders may run longer than expiry.
func (l *RedisLocker) Lock(ctx context.Context, name string) (func(), error) {
	mutex := l.locker.NewMutex(keyPrefix+name, redsync.WithExpiry(l.expiry), redsync.WithTries(l.tries))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dmn.ErrMazeBusy, name, err)
	}

	stop := keepAlive(l.expiry/2, mutex.ExtendContext)
	return func() {
		stop()
		_, _ = mutex.Unlock()
	}, nil
}

// keepAlive calls extend every interval until the returned stop function is
// called or extend fails. stop waits for a running extend to return.
func keepAlive(interval time.Duration, extend func(context.Context) (bool, error)) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ok, err := extend(ctx); !ok || err != nil {
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

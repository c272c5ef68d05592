// Package redislock provides a minimal Redis-backed mutual exclusion lock.
// This is part of the platform layer and contains no business logic.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another holder owns the lock.
var ErrNotAcquired = fmt.Errorf("lock not acquired")

// unlockScript releases the lock only if the caller still owns it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker acquires per-key locks with a TTL. Locks expire on their own if the
// holder crashes before releasing.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Locker backed by the given Redis client.
func New(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{client: client, ttl: ttl}
}

// Lock represents a held lock. Release it when the guarded work completes.
type Lock struct {
	locker *Locker
	key    string
	token  string
}

// Acquire takes the lock for key, or returns ErrNotAcquired if it is held.
func (l *Locker) Acquire(ctx context.Context, key string) (*Lock, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &Lock{locker: l, key: key, token: token}, nil
}

// Release frees the lock if this holder still owns it. Releasing an expired
// or stolen lock is a no-op.
func (lk *Lock) Release(ctx context.Context) error {
	if lk == nil {
		return nil
	}
	if err := unlockScript.Run(ctx, lk.locker.client, []string{lk.key}, lk.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", lk.key, err)
	}
	return nil
}

package redislock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), mr
}

func TestAcquireAndRelease(t *testing.T) {
	locker, _ := newTestLocker(t, time.Minute)
	ctx := context.Background()

	lock, err := locker.Acquire(ctx, "booking:finalize:42")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if _, err := locker.Acquire(ctx, "booking:finalize:42"); err != ErrNotAcquired {
		t.Fatalf("second Acquire() error = %v, want ErrNotAcquired", err)
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	relocked, err := locker.Acquire(ctx, "booking:finalize:42")
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	if err := relocked.Release(ctx); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestAcquireDifferentKeys(t *testing.T) {
	locker, _ := newTestLocker(t, time.Minute)
	ctx := context.Background()

	first, err := locker.Acquire(ctx, "booking:finalize:1")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer first.Release(ctx)

	second, err := locker.Acquire(ctx, "booking:finalize:2")
	if err != nil {
		t.Fatalf("Acquire() distinct key error = %v", err)
	}
	defer second.Release(ctx)
}

func TestLockExpires(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	ctx := context.Background()

	if _, err := locker.Acquire(ctx, "booking:finalize:7"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	mr.FastForward(2 * time.Second)

	lock, err := locker.Acquire(ctx, "booking:finalize:7")
	if err != nil {
		t.Fatalf("Acquire() after expiry error = %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestReleaseAfterExpiryIsNoop(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	ctx := context.Background()

	lock, err := locker.Acquire(ctx, "booking:finalize:9")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	mr.FastForward(2 * time.Second)

	// Another holder takes the key after expiry.
	other, err := locker.Acquire(ctx, "booking:finalize:9")
	if err != nil {
		t.Fatalf("Acquire() after expiry error = %v", err)
	}

	// The stale holder's release must not free the new holder's lock.
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("stale Release() error = %v", err)
	}
	if _, err := locker.Acquire(ctx, "booking:finalize:9"); err != ErrNotAcquired {
		t.Fatalf("Acquire() while held error = %v, want ErrNotAcquired", err)
	}
	if err := other.Release(ctx); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

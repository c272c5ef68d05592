package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/redislock"
)

func newTestLocker(t *testing.T) *FinalizeLocker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewFinalizeLocker(redislock.New(client, time.Minute), logger.New("development"))
}

func TestWithLockRunsFunction(t *testing.T) {
	locker := newTestLocker(t)
	ran := false

	err := locker.WithLock(context.Background(), uuid.New(), func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock() error = %v", err)
	}
	if !ran {
		t.Fatal("guarded function did not run")
	}
}

func TestWithLockConflictsWhileHeld(t *testing.T) {
	locker := newTestLocker(t)
	bookingID := uuid.New()

	err := locker.WithLock(context.Background(), bookingID, func(ctx context.Context) error {
		inner := locker.WithLock(ctx, bookingID, func(context.Context) error { return nil })
		if inner == nil {
			t.Fatal("nested WithLock on same booking must conflict")
		}
		if apperr.GetKind(inner) != apperr.KindConflict {
			t.Fatalf("kind = %v, want conflict", apperr.GetKind(inner))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock() error = %v", err)
	}
}

func TestWithLockReleasesAfterRun(t *testing.T) {
	locker := newTestLocker(t)
	bookingID := uuid.New()

	for i := 0; i < 2; i++ {
		if err := locker.WithLock(context.Background(), bookingID, func(context.Context) error { return nil }); err != nil {
			t.Fatalf("run %d: WithLock() error = %v", i, err)
		}
	}
}

func TestWithLockIsolatesBookings(t *testing.T) {
	locker := newTestLocker(t)

	err := locker.WithLock(context.Background(), uuid.New(), func(ctx context.Context) error {
		return locker.WithLock(ctx, uuid.New(), func(context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("locks on distinct bookings must not conflict: %v", err)
	}
}

// Package adapters wires platform infrastructure into the ports the bounded
// contexts define, keeping service packages free of infrastructure imports.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tripdesk_backend/internal/bookings/ports"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/redislock"
)

// FinalizeLocker serializes booking finalization on a per-booking Redis lock.
type FinalizeLocker struct {
	locker *redislock.Locker
	log    *logger.Logger
}

// NewFinalizeLocker creates a FinalizeLocker over the given Redis locker.
func NewFinalizeLocker(locker *redislock.Locker, log *logger.Logger) *FinalizeLocker {
	return &FinalizeLocker{locker: locker, log: log}
}

// WithLock runs fn while holding the booking's finalize lock. A concurrent
// finalize of the same booking fails fast with a conflict instead of waiting.
func (f *FinalizeLocker) WithLock(ctx context.Context, bookingID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("booking:finalize:%s", bookingID)

	lock, err := f.locker.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, redislock.ErrNotAcquired) {
			return apperr.Conflict("booking is already being finalized")
		}
		return fmt.Errorf("finalize lock: %w", err)
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			f.log.Warn("failed to release finalize lock", "key", key, "error", err)
		}
	}()

	return fn(ctx)
}

var _ ports.FinalizeLocker = (*FinalizeLocker)(nil)

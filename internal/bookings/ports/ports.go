// Package ports declares the collaborator interfaces the bookings service
// depends on, implemented by the fleet and billing modules and adapted in the
// composition root.
package ports

import (
	"context"

	"github.com/google/uuid"

	fleetrepo "tripdesk_backend/internal/fleet/repository"
)

// VehicleResolver maps free-text vehicle queries and passenger counts onto
// rate cards.
type VehicleResolver interface {
	Resolve(ctx context.Context, query string, passengers int) (fleetrepo.VehicleClass, error)
	AutoAssign(ctx context.Context, passengers int) (fleetrepo.VehicleClass, error)
}

// FinancialSummary is the slice of booking state the document generators need.
type FinancialSummary struct {
	BookingID          uuid.UUID
	CustomerID         *uuid.UUID
	CustomerName       string
	PickupLocation     string
	DropLocation       string
	GrandTotal         float64
	NightCharges       float64
	DriverExpenseTotal float64
	CustomerPaidTotal  float64
	DriverName         string
}

// DocumentGenerator creates the financial documents for a finalized booking.
// Both operations are idempotent: an existing document short-circuits with
// created=false.
type DocumentGenerator interface {
	// GenerateInvoice returns the invoice ID and whether a new one was created.
	GenerateInvoice(ctx context.Context, summary FinancialSummary) (uuid.UUID, bool, error)
	// GenerateDriverPayment returns the payment ID (nil when nothing is owed)
	// and whether a new document was created.
	GenerateDriverPayment(ctx context.Context, summary FinancialSummary) (*uuid.UUID, bool, error)
}

// FinalizeLocker serializes finalize calls per booking. Implementations
// return an error when the lock is already held.
type FinalizeLocker interface {
	WithLock(ctx context.Context, bookingID uuid.UUID, fn func(ctx context.Context) error) error
}

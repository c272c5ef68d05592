package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Invoice is a customer-facing financial document for a finalized booking.
// At most one exists per booking.
type Invoice struct {
	ID                uuid.UUID
	BookingID         uuid.UUID
	CustomerID        *uuid.UUID
	CustomerName      string
	PickupLocation    string
	DropLocation      string
	GrandTotal        float64
	CustomerPaidTotal float64
	AmountPayable     float64
	PDFObjectKey      *string
	CreatedAt         time.Time
}

// DriverPayment records what the company owes the driver for a booking.
// At most one exists per booking.
type DriverPayment struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	DriverName     string
	NightAllowance float64
	Reimbursement  float64
	Total          float64
	CreatedAt      time.Time
}

// CreateInvoiceParams carries the fields for a new invoice.
type CreateInvoiceParams struct {
	BookingID         uuid.UUID
	CustomerID        *uuid.UUID
	CustomerName      string
	PickupLocation    string
	DropLocation      string
	GrandTotal        float64
	CustomerPaidTotal float64
	AmountPayable     float64
}

// CreateDriverPaymentParams carries the fields for a new driver payment.
type CreateDriverPaymentParams struct {
	BookingID      uuid.UUID
	DriverName     string
	NightAllowance float64
	Reimbursement  float64
	Total          float64
}

// Repository defines the data access contract for financial documents.
type Repository interface {
	CreateInvoice(ctx context.Context, params CreateInvoiceParams) (Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error)
	GetInvoiceByBooking(ctx context.Context, bookingID uuid.UUID) (*Invoice, error)
	SetInvoicePDFKey(ctx context.Context, id uuid.UUID, key string) error

	CreateDriverPayment(ctx context.Context, params CreateDriverPaymentParams) (DriverPayment, error)
	GetDriverPayment(ctx context.Context, id uuid.UUID) (DriverPayment, error)
	GetDriverPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*DriverPayment, error)
}

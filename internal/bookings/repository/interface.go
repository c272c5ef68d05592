package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tripdesk_backend/internal/bookings/domain"
)

// Booking is the persisted booking record with its resolved rates and the
// latest computed fare fields.
type Booking struct {
	ID             uuid.UUID
	TripKind       domain.TripKind
	CustomerID     *uuid.UUID
	CustomerName   string
	DriverName     *string
	VehicleClassID *uuid.UUID
	VehicleModel   string
	PickupLocation string
	DropLocation   string
	PickupAt       *time.Time
	ReturnAt       *time.Time
	StartOdometer  *float64
	EndOdometer    *float64
	// ManualNights is the recorded night count for Local trips.
	ManualNights int

	Rates domain.Rates

	Days                   int
	Nights                 int
	TotalKm                float64
	ChargeableKm           float64
	ChargeableKmOverridden bool
	BaseAmount             float64
	ExtraHourCharges       float64
	ExtraKmCharges         float64
	NightCharges           float64
	ExpenseTotal           float64
	BillableExpenseTotal   float64
	DriverExpenseTotal     float64
	TaxTotal               float64
	NetTotal               float64
	GrossTotal             float64
	GrandTotal             float64
	Discount               float64

	Status          domain.Status
	InvoiceID       *uuid.UUID
	DriverPaymentID *uuid.UUID

	CreatedAt string
	UpdatedAt string
}

// CreateBookingParams carries the fields for a new booking. Computed fields
// start at zero and are filled in by the first recompute.
type CreateBookingParams struct {
	TripKind       domain.TripKind
	CustomerID     *uuid.UUID
	CustomerName   string
	VehicleClassID *uuid.UUID
	VehicleModel   string
	PickupLocation string
	DropLocation   string
	PickupAt       *time.Time
	ReturnAt       *time.Time
	Rates          domain.Rates
}

// UpdateTripDetailsParams patches the recompute inputs of a booking. Nil
// pointers leave the stored value untouched.
type UpdateTripDetailsParams struct {
	ID                     uuid.UUID
	PickupAt               *time.Time
	ReturnAt               *time.Time
	StartOdometer          *float64
	EndOdometer            *float64
	ManualNights           *int
	Discount               *float64
	ChargeableKm           *float64
	ChargeableKmOverridden *bool
	DriverName             *string
}

// ComputedFields is the full recompute output saved back onto the booking.
type ComputedFields struct {
	Days                 int
	Nights               int
	TotalKm              float64
	ChargeableKm         float64
	BaseAmount           float64
	ExtraHourCharges     float64
	ExtraKmCharges       float64
	NightCharges         float64
	ExpenseTotal         float64
	BillableExpenseTotal float64
	DriverExpenseTotal   float64
	TaxTotal             float64
	NetTotal             float64
	GrossTotal           float64
	GrandTotal           float64
}

// TaxLine is a flat tax amount attached to a booking.
type TaxLine struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	Label     string
	Amount    float64
}

// CreateExpenseParams carries the fields for a new linked expense.
type CreateExpenseParams struct {
	BookingID  uuid.UUID
	Type       string
	Amount     float64
	Payer      domain.Payer
	IsBillable bool
	Status     domain.ExpenseStatus
}

// UpdateExpenseParams patches an expense. Nil pointers keep stored values.
type UpdateExpenseParams struct {
	ID         uuid.UUID
	Type       *string
	Amount     *float64
	Payer      *domain.Payer
	IsBillable *bool
}

// ListBookingsParams filters the booking list.
type ListBookingsParams struct {
	CustomerID *uuid.UUID
	Status     string
	Limit      int
	Offset     int
}

// Repository defines persistence operations for bookings and their linked
// expenses and tax lines.
type Repository interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (Booking, error)
	ListBookings(ctx context.Context, params ListBookingsParams) ([]Booking, int, error)
	UpdateTripDetails(ctx context.Context, params UpdateTripDetailsParams) (Booking, error)
	SaveComputed(ctx context.Context, id uuid.UUID, fields ComputedFields) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
	SetInvoiceRef(ctx context.Context, id uuid.UUID, invoiceID uuid.UUID) error
	SetDriverPaymentRef(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error

	ListExpenses(ctx context.Context, bookingID uuid.UUID) ([]domain.Expense, error)
	CreateExpense(ctx context.Context, params CreateExpenseParams) (domain.Expense, error)
	UpdateExpense(ctx context.Context, params UpdateExpenseParams) (domain.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	MarkExpensesSubmitted(ctx context.Context, bookingID uuid.UUID) error

	ListTaxLines(ctx context.Context, bookingID uuid.UUID) ([]TaxLine, error)
	AddTaxLine(ctx context.Context, bookingID uuid.UUID, label string, amount float64) (TaxLine, error)
	DeleteTaxLine(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

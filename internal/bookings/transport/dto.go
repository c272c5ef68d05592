package transport

import (
	"time"

	"github.com/google/uuid"
)

// Bookings

type CreateBookingRequest struct {
	TripKind       string     `json:"tripKind" validate:"required,oneof=Local Outstation"`
	CustomerID     *uuid.UUID `json:"customerId,omitempty"`
	CustomerName   string     `json:"customerName" validate:"required,min=1,max=200"`
	VehicleChoice  string     `json:"vehicleChoice" validate:"omitempty,max=100"`
	Passengers     int        `json:"passengers" validate:"omitempty,min=1,max=60"`
	PickupLocation string     `json:"pickupLocation" validate:"required,min=1,max=200"`
	DropLocation   string     `json:"dropLocation" validate:"required,min=1,max=200"`
	PickupAt       *time.Time `json:"pickupAt,omitempty"`
	ReturnAt       *time.Time `json:"returnAt,omitempty"`
}

type UpdateTripDetailsRequest struct {
	PickupAt               *time.Time `json:"pickupAt,omitempty"`
	ReturnAt               *time.Time `json:"returnAt,omitempty"`
	StartOdometer          *float64   `json:"startOdometer,omitempty" validate:"omitempty,min=0"`
	EndOdometer            *float64   `json:"endOdometer,omitempty" validate:"omitempty,min=0"`
	Nights                 *int       `json:"nights,omitempty" validate:"omitempty,min=0"`
	Discount               *float64   `json:"discount,omitempty" validate:"omitempty,min=0"`
	ChargeableKm           *float64   `json:"chargeableKm,omitempty" validate:"omitempty,min=0"`
	ChargeableKmOverridden *bool      `json:"chargeableKmOverridden,omitempty"`
	DriverName             *string    `json:"driverName,omitempty" validate:"omitempty,max=200"`
}

type ListBookingsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=Pending Confirmed Ongoing Completed Invoiced Cancelled"`
	Page   int    `form:"page" validate:"omitempty,min=1"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

type BookingResponse struct {
	ID             uuid.UUID  `json:"id"`
	TripKind       string     `json:"tripKind"`
	CustomerID     *uuid.UUID `json:"customerId,omitempty"`
	CustomerName   string     `json:"customerName"`
	DriverName     *string    `json:"driverName,omitempty"`
	VehicleClassID *uuid.UUID `json:"vehicleClassId,omitempty"`
	VehicleModel   string     `json:"vehicleModel"`
	PickupLocation string     `json:"pickupLocation"`
	DropLocation   string     `json:"dropLocation"`
	PickupAt       *time.Time `json:"pickupAt,omitempty"`
	ReturnAt       *time.Time `json:"returnAt,omitempty"`
	StartOdometer  *float64   `json:"startOdometer,omitempty"`
	EndOdometer    *float64   `json:"endOdometer,omitempty"`

	Days                   int     `json:"days"`
	Nights                 int     `json:"nights"`
	TotalKm                float64 `json:"totalKm"`
	ChargeableKm           float64 `json:"chargeableKm"`
	ChargeableKmOverridden bool    `json:"chargeableKmOverridden"`
	BaseAmount             float64 `json:"baseAmount"`
	ExtraHourCharges       float64 `json:"extraHourCharges"`
	ExtraKmCharges         float64 `json:"extraKmCharges"`
	NightCharges           float64 `json:"nightCharges"`
	ExpenseTotal           float64 `json:"expenseTotal"`
	BillableExpenseTotal   float64 `json:"billableExpenseTotal"`
	DriverExpenseTotal     float64 `json:"driverExpenseTotal"`
	TaxTotal               float64 `json:"taxTotal"`
	NetTotal               float64 `json:"netTotal"`
	GrossTotal             float64 `json:"grossTotal"`
	GrandTotal             float64 `json:"grandTotal"`
	Discount               float64 `json:"discount"`

	Status          string     `json:"status"`
	InvoiceID       *uuid.UUID `json:"invoiceId,omitempty"`
	DriverPaymentID *uuid.UUID `json:"driverPaymentId,omitempty"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt"`
}

type BookingListResponse struct {
	Items []BookingResponse `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// Expenses

type CreateExpenseRequest struct {
	Type       string  `json:"type" validate:"required,min=1,max=50"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Payer      string  `json:"payer" validate:"required,oneof=Driver Customer Company"`
	IsBillable *bool   `json:"isBillable,omitempty"`
}

type UpdateExpenseRequest struct {
	Type       *string  `json:"type,omitempty" validate:"omitempty,min=1,max=50"`
	Amount     *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Payer      *string  `json:"payer,omitempty" validate:"omitempty,oneof=Driver Customer Company"`
	IsBillable *bool    `json:"isBillable,omitempty"`
}

type ExpenseResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"bookingId"`
	Type       string    `json:"type"`
	Amount     float64   `json:"amount"`
	Payer      string    `json:"payer"`
	IsBillable bool      `json:"isBillable"`
	Status     string    `json:"status"`
}

// Tax lines

type AddTaxLineRequest struct {
	Label  string  `json:"label" validate:"required,min=1,max=100"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type TaxLineResponse struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"bookingId"`
	Label     string    `json:"label"`
	Amount    float64   `json:"amount"`
}

// Finalize

// FinalizeResponse reports per-document outcomes: finalize succeeds with
// partial progress, naming the document that failed.
type FinalizeResponse struct {
	BookingID       uuid.UUID  `json:"bookingId"`
	InvoiceID       *uuid.UUID `json:"invoiceId,omitempty"`
	InvoiceCreated  bool       `json:"invoiceCreated"`
	PaymentID       *uuid.UUID `json:"driverPaymentId,omitempty"`
	PaymentCreated  bool       `json:"driverPaymentCreated"`
	PaymentSkipped  bool       `json:"driverPaymentSkipped"`
	FailedDocuments []string   `json:"failedDocuments,omitempty"`
	Status          string     `json:"status"`
}

package transport

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceResponse struct {
	ID                uuid.UUID  `json:"id"`
	BookingID         uuid.UUID  `json:"bookingId"`
	CustomerID        *uuid.UUID `json:"customerId,omitempty"`
	CustomerName      string     `json:"customerName"`
	PickupLocation    string     `json:"pickupLocation"`
	DropLocation      string     `json:"dropLocation"`
	GrandTotal        float64    `json:"grandTotal"`
	CustomerPaidTotal float64    `json:"customerPaidTotal"`
	AmountPayable     float64    `json:"amountPayable"`
	HasPDF            bool       `json:"hasPdf"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type DriverPaymentResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"bookingId"`
	DriverName     string    `json:"driverName"`
	NightAllowance float64   `json:"nightAllowance"`
	Reimbursement  float64   `json:"reimbursement"`
	Total          float64   `json:"total"`
	CreatedAt      time.Time `json:"createdAt"`
}

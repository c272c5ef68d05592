// Package domain holds the pure fare computation rules for bookings.
// Everything here is deterministic: same inputs, same charges, no I/O.
package domain

import "time"

// TripKind distinguishes hourly local hires from multi-day outstation trips.
type TripKind string

const (
	TripLocal      TripKind = "Local"
	TripOutstation TripKind = "Outstation"
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
	StatusInvoiced  Status = "Invoiced"
	StatusCancelled Status = "Cancelled"
)

// Rates are the pricing terms snapshotted from a vehicle class when the
// booking is created. The booking flow never reads the rate card again.
type Rates struct {
	PerKm       float64
	PerHour     float64
	Night       float64
	LocalPerKm  float64
	MinHours    float64
	MinKm       float64
	MinKmPerDay float64
}

// ChargeInputs is everything the charge calculator needs from a booking.
type ChargeInputs struct {
	Kind     TripKind
	PickupAt *time.Time
	ReturnAt *time.Time

	StartOdometer *float64
	EndOdometer   *float64

	// Nights is supplied explicitly for Local trips only; Outstation nights
	// derive from the day count.
	Nights int

	// ChargeableKm preserves a manual correction when Overridden is set.
	ChargeableKm           float64
	ChargeableKmOverridden bool

	Rates Rates
}

// Charges is the computed fare breakdown for one booking.
type Charges struct {
	Days             int
	Nights           int
	TotalKm          float64
	ChargeableKm     float64
	BaseAmount       float64
	ExtraHourCharges float64
	ExtraKmCharges   float64
	NightCharges     float64
	TermTotal        float64
}

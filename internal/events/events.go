// Package events defines the domain events exchanged between modules and
// re-exports the platform bus types for convenience.
package events

import (
	"github.com/google/uuid"

	"tripdesk_backend/platform/events"
)

// Re-exported bus types so modules only import internal/events.
type (
	Event       = events.Event
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	Bus         = events.Bus
	InMemoryBus = events.InMemoryBus
	BaseEvent   = events.BaseEvent
)

// Re-exported platform constructors.
var (
	NewInMemoryBus = events.NewInMemoryBus
	NewBaseEvent   = events.NewBaseEvent
)

// LeadCreated fires when a lead is captured, through any surface.
type LeadCreated struct {
	BaseEvent
	LeadID   uuid.UUID
	Name     string
	Mobile   string
	Priority bool
}

// EventName returns the event identifier.
func (LeadCreated) EventName() string { return "leads.created" }

// BookingFinalized fires after a booking submit generated its financial
// documents (possibly partially).
type BookingFinalized struct {
	BaseEvent
	BookingID      uuid.UUID
	InvoiceID      *uuid.UUID
	PaymentID      *uuid.UUID
	FailedDocument string
}

// EventName returns the event identifier.
func (BookingFinalized) EventName() string { return "bookings.finalized" }

// PriorityInquiryCreated fires when a booking attempt fell back to a lead.
// Ops follows up on these by hand, so the notification path hangs off it.
type PriorityInquiryCreated struct {
	BaseEvent
	LeadID      uuid.UUID
	Name        string
	Mobile      string
	PlanSummary string
	Reason      string
}

// EventName returns the event identifier.
func (PriorityInquiryCreated) EventName() string { return "leads.priority_inquiry" }

// LeadFollowUpDue fires from the scheduler worker when a priority lead is
// still open after its follow-up delay.
type LeadFollowUpDue struct {
	BaseEvent
	LeadID      uuid.UUID
	Name        string
	Mobile      string
	PlanSummary string
}

// EventName returns the event identifier.
func (LeadFollowUpDue) EventName() string { return "leads.followup_due" }

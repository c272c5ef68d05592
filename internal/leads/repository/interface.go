package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead statuses. A lead is terminal once created; Open only flips when ops
// close it by hand.
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// Lead is a contact-only inquiry captured for follow-up.
type Lead struct {
	ID           uuid.UUID
	Name         string
	Mobile       string
	FromLocation string
	ToLocation   string
	TripDays     int
	PlanSummary  *string
	Priority     bool
	Source       string
	Status       string
	CreatedAt    time.Time
}

// CreateLeadParams carries the fields for a new lead.
type CreateLeadParams struct {
	Name         string
	Mobile       string
	FromLocation string
	ToLocation   string
	TripDays     int
	PlanSummary  *string
	Priority     bool
	Source       string
}

// ListLeadsParams filters the lead listing.
type ListLeadsParams struct {
	Status   string
	Priority *bool
	Limit    int
	Offset   int
}

// Repository defines the data access contract for leads.
type Repository interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

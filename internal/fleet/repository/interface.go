package repository

import (
	"context"

	"github.com/google/uuid"
)

// VehicleClass is an immutable rate card for one vehicle model. The booking
// flow reads resolved rates from it and never mutates it.
type VehicleClass struct {
	ID              uuid.UUID
	Category        string
	ModelName       string
	SeatingCapacity int
	PerKmRate       float64
	NightRate       float64
	LocalHourRate   float64
	MinLocalHours   float64
	MinLocalKm      float64
	LocalKmRate     float64
	MinKmPerDay     float64
	CreatedAt       string
	UpdatedAt       string
}

// CreateVehicleClassParams carries the fields for a new rate card.
type CreateVehicleClassParams struct {
	Category        string
	ModelName       string
	SeatingCapacity int
	PerKmRate       float64
	NightRate       float64
	LocalHourRate   float64
	MinLocalHours   float64
	MinLocalKm      float64
	LocalKmRate     float64
	MinKmPerDay     float64
}

// Repository defines persistence operations for vehicle classes.
type Repository interface {
	Create(ctx context.Context, params CreateVehicleClassParams) (VehicleClass, error)
	GetByID(ctx context.Context, id uuid.UUID) (VehicleClass, error)
	// List returns all rate cards ordered cheapest per-km first.
	List(ctx context.Context) ([]VehicleClass, error)
}

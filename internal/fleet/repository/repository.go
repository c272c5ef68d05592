package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/platform/apperr"
)

const vehicleClassNotFoundMessage = "vehicle class not found"

// Repo implements the fleet repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new fleet repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const vehicleClassColumns = `
	id, category, model_name, seating_capacity,
	per_km_rate, night_rate, local_hour_rate,
	min_local_hours, min_local_km, local_km_rate, min_km_per_day,
	created_at, updated_at`

// Create inserts a rate card.
func (r *Repo) Create(ctx context.Context, params CreateVehicleClassParams) (VehicleClass, error) {
	query := `
		INSERT INTO vehicle_classes (
			category, model_name, seating_capacity,
			per_km_rate, night_rate, local_hour_rate,
			min_local_hours, min_local_km, local_km_rate, min_km_per_day
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING` + vehicleClassColumns

	row := r.pool.QueryRow(ctx, query,
		params.Category, params.ModelName, params.SeatingCapacity,
		params.PerKmRate, params.NightRate, params.LocalHourRate,
		params.MinLocalHours, params.MinLocalKm, params.LocalKmRate, params.MinKmPerDay,
	)
	vc, err := scanVehicleClass(row)
	if err != nil {
		return VehicleClass{}, fmt.Errorf("create vehicle class: %w", err)
	}
	return vc, nil
}

// GetByID retrieves a rate card by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (VehicleClass, error) {
	query := `SELECT` + vehicleClassColumns + ` FROM vehicle_classes WHERE id = $1`

	vc, err := scanVehicleClass(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VehicleClass{}, apperr.NotFound(vehicleClassNotFoundMessage)
		}
		return VehicleClass{}, fmt.Errorf("get vehicle class by id: %w", err)
	}
	return vc, nil
}

// List returns all rate cards ordered cheapest per-km first.
func (r *Repo) List(ctx context.Context) ([]VehicleClass, error) {
	query := `SELECT` + vehicleClassColumns + ` FROM vehicle_classes ORDER BY per_km_rate ASC, seating_capacity ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicle classes: %w", err)
	}
	defer rows.Close()

	items := make([]VehicleClass, 0)
	for rows.Next() {
		vc, err := scanVehicleClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle class: %w", err)
		}
		items = append(items, vc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate vehicle classes: %w", rows.Err())
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicleClass(row rowScanner) (VehicleClass, error) {
	var vc VehicleClass
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&vc.ID, &vc.Category, &vc.ModelName, &vc.SeatingCapacity,
		&vc.PerKmRate, &vc.NightRate, &vc.LocalHourRate,
		&vc.MinLocalHours, &vc.MinLocalKm, &vc.LocalKmRate, &vc.MinKmPerDay,
		&createdAt, &updatedAt,
	); err != nil {
		return VehicleClass{}, err
	}
	vc.CreatedAt = createdAt.Format(time.RFC3339)
	vc.UpdatedAt = updatedAt.Format(time.RFC3339)
	return vc, nil
}

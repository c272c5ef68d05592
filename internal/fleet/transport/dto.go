package transport

import "github.com/google/uuid"

// Vehicle classes (rate cards)

type CreateVehicleClassRequest struct {
	Category        string  `json:"category" validate:"required,min=1,max=50"`
	ModelName       string  `json:"modelName" validate:"required,min=1,max=100"`
	SeatingCapacity int     `json:"seatingCapacity" validate:"required,min=1,max=60"`
	PerKmRate       float64 `json:"perKmRate" validate:"min=0"`
	NightRate       float64 `json:"nightRate" validate:"min=0"`
	LocalHourRate   float64 `json:"localHourRate" validate:"min=0"`
	MinLocalHours   float64 `json:"minLocalHours" validate:"min=0"`
	MinLocalKm      float64 `json:"minLocalKm" validate:"min=0"`
	LocalKmRate     float64 `json:"localKmRate" validate:"min=0"`
	MinKmPerDay     float64 `json:"minKmPerDay" validate:"min=0"`
}

type ListVehicleClassesRequest struct {
	Category   string `form:"category" validate:"omitempty,max=50"`
	Passengers int    `form:"passengers" validate:"omitempty,min=1,max=60"`
}

type VehicleClassResponse struct {
	ID              uuid.UUID `json:"id"`
	Category        string    `json:"category"`
	ModelName       string    `json:"modelName"`
	SeatingCapacity int       `json:"seatingCapacity"`
	PerKmRate       float64   `json:"perKmRate"`
	NightRate       float64   `json:"nightRate"`
	LocalHourRate   float64   `json:"localHourRate"`
	MinLocalHours   float64   `json:"minLocalHours"`
	MinLocalKm      float64   `json:"minLocalKm"`
	LocalKmRate     float64   `json:"localKmRate"`
	MinKmPerDay     float64   `json:"minKmPerDay"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

type VehicleClassListResponse struct {
	Items []VehicleClassResponse `json:"items"`
	Total int                    `json:"total"`
}

// Trip estimates

type TripEstimateRequest struct {
	Days       int `form:"days" validate:"required,min=1,max=60"`
	Passengers int `form:"passengers" validate:"omitempty,min=1,max=60"`
}

// ClassEstimate is one category's round-trip quote under the
// minimum-km-per-day policy.
type ClassEstimate struct {
	Category    string  `json:"category"`
	ModelName   string  `json:"modelName,omitempty"`
	PerKmRate   float64 `json:"perKmRate"`
	MinKmPerDay float64 `json:"minKmPerDay"`
	Days        int     `json:"days"`
	TotalKm     float64 `json:"totalKm"`
	Total       float64 `json:"total"`
}

type TripEstimateResponse struct {
	Days      int             `json:"days"`
	Estimates []ClassEstimate `json:"estimates"`
	Note      string          `json:"note"`
}

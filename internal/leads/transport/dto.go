package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Mobile       string  `json:"mobile" validate:"required,min=6,max=20"`
	FromLocation string  `json:"from" validate:"required,min=1,max=200"`
	ToLocation   string  `json:"to" validate:"required,min=1,max=200"`
	TripDays     int     `json:"tripDays" validate:"omitempty,min=1,max=60"`
	PlanSummary  *string `json:"planSummary,omitempty" validate:"omitempty,max=2000"`
}

type ListLeadsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=Open Closed"`
	Priority *bool  `form:"priority"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

type LeadResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile"`
	FromLocation string    `json:"from"`
	ToLocation   string    `json:"to"`
	TripDays     int       `json:"tripDays"`
	PlanSummary  *string   `json:"planSummary,omitempty"`
	Priority     bool      `json:"priority"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

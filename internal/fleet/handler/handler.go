package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk_backend/internal/fleet/service"
	"tripdesk_backend/internal/fleet/transport"
	"tripdesk_backend/platform/httpkit"
	"tripdesk_backend/platform/validator"
)

// Handler handles HTTP requests for the fleet.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new fleet handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListVehicleClasses retrieves rate cards.
// GET /api/v1/fleet/vehicle-classes
func (h *Handler) ListVehicleClasses(c *gin.Context) {
	var req transport.ListVehicleClassesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListVehicleClasses(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateVehicleClass creates a rate card.
// POST /api/v1/admin/fleet/vehicle-classes
func (h *Handler) CreateVehicleClass(c *gin.Context) {
	var req transport.CreateVehicleClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateVehicleClass(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// EstimateTrip quotes a round trip for sedan and suv classes.
// GET /api/v1/fleet/estimate
func (h *Handler) EstimateTrip(c *gin.Context) {
	var req transport.TripEstimateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quotes, err := h.svc.EstimateTripCost(c.Request.Context(), req.Days, req.Passengers)
	if httpkit.HandleError(c, err) {
		return
	}

	estimates := make([]transport.ClassEstimate, len(quotes))
	for i, q := range quotes {
		estimates[i] = transport.ClassEstimate{
			Category:    q.Category,
			ModelName:   q.ModelName,
			PerKmRate:   q.PerKmRate,
			MinKmPerDay: q.MinKmPerDay,
			Days:        q.Days,
			TotalKm:     q.TotalKm,
			Total:       q.Total,
		}
	}
	httpkit.OK(c, transport.TripEstimateResponse{
		Days:      req.Days,
		Estimates: estimates,
		Note:      "round-trip estimate under the minimum km/day policy; tolls, parking and taxes extra",
	})
}

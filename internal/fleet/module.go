// Package fleet provides the vehicle rate-card bounded context module.
package fleet

import (
	"tripdesk_backend/internal/fleet/handler"
	"tripdesk_backend/internal/fleet/repository"
	"tripdesk_backend/internal/fleet/service"
	apphttp "tripdesk_backend/internal/http"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the fleet bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the fleet module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "fleet"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts fleet routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/fleet/vehicle-classes", m.handler.ListVehicleClasses)
	ctx.V1.GET("/fleet/estimate", m.handler.EstimateTrip)

	ctx.Admin.POST("/fleet/vehicle-classes", m.handler.CreateVehicleClass)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

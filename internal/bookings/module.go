// Package bookings provides the booking bounded context module: lifecycle,
// fare recomputation and finalize.
package bookings

import (
	"tripdesk_backend/internal/bookings/handler"
	"tripdesk_backend/internal/bookings/ports"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/service"
	"tripdesk_backend/internal/events"
	apphttp "tripdesk_backend/internal/http"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the bookings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the bookings module.
func NewModule(
	pool *pgxpool.Pool,
	resolver ports.VehicleResolver,
	docs ports.DocumentGenerator,
	locker ports.FinalizeLocker,
	bus events.Bus,
	cfg config.BillingConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resolver, docs, locker, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "bookings"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts booking routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/bookings", m.handler.CreateBooking)
	ctx.Protected.GET("/bookings", m.handler.ListBookings)
	ctx.Protected.GET("/bookings/:id", m.handler.GetBooking)
	ctx.Protected.PATCH("/bookings/:id", m.handler.UpdateTripDetails)
	ctx.Protected.PUT("/bookings/:id/status", m.handler.UpdateStatus)
	ctx.Protected.POST("/bookings/:id/finalize", m.handler.Finalize)

	ctx.Protected.GET("/bookings/:id/expenses", m.handler.ListExpenses)
	ctx.Protected.POST("/bookings/:id/expenses", m.handler.AddExpense)
	ctx.Protected.PUT("/expenses/:id", m.handler.UpdateExpense)
	ctx.Protected.DELETE("/expenses/:id", m.handler.DeleteExpense)

	ctx.Protected.POST("/bookings/:id/tax-lines", m.handler.AddTaxLine)
	ctx.Protected.DELETE("/tax-lines/:id", m.handler.DeleteTaxLine)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

// Package leads provides the lead capture bounded context: public inquiries,
// assistant-captured leads and booking-fallback Priority Inquiries.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/internal/events"
	apphttp "tripdesk_backend/internal/http"
	"tripdesk_backend/internal/leads/handler"
	"tripdesk_backend/internal/leads/repository"
	"tripdesk_backend/internal/leads/service"
	"tripdesk_backend/internal/scheduler"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module. followUps may be nil.
func NewModule(pool *pgxpool.Pool, bus events.Bus, followUps scheduler.FollowUpScheduler, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, followUps, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context. Lead
// capture is public; listing and closing are back-office operations.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/leads", m.handler.CreateLead)

	ctx.Protected.GET("/leads", m.handler.ListLeads)
	ctx.Protected.GET("/leads/:id", m.handler.GetLead)
	ctx.Protected.POST("/leads/:id/close", m.handler.CloseLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

// Package assistant provides the conversational surface: a single chat
// endpoint behind which the orchestrator quotes fares, captures leads and
// creates bookings via tool calls.
package assistant

import (
	"tripdesk_backend/internal/assistant/agent"
	"tripdesk_backend/internal/assistant/handler"
	apphttp "tripdesk_backend/internal/http"
	"tripdesk_backend/platform/httpkit"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"
)

// Module is the assistant bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the tool executor and orchestrator over the domain
// services of the other modules.
func NewModule(
	model agent.ModelClient,
	fleet agent.FleetCatalog,
	bookings agent.BookingCreator,
	leads agent.LeadCapturer,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	executor := agent.NewExecutor(fleet, bookings, leads, log)
	orchestrator := agent.NewOrchestrator(model, executor, log)
	return &Module{handler: handler.New(orchestrator, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assistant"
}

// RegisterRoutes mounts the chat endpoint. The route is public with optional
// authentication and a stricter per-IP rate limit, since each request fans
// out into model calls.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	chat := ctx.V1.Group("/assistant")
	chat.Use(httpkit.AuthOptional(ctx.Config))
	if ctx.AssistantRateLimiter != nil {
		chat.Use(ctx.AssistantRateLimiter.RateLimit())
	}
	chat.POST("/chat", m.handler.Chat)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

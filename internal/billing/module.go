// Package billing provides the financial document bounded context: invoices
// and driver payments generated when a booking is finalized.
package billing

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/internal/billing/handler"
	"tripdesk_backend/internal/billing/repository"
	"tripdesk_backend/internal/billing/service"
	apphttp "tripdesk_backend/internal/http"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
)

// Module is the billing bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the billing module. A nil store disables
// invoice PDF persistence.
func NewModule(pool *pgxpool.Pool, store service.ObjectStore, bucket string, cfg config.BillingConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, bucket, cfg, log)
	h := handler.New(svc)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "billing"
}

// Service returns the service layer for external use. It satisfies the
// document generator contract the bookings module depends on.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts billing routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/billing/invoices/:id", m.handler.GetInvoice)
	ctx.Protected.GET("/billing/invoices/:id/pdf", m.handler.DownloadInvoicePDF)
	ctx.Protected.GET("/billing/driver-payments/:id", m.handler.GetDriverPayment)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

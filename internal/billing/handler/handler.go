package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripdesk_backend/internal/billing/service"
	"tripdesk_backend/platform/httpkit"
)

// Handler handles HTTP requests for financial documents.
type Handler struct {
	svc *service.Service
}

// New creates a new billing handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// GetInvoice retrieves an invoice.
// GET /api/v1/billing/invoices/:id
func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid invoice id", nil)
		return
	}

	result, err := h.svc.GetInvoice(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DownloadInvoicePDF streams the rendered invoice PDF.
// GET /api/v1/billing/invoices/:id/pdf
func (h *Handler) DownloadInvoicePDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid invoice id", nil)
		return
	}

	data, err := h.svc.GetInvoicePDF(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoice-`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GetDriverPayment retrieves a driver payment.
// GET /api/v1/billing/driver-payments/:id
func (h *Handler) GetDriverPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payment id", nil)
		return
	}

	result, err := h.svc.GetDriverPayment(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

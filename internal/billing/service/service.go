// Package service generates the financial documents produced by booking
// finalization. Invoice and driver payment creation are idempotent per
// booking; PDF rendering and upload are best effort and never fail the
// document itself.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tripdesk_backend/internal/billing/repository"
	"tripdesk_backend/internal/billing/transport"
	"tripdesk_backend/internal/bookings/ports"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
)

// ObjectStore uploads and fetches rendered documents. A nil store disables
// PDF persistence without affecting document creation.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// Service provides business logic for financial documents.
type Service struct {
	repo     repository.Repository
	store    ObjectStore
	bucket   string
	upiPayee string
	log      *logger.Logger
}

// New creates a new billing service.
func New(repo repository.Repository, store ObjectStore, bucket string, cfg config.BillingConfig, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		bucket:   bucket,
		upiPayee: cfg.GetUPIPayee(),
		log:      log,
	}
}

// GenerateInvoice creates the booking's invoice, or returns the existing one.
// The payable amount nets out expenses the customer already paid directly.
func (s *Service) GenerateInvoice(ctx context.Context, summary ports.FinancialSummary) (uuid.UUID, bool, error) {
	existing, err := s.repo.GetInvoiceByBooking(ctx, summary.BookingID)
	if err != nil {
		return uuid.Nil, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	payable := summary.GrandTotal - summary.CustomerPaidTotal
	if payable < 0 {
		payable = 0
	}

	invoice, err := s.repo.CreateInvoice(ctx, repository.CreateInvoiceParams{
		BookingID:         summary.BookingID,
		CustomerID:        summary.CustomerID,
		CustomerName:      summary.CustomerName,
		PickupLocation:    summary.PickupLocation,
		DropLocation:      summary.DropLocation,
		GrandTotal:        summary.GrandTotal,
		CustomerPaidTotal: summary.CustomerPaidTotal,
		AmountPayable:     payable,
	})
	if err != nil {
		return uuid.Nil, false, err
	}

	s.persistPDF(ctx, invoice)
	return invoice.ID, true, nil
}

// persistPDF renders and uploads the invoice PDF. Failures are logged; the
// invoice stands without it.
func (s *Service) persistPDF(ctx context.Context, invoice repository.Invoice) {
	if s.store == nil {
		return
	}

	data, err := renderInvoicePDF(invoice, s.upiPayee)
	if err != nil {
		s.log.Warn("invoice pdf render failed", "invoiceId", invoice.ID, "error", err)
		return
	}

	key := fmt.Sprintf("invoices/%d/%s.pdf", time.Now().Year(), invoice.ID)
	if _, err := s.store.Upload(ctx, s.bucket, key, data, "application/pdf"); err != nil {
		s.log.Warn("invoice pdf upload failed", "invoiceId", invoice.ID, "error", err)
		return
	}
	if err := s.repo.SetInvoicePDFKey(ctx, invoice.ID, key); err != nil {
		s.log.Warn("invoice pdf key update failed", "invoiceId", invoice.ID, "error", err)
	}
}

// GenerateDriverPayment creates the booking's driver payment, or returns the
// existing one. Nothing is owed when allowance plus reimbursement is zero, in
// which case no document is created and a nil ID is returned.
func (s *Service) GenerateDriverPayment(ctx context.Context, summary ports.FinancialSummary) (*uuid.UUID, bool, error) {
	existing, err := s.repo.GetDriverPaymentByBooking(ctx, summary.BookingID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return &existing.ID, false, nil
	}

	total := summary.NightCharges + summary.DriverExpenseTotal
	if total <= 0 {
		return nil, false, nil
	}

	payment, err := s.repo.CreateDriverPayment(ctx, repository.CreateDriverPaymentParams{
		BookingID:      summary.BookingID,
		DriverName:     summary.DriverName,
		NightAllowance: summary.NightCharges,
		Reimbursement:  summary.DriverExpenseTotal,
		Total:          total,
	})
	if err != nil {
		return nil, false, err
	}
	return &payment.ID, true, nil
}

// GetInvoice retrieves an invoice by ID.
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (transport.InvoiceResponse, error) {
	invoice, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return transport.InvoiceResponse{}, err
	}
	return toInvoiceResponse(invoice), nil
}

// GetInvoicePDF returns the rendered invoice PDF bytes.
func (s *Service) GetInvoicePDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	invoice, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.store == nil || invoice.PDFObjectKey == nil {
		return nil, apperr.NotFound("invoice pdf not available")
	}
	return s.store.Download(ctx, s.bucket, *invoice.PDFObjectKey)
}

// GetDriverPayment retrieves a driver payment by ID.
func (s *Service) GetDriverPayment(ctx context.Context, id uuid.UUID) (transport.DriverPaymentResponse, error) {
	payment, err := s.repo.GetDriverPayment(ctx, id)
	if err != nil {
		return transport.DriverPaymentResponse{}, err
	}
	return toDriverPaymentResponse(payment), nil
}

func toInvoiceResponse(inv repository.Invoice) transport.InvoiceResponse {
	return transport.InvoiceResponse{
		ID:                inv.ID,
		BookingID:         inv.BookingID,
		CustomerID:        inv.CustomerID,
		CustomerName:      inv.CustomerName,
		PickupLocation:    inv.PickupLocation,
		DropLocation:      inv.DropLocation,
		GrandTotal:        inv.GrandTotal,
		CustomerPaidTotal: inv.CustomerPaidTotal,
		AmountPayable:     inv.AmountPayable,
		HasPDF:            inv.PDFObjectKey != nil,
		CreatedAt:         inv.CreatedAt,
	}
}

func toDriverPaymentResponse(p repository.DriverPayment) transport.DriverPaymentResponse {
	return transport.DriverPaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		DriverName:     p.DriverName,
		NightAllowance: p.NightAllowance,
		Reimbursement:  p.Reimbursement,
		Total:          p.Total,
		CreatedAt:      p.CreatedAt,
	}
}

// Compile-time check that Service implements the generator contract.
var _ ports.DocumentGenerator = (*Service)(nil)

package service

import (
	"context"

	"github.com/google/uuid"

	"tripdesk_backend/internal/bookings/domain"
	"tripdesk_backend/internal/bookings/ports"
	"tripdesk_backend/internal/bookings/transport"
	"tripdesk_backend/internal/events"
	"tripdesk_backend/platform/apperr"
)

// Finalize submits a booking: expenses flip to Submitted, totals are
// recomputed one last time, and the financial documents are generated
// invoice-first. Document generation is not transactional across the two
// documents; a failure in one is logged and reported without blocking the
// other. The whole sequence runs under a per-booking lock because the
// at-most-one checks are check-then-act.
func (s *Service) Finalize(ctx context.Context, bookingID uuid.UUID) (transport.FinalizeResponse, error) {
	var resp transport.FinalizeResponse
	run := func(ctx context.Context) error {
		var err error
		resp, err = s.finalizeLocked(ctx, bookingID)
		return err
	}

	if s.locker != nil {
		if err := s.locker.WithLock(ctx, bookingID, run); err != nil {
			return transport.FinalizeResponse{}, err
		}
		return resp, nil
	}
	if err := run(ctx); err != nil {
		return transport.FinalizeResponse{}, err
	}
	return resp, nil
}

func (s *Service) finalizeLocked(ctx context.Context, bookingID uuid.UUID) (transport.FinalizeResponse, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return transport.FinalizeResponse{}, err
	}
	if booking.Status == domain.StatusCancelled {
		return transport.FinalizeResponse{}, apperr.Conflict("cannot finalize a cancelled booking")
	}

	if err := s.repo.MarkExpensesSubmitted(ctx, bookingID); err != nil {
		return transport.FinalizeResponse{}, err
	}
	booking, err = s.recompute(ctx, booking)
	if err != nil {
		return transport.FinalizeResponse{}, err
	}

	summary := ports.FinancialSummary{
		BookingID:          booking.ID,
		CustomerID:         booking.CustomerID,
		CustomerName:       booking.CustomerName,
		PickupLocation:     booking.PickupLocation,
		DropLocation:       booking.DropLocation,
		GrandTotal:         booking.GrandTotal,
		NightCharges:       booking.NightCharges,
		DriverExpenseTotal: booking.DriverExpenseTotal,
		CustomerPaidTotal:  customerPaidTotal(ctx, s, booking.ID),
	}
	if booking.DriverName != nil {
		summary.DriverName = *booking.DriverName
	}

	resp := transport.FinalizeResponse{BookingID: booking.ID}

	// Invoice first, payment second. Each failure is isolated.
	invoiceID, created, err := s.docs.GenerateInvoice(ctx, summary)
	if err != nil {
		s.log.FinancialDocument("invoice", booking.ID.String(), err)
		resp.FailedDocuments = append(resp.FailedDocuments, "invoice")
	} else {
		resp.InvoiceID = &invoiceID
		resp.InvoiceCreated = created
		if err := s.repo.SetInvoiceRef(ctx, booking.ID, invoiceID); err != nil {
			return transport.FinalizeResponse{}, err
		}
		if err := s.repo.UpdateStatus(ctx, booking.ID, domain.StatusInvoiced); err != nil {
			return transport.FinalizeResponse{}, err
		}
		s.log.FinancialDocument("invoice", booking.ID.String(), nil)
	}

	paymentID, paymentCreated, err := s.docs.GenerateDriverPayment(ctx, summary)
	if err != nil {
		s.log.FinancialDocument("driver_payment", booking.ID.String(), err)
		resp.FailedDocuments = append(resp.FailedDocuments, "driver_payment")
	} else if paymentID == nil {
		resp.PaymentSkipped = true
	} else {
		resp.PaymentID = paymentID
		resp.PaymentCreated = paymentCreated
		if err := s.repo.SetDriverPaymentRef(ctx, booking.ID, *paymentID); err != nil {
			return transport.FinalizeResponse{}, err
		}
		s.log.FinancialDocument("driver_payment", booking.ID.String(), nil)
	}

	if len(resp.FailedDocuments) == 2 {
		return transport.FinalizeResponse{}, apperr.Internal("financial document generation failed")
	}

	refreshed, err := s.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return transport.FinalizeResponse{}, err
	}
	resp.Status = string(refreshed.Status)

	if s.bus != nil {
		failed := ""
		if len(resp.FailedDocuments) > 0 {
			failed = resp.FailedDocuments[0]
		}
		s.bus.Publish(ctx, events.BookingFinalized{
			BaseEvent:      events.NewBaseEvent(),
			BookingID:      booking.ID,
			InvoiceID:      resp.InvoiceID,
			PaymentID:      resp.PaymentID,
			FailedDocument: failed,
		})
	}

	return resp, nil
}

func customerPaidTotal(ctx context.Context, s *Service, bookingID uuid.UUID) float64 {
	expenses, err := s.repo.ListExpenses(ctx, bookingID)
	if err != nil {
		s.log.DatabaseError("list expenses for invoice", err)
		return 0
	}
	totals := domain.AggregateExpenses(expenses, true)
	return totals.CustomerPaid
}

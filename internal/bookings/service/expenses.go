package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tripdesk_backend/internal/bookings/domain"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/transport"
	"tripdesk_backend/platform/apperr"
)

// AddExpense links an expense to a booking and recomputes its totals before
// returning. Toll and Parking default to billable unless overridden.
func (s *Service) AddExpense(ctx context.Context, bookingID uuid.UUID, req transport.CreateExpenseRequest) (transport.ExpenseResponse, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return transport.ExpenseResponse{}, err
	}
	if booking.Status == domain.StatusCancelled {
		return transport.ExpenseResponse{}, apperr.Conflict("cannot add expenses to a cancelled booking")
	}

	expenseType := strings.TrimSpace(req.Type)
	billable := domain.BillableByDefault(expenseType)
	if req.IsBillable != nil {
		billable = *req.IsBillable
	}

	expense, err := s.repo.CreateExpense(ctx, repository.CreateExpenseParams{
		BookingID:  bookingID,
		Type:       expenseType,
		Amount:     req.Amount,
		Payer:      domain.Payer(req.Payer),
		IsBillable: billable,
		Status:     domain.ExpensePending,
	})
	if err != nil {
		return transport.ExpenseResponse{}, err
	}

	if _, err := s.recompute(ctx, booking); err != nil {
		return transport.ExpenseResponse{}, err
	}

	s.log.Info("expense added", "bookingId", bookingID, "type", expense.Type, "amount", expense.Amount)
	return toExpenseResponse(expense), nil
}

// UpdateExpense amends an expense and recomputes the owning booking.
func (s *Service) UpdateExpense(ctx context.Context, id uuid.UUID, req transport.UpdateExpenseRequest) (transport.ExpenseResponse, error) {
	var payer *domain.Payer
	if req.Payer != nil {
		p := domain.Payer(*req.Payer)
		payer = &p
	}

	expense, err := s.repo.UpdateExpense(ctx, repository.UpdateExpenseParams{
		ID:         id,
		Type:       req.Type,
		Amount:     req.Amount,
		Payer:      payer,
		IsBillable: req.IsBillable,
	})
	if err != nil {
		return transport.ExpenseResponse{}, err
	}

	booking, err := s.repo.GetBooking(ctx, expense.BookingID)
	if err != nil {
		return transport.ExpenseResponse{}, err
	}
	if _, err := s.recompute(ctx, booking); err != nil {
		return transport.ExpenseResponse{}, err
	}

	return toExpenseResponse(expense), nil
}

// DeleteExpense removes an expense and recomputes the owning booking.
func (s *Service) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	bookingID, err := s.repo.DeleteExpense(ctx, id)
	if err != nil {
		return err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if _, err := s.recompute(ctx, booking); err != nil {
		return err
	}

	s.log.Info("expense deleted", "id", id, "bookingId", bookingID)
	return nil
}

// ListExpenses returns a booking's linked expenses.
func (s *Service) ListExpenses(ctx context.Context, bookingID uuid.UUID) ([]transport.ExpenseResponse, error) {
	expenses, err := s.repo.ListExpenses(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = toExpenseResponse(e)
	}
	return responses, nil
}

// AddTaxLine attaches a flat tax amount and recomputes.
func (s *Service) AddTaxLine(ctx context.Context, bookingID uuid.UUID, req transport.AddTaxLineRequest) (transport.TaxLineResponse, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return transport.TaxLineResponse{}, err
	}

	line, err := s.repo.AddTaxLine(ctx, bookingID, strings.TrimSpace(req.Label), req.Amount)
	if err != nil {
		return transport.TaxLineResponse{}, err
	}

	if _, err := s.recompute(ctx, booking); err != nil {
		return transport.TaxLineResponse{}, err
	}

	return toTaxLineResponse(line), nil
}

// DeleteTaxLine removes a tax line and recomputes.
func (s *Service) DeleteTaxLine(ctx context.Context, id uuid.UUID) error {
	bookingID, err := s.repo.DeleteTaxLine(ctx, id)
	if err != nil {
		return err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if _, err := s.recompute(ctx, booking); err != nil {
		return err
	}
	return nil
}

// ListTaxLines returns a booking's tax lines.
func (s *Service) ListTaxLines(ctx context.Context, bookingID uuid.UUID) ([]transport.TaxLineResponse, error) {
	lines, err := s.repo.ListTaxLines(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.TaxLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = toTaxLineResponse(line)
	}
	return responses, nil
}

func toExpenseResponse(e domain.Expense) transport.ExpenseResponse {
	return transport.ExpenseResponse{
		ID:         e.ID,
		BookingID:  e.BookingID,
		Type:       e.Type,
		Amount:     e.Amount,
		Payer:      string(e.Payer),
		IsBillable: e.IsBillable,
		Status:     string(e.Status),
	}
}

func toTaxLineResponse(line repository.TaxLine) transport.TaxLineResponse {
	return transport.TaxLineResponse{
		ID:        line.ID,
		BookingID: line.BookingID,
		Label:     line.Label,
		Amount:    line.Amount,
	}
}

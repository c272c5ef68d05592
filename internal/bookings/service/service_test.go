package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"tripdesk_backend/internal/bookings/domain"
	"tripdesk_backend/internal/bookings/ports"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/transport"
	fleetrepo "tripdesk_backend/internal/fleet/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

// fakeRepo is an in-memory bookings repository.
type fakeRepo struct {
	bookings map[uuid.UUID]repository.Booking
	expenses map[uuid.UUID]domain.Expense
	taxLines map[uuid.UUID]repository.TaxLine
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[uuid.UUID]repository.Booking),
		expenses: make(map[uuid.UUID]domain.Expense),
		taxLines: make(map[uuid.UUID]repository.TaxLine),
	}
}

func (f *fakeRepo) CreateBooking(_ context.Context, params repository.CreateBookingParams) (repository.Booking, error) {
	b := repository.Booking{
		ID:             uuid.New(),
		TripKind:       params.TripKind,
		CustomerID:     params.CustomerID,
		CustomerName:   params.CustomerName,
		VehicleClassID: params.VehicleClassID,
		VehicleModel:   params.VehicleModel,
		PickupLocation: params.PickupLocation,
		DropLocation:   params.DropLocation,
		PickupAt:       params.PickupAt,
		ReturnAt:       params.ReturnAt,
		Rates:          params.Rates,
		Status:         domain.StatusPending,
	}
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeRepo) GetBooking(_ context.Context, id uuid.UUID) (repository.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return repository.Booking{}, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (f *fakeRepo) ListBookings(_ context.Context, _ repository.ListBookingsParams) ([]repository.Booking, int, error) {
	items := make([]repository.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		items = append(items, b)
	}
	return items, len(items), nil
}

func (f *fakeRepo) UpdateTripDetails(_ context.Context, params repository.UpdateTripDetailsParams) (repository.Booking, error) {
	b, ok := f.bookings[params.ID]
	if !ok {
		return repository.Booking{}, apperr.NotFound("booking not found")
	}
	if params.PickupAt != nil {
		b.PickupAt = params.PickupAt
	}
	if params.ReturnAt != nil {
		b.ReturnAt = params.ReturnAt
	}
	if params.StartOdometer != nil {
		b.StartOdometer = params.StartOdometer
	}
	if params.EndOdometer != nil {
		b.EndOdometer = params.EndOdometer
	}
	if params.ManualNights != nil {
		b.ManualNights = *params.ManualNights
	}
	if params.Discount != nil {
		b.Discount = *params.Discount
	}
	if params.ChargeableKm != nil {
		b.ChargeableKm = *params.ChargeableKm
	}
	if params.ChargeableKmOverridden != nil {
		b.ChargeableKmOverridden = *params.ChargeableKmOverridden
	}
	if params.DriverName != nil {
		b.DriverName = params.DriverName
	}
	f.bookings[params.ID] = b
	return b, nil
}

func (f *fakeRepo) SaveComputed(_ context.Context, id uuid.UUID, fields repository.ComputedFields) error {
	b, ok := f.bookings[id]
	if !ok {
		return apperr.NotFound("booking not found")
	}
	b.Days = fields.Days
	b.Nights = fields.Nights
	b.TotalKm = fields.TotalKm
	b.ChargeableKm = fields.ChargeableKm
	b.BaseAmount = fields.BaseAmount
	b.ExtraHourCharges = fields.ExtraHourCharges
	b.ExtraKmCharges = fields.ExtraKmCharges
	b.NightCharges = fields.NightCharges
	b.ExpenseTotal = fields.ExpenseTotal
	b.BillableExpenseTotal = fields.BillableExpenseTotal
	b.DriverExpenseTotal = fields.DriverExpenseTotal
	b.TaxTotal = fields.TaxTotal
	b.NetTotal = fields.NetTotal
	b.GrossTotal = fields.GrossTotal
	b.GrandTotal = fields.GrandTotal
	f.bookings[id] = b
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return apperr.NotFound("booking not found")
	}
	b.Status = status
	f.bookings[id] = b
	return nil
}

func (f *fakeRepo) SetInvoiceRef(_ context.Context, id uuid.UUID, invoiceID uuid.UUID) error {
	b := f.bookings[id]
	b.InvoiceID = &invoiceID
	f.bookings[id] = b
	return nil
}

func (f *fakeRepo) SetDriverPaymentRef(_ context.Context, id uuid.UUID, paymentID uuid.UUID) error {
	b := f.bookings[id]
	b.DriverPaymentID = &paymentID
	f.bookings[id] = b
	return nil
}

func (f *fakeRepo) ListExpenses(_ context.Context, bookingID uuid.UUID) ([]domain.Expense, error) {
	items := make([]domain.Expense, 0)
	for _, e := range f.expenses {
		if e.BookingID == bookingID {
			items = append(items, e)
		}
	}
	return items, nil
}

func (f *fakeRepo) CreateExpense(_ context.Context, params repository.CreateExpenseParams) (domain.Expense, error) {
	e := domain.Expense{
		ID:         uuid.New(),
		BookingID:  params.BookingID,
		Type:       params.Type,
		Amount:     params.Amount,
		Payer:      params.Payer,
		IsBillable: params.IsBillable,
		Status:     params.Status,
	}
	f.expenses[e.ID] = e
	return e, nil
}

func (f *fakeRepo) UpdateExpense(_ context.Context, params repository.UpdateExpenseParams) (domain.Expense, error) {
	e, ok := f.expenses[params.ID]
	if !ok {
		return domain.Expense{}, apperr.NotFound("expense not found")
	}
	if params.Type != nil {
		e.Type = *params.Type
	}
	if params.Amount != nil {
		e.Amount = *params.Amount
	}
	if params.Payer != nil {
		e.Payer = *params.Payer
	}
	if params.IsBillable != nil {
		e.IsBillable = *params.IsBillable
	}
	f.expenses[params.ID] = e
	return e, nil
}

func (f *fakeRepo) DeleteExpense(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	e, ok := f.expenses[id]
	if !ok {
		return uuid.Nil, apperr.NotFound("expense not found")
	}
	delete(f.expenses, id)
	return e.BookingID, nil
}

func (f *fakeRepo) MarkExpensesSubmitted(_ context.Context, bookingID uuid.UUID) error {
	for id, e := range f.expenses {
		if e.BookingID == bookingID && e.Status == domain.ExpensePending {
			e.Status = domain.ExpenseSubmitted
			f.expenses[id] = e
		}
	}
	return nil
}

func (f *fakeRepo) ListTaxLines(_ context.Context, bookingID uuid.UUID) ([]repository.TaxLine, error) {
	items := make([]repository.TaxLine, 0)
	for _, line := range f.taxLines {
		if line.BookingID == bookingID {
			items = append(items, line)
		}
	}
	return items, nil
}

func (f *fakeRepo) AddTaxLine(_ context.Context, bookingID uuid.UUID, label string, amount float64) (repository.TaxLine, error) {
	line := repository.TaxLine{ID: uuid.New(), BookingID: bookingID, Label: label, Amount: amount}
	f.taxLines[line.ID] = line
	return line, nil
}

func (f *fakeRepo) DeleteTaxLine(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	line, ok := f.taxLines[id]
	if !ok {
		return uuid.Nil, apperr.NotFound("tax line not found")
	}
	delete(f.taxLines, id)
	return line.BookingID, nil
}

// fakeResolver always returns one fixed rate card.
type fakeResolver struct {
	class fleetrepo.VehicleClass
	err   error
}

func (f *fakeResolver) Resolve(_ context.Context, _ string, _ int) (fleetrepo.VehicleClass, error) {
	return f.class, f.err
}

func (f *fakeResolver) AutoAssign(_ context.Context, _ int) (fleetrepo.VehicleClass, error) {
	return f.class, f.err
}

// fakeDocs records generator calls and can fail per document.
type fakeDocs struct {
	invoiceErr  error
	paymentErr  error
	skipPayment bool
	calls       []string
	invoiceID   uuid.UUID
	paymentID   uuid.UUID
}

func (f *fakeDocs) GenerateInvoice(_ context.Context, _ ports.FinancialSummary) (uuid.UUID, bool, error) {
	f.calls = append(f.calls, "invoice")
	if f.invoiceErr != nil {
		return uuid.Nil, false, f.invoiceErr
	}
	if f.invoiceID == uuid.Nil {
		f.invoiceID = uuid.New()
	}
	return f.invoiceID, true, nil
}

func (f *fakeDocs) GenerateDriverPayment(_ context.Context, _ ports.FinancialSummary) (*uuid.UUID, bool, error) {
	f.calls = append(f.calls, "payment")
	if f.paymentErr != nil {
		return nil, false, f.paymentErr
	}
	if f.skipPayment {
		return nil, false, nil
	}
	if f.paymentID == uuid.Nil {
		f.paymentID = uuid.New()
	}
	return &f.paymentID, true, nil
}

type fakeBillingCfg struct{ includePending bool }

func (f fakeBillingCfg) GetIncludePendingExpenses() bool { return f.includePending }
func (f fakeBillingCfg) GetUPIPayee() string             { return "" }

func outstationClass() fleetrepo.VehicleClass {
	return fleetrepo.VehicleClass{
		ID:          uuid.New(),
		Category:    "sedan",
		ModelName:   "Dzire",
		PerKmRate:   15,
		NightRate:   250,
		MinKmPerDay: 250,
	}
}

func newBookingService(repo *fakeRepo, docs *fakeDocs) *Service {
	return New(repo, &fakeResolver{class: outstationClass()}, docs, nil, nil,
		fakeBillingCfg{includePending: true}, logger.New("development"))
}

func createOutstationBooking(t *testing.T, svc *Service) transport.BookingResponse {
	t.Helper()
	pickup := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	ret := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	resp, err := svc.CreateBooking(context.Background(), transport.CreateBookingRequest{
		TripKind:       "Outstation",
		CustomerName:   "Asha Verma",
		VehicleChoice:  "sedan",
		Passengers:     2,
		PickupLocation: "Indore",
		DropLocation:   "Bhopal",
		PickupAt:       &pickup,
		ReturnAt:       &ret,
	})
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	return resp
}

func TestRecomputeCascadeOnOdometer(t *testing.T) {
	repo := newFakeRepo()
	svc := newBookingService(repo, &fakeDocs{})
	booking := createOutstationBooking(t, svc)

	start, end := 1000.0, 1450.0
	updated, err := svc.UpdateTripDetails(context.Background(), booking.ID, transport.UpdateTripDetailsRequest{
		StartOdometer: &start,
		EndOdometer:   &end,
	})
	if err != nil {
		t.Fatalf("UpdateTripDetails() error = %v", err)
	}

	if updated.Days != 2 || updated.Nights != 1 {
		t.Fatalf("days/nights = %d/%d, want 2/1", updated.Days, updated.Nights)
	}
	if updated.ChargeableKm != 500 {
		t.Fatalf("ChargeableKm = %v, want 500", updated.ChargeableKm)
	}
	if updated.GrandTotal != 7750 {
		t.Fatalf("GrandTotal = %v, want 7750", updated.GrandTotal)
	}
}

func TestRecomputeCascadeOnExpenseChange(t *testing.T) {
	repo := newFakeRepo()
	svc := newBookingService(repo, &fakeDocs{})
	booking := createOutstationBooking(t, svc)

	start, end := 1000.0, 1450.0
	if _, err := svc.UpdateTripDetails(context.Background(), booking.ID, transport.UpdateTripDetailsRequest{
		StartOdometer: &start, EndOdometer: &end,
	}); err != nil {
		t.Fatalf("UpdateTripDetails() error = %v", err)
	}

	expense, err := svc.AddExpense(context.Background(), booking.ID, transport.CreateExpenseRequest{
		Type: "Toll", Amount: 200, Payer: "Driver",
	})
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if !expense.IsBillable {
		t.Fatal("Toll expense must default to billable")
	}

	after, err := svc.GetBooking(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("GetBooking() error = %v", err)
	}
	if after.GrandTotal != 7950 {
		t.Fatalf("GrandTotal after toll = %v, want 7950", after.GrandTotal)
	}
	if after.DriverExpenseTotal != 200 {
		t.Fatalf("DriverExpenseTotal = %v, want 200", after.DriverExpenseTotal)
	}

	if err := svc.DeleteExpense(context.Background(), expense.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	final, _ := svc.GetBooking(context.Background(), booking.ID)
	if final.GrandTotal != 7750 {
		t.Fatalf("GrandTotal after delete = %v, want 7750", final.GrandTotal)
	}
}

func TestRecomputeCascadeOnTaxAndDiscount(t *testing.T) {
	repo := newFakeRepo()
	svc := newBookingService(repo, &fakeDocs{})
	booking := createOutstationBooking(t, svc)

	start, end := 1000.0, 1450.0
	if _, err := svc.UpdateTripDetails(context.Background(), booking.ID, transport.UpdateTripDetailsRequest{
		StartOdometer: &start, EndOdometer: &end,
	}); err != nil {
		t.Fatalf("UpdateTripDetails() error = %v", err)
	}

	if _, err := svc.AddTaxLine(context.Background(), booking.ID, transport.AddTaxLineRequest{
		Label: "GST", Amount: 150,
	}); err != nil {
		t.Fatalf("AddTaxLine() error = %v", err)
	}

	discount := 100.0
	updated, err := svc.UpdateTripDetails(context.Background(), booking.ID, transport.UpdateTripDetailsRequest{
		Discount: &discount,
	})
	if err != nil {
		t.Fatalf("UpdateTripDetails() error = %v", err)
	}

	// 7750 + 150 tax - 100 discount
	if updated.GrandTotal != 7800 {
		t.Fatalf("GrandTotal = %v, want 7800", updated.GrandTotal)
	}
}

func TestFinalizeGeneratesDocumentsInvoiceFirst(t *testing.T) {
	repo := newFakeRepo()
	docs := &fakeDocs{}
	svc := newBookingService(repo, docs)
	booking := createOutstationBooking(t, svc)

	resp, err := svc.Finalize(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if len(docs.calls) != 2 || docs.calls[0] != "invoice" || docs.calls[1] != "payment" {
		t.Fatalf("generator call order = %v, want [invoice payment]", docs.calls)
	}
	if resp.InvoiceID == nil || !resp.InvoiceCreated {
		t.Fatal("expected invoice to be created")
	}
	if resp.Status != string(domain.StatusInvoiced) {
		t.Fatalf("status = %s, want Invoiced", resp.Status)
	}

	after, _ := svc.GetBooking(context.Background(), booking.ID)
	if after.InvoiceID == nil {
		t.Fatal("invoice ref not linked on booking")
	}
}

func TestFinalizeMarksExpensesSubmitted(t *testing.T) {
	repo := newFakeRepo()
	svc := newBookingService(repo, &fakeDocs{})
	booking := createOutstationBooking(t, svc)

	if _, err := svc.AddExpense(context.Background(), booking.ID, transport.CreateExpenseRequest{
		Type: "Parking", Amount: 50, Payer: "Driver",
	}); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	if _, err := svc.Finalize(context.Background(), booking.ID); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	expenses, _ := svc.ListExpenses(context.Background(), booking.ID)
	for _, e := range expenses {
		if e.Status != string(domain.ExpenseSubmitted) {
			t.Fatalf("expense %s status = %s, want Submitted", e.ID, e.Status)
		}
	}
}

func TestFinalizeInvoiceFailureDoesNotBlockPayment(t *testing.T) {
	repo := newFakeRepo()
	docs := &fakeDocs{invoiceErr: fmt.Errorf("store unavailable")}
	svc := newBookingService(repo, docs)
	booking := createOutstationBooking(t, svc)

	resp, err := svc.Finalize(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("Finalize() error = %v, want partial success", err)
	}

	if len(docs.calls) != 2 {
		t.Fatalf("generator calls = %v, want both attempted", docs.calls)
	}
	if len(resp.FailedDocuments) != 1 || resp.FailedDocuments[0] != "invoice" {
		t.Fatalf("FailedDocuments = %v, want [invoice]", resp.FailedDocuments)
	}
	if resp.PaymentID == nil {
		t.Fatal("driver payment should still be generated")
	}
	// Booking must not move to Invoiced without an invoice.
	if resp.Status == string(domain.StatusInvoiced) {
		t.Fatal("booking must not be Invoiced when invoice generation failed")
	}
}

func TestFinalizePaymentFailureDoesNotBlockInvoice(t *testing.T) {
	repo := newFakeRepo()
	docs := &fakeDocs{paymentErr: fmt.Errorf("store unavailable")}
	svc := newBookingService(repo, docs)
	booking := createOutstationBooking(t, svc)

	resp, err := svc.Finalize(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("Finalize() error = %v, want partial success", err)
	}
	if resp.InvoiceID == nil {
		t.Fatal("invoice should be generated despite payment failure")
	}
	if len(resp.FailedDocuments) != 1 || resp.FailedDocuments[0] != "driver_payment" {
		t.Fatalf("FailedDocuments = %v, want [driver_payment]", resp.FailedDocuments)
	}
}

func TestFinalizeBothDocumentsFailing(t *testing.T) {
	repo := newFakeRepo()
	docs := &fakeDocs{invoiceErr: fmt.Errorf("down"), paymentErr: fmt.Errorf("down")}
	svc := newBookingService(repo, docs)
	booking := createOutstationBooking(t, svc)

	if _, err := svc.Finalize(context.Background(), booking.ID); err == nil {
		t.Fatal("Finalize() must fail when no document could be generated")
	}
}

func TestFinalizeSkipsZeroDriverPayment(t *testing.T) {
	repo := newFakeRepo()
	docs := &fakeDocs{skipPayment: true}
	svc := newBookingService(repo, docs)
	booking := createOutstationBooking(t, svc)

	resp, err := svc.Finalize(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !resp.PaymentSkipped {
		t.Fatal("expected driver payment to be skipped")
	}
	if resp.PaymentID != nil {
		t.Fatal("no payment id expected when nothing is owed")
	}
}

func TestGrandTotalNeverAcceptedFromInput(t *testing.T) {
	repo := newFakeRepo()
	svc := newBookingService(repo, &fakeDocs{})
	booking := createOutstationBooking(t, svc)

	// Tamper with the stored grand total directly; any recompute input change
	// must overwrite it.
	b := repo.bookings[booking.ID]
	b.GrandTotal = 999999
	repo.bookings[booking.ID] = b

	start, end := 1000.0, 1450.0
	updated, err := svc.UpdateTripDetails(context.Background(), booking.ID, transport.UpdateTripDetailsRequest{
		StartOdometer: &start, EndOdometer: &end,
	})
	if err != nil {
		t.Fatalf("UpdateTripDetails() error = %v", err)
	}
	if updated.GrandTotal != 7750 {
		t.Fatalf("GrandTotal = %v, want recomputed 7750", updated.GrandTotal)
	}
}

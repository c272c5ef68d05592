package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tripdesk_backend/internal/bookings/domain"
	"tripdesk_backend/internal/bookings/ports"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/transport"
	"tripdesk_backend/internal/events"
	fleetrepo "tripdesk_backend/internal/fleet/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
)

// Service provides business logic for bookings. Every mutation of a
// recompute input ends with a synchronous full recompute; grand totals are
// never accepted from callers.
type Service struct {
	repo     repository.Repository
	resolver ports.VehicleResolver
	docs     ports.DocumentGenerator
	locker   ports.FinalizeLocker
	bus      events.Bus
	cfg      config.BillingConfig
	log      *logger.Logger
}

// New creates a new bookings service.
func New(
	repo repository.Repository,
	resolver ports.VehicleResolver,
	docs ports.DocumentGenerator,
	locker ports.FinalizeLocker,
	bus events.Bus,
	cfg config.BillingConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		docs:     docs,
		locker:   locker,
		bus:      bus,
		cfg:      cfg,
		log:      log,
	}
}

// CreateBooking resolves the vehicle, snapshots its rates onto a new Pending
// booking, and runs the first recompute.
func (s *Service) CreateBooking(ctx context.Context, req transport.CreateBookingRequest) (transport.BookingResponse, error) {
	passengers := req.Passengers
	if passengers < 1 {
		passengers = 1
	}

	vc, err := s.resolveVehicle(ctx, strings.TrimSpace(req.VehicleChoice), passengers)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	rates := domain.Rates{
		PerKm:       vc.PerKmRate,
		PerHour:     vc.LocalHourRate,
		Night:       vc.NightRate,
		LocalPerKm:  vc.LocalKmRate,
		MinHours:    vc.MinLocalHours,
		MinKm:       vc.MinLocalKm,
		MinKmPerDay: vc.MinKmPerDay,
	}

	booking, err := s.repo.CreateBooking(ctx, repository.CreateBookingParams{
		TripKind:       domain.TripKind(req.TripKind),
		CustomerID:     req.CustomerID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		VehicleClassID: &vc.ID,
		VehicleModel:   vc.ModelName,
		PickupLocation: strings.TrimSpace(req.PickupLocation),
		DropLocation:   strings.TrimSpace(req.DropLocation),
		PickupAt:       req.PickupAt,
		ReturnAt:       req.ReturnAt,
		Rates:          rates,
	})
	if err != nil {
		return transport.BookingResponse{}, err
	}

	booking, err = s.recompute(ctx, booking)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	s.log.Info("booking created", "id", booking.ID, "kind", booking.TripKind, "vehicle", booking.VehicleModel)
	return toBookingResponse(booking), nil
}

func (s *Service) resolveVehicle(ctx context.Context, choice string, passengers int) (fleetrepo.VehicleClass, error) {
	if choice != "" {
		return s.resolver.Resolve(ctx, choice, passengers)
	}
	return s.resolver.AutoAssign(ctx, passengers)
}

// GetBooking retrieves a booking by ID.
func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (transport.BookingResponse, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	return toBookingResponse(booking), nil
}

// ListBookings lists bookings, optionally scoped to one customer.
func (s *Service) ListBookings(ctx context.Context, customerID *uuid.UUID, req transport.ListBookingsRequest) (transport.BookingListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}

	items, total, err := s.repo.ListBookings(ctx, repository.ListBookingsParams{
		CustomerID: customerID,
		Status:     req.Status,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return transport.BookingListResponse{}, err
	}

	responses := make([]transport.BookingResponse, len(items))
	for i, b := range items {
		responses[i] = toBookingResponse(b)
	}
	return transport.BookingListResponse{Items: responses, Total: total, Page: page, Limit: limit}, nil
}

// UpdateTripDetails patches recompute inputs (timestamps, odometer, nights,
// discount, chargeable-km override) and recomputes before returning.
func (s *Service) UpdateTripDetails(ctx context.Context, id uuid.UUID, req transport.UpdateTripDetailsRequest) (transport.BookingResponse, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	if booking.Status == domain.StatusInvoiced || booking.Status == domain.StatusCancelled {
		return transport.BookingResponse{}, apperr.Conflict("booking is closed and can no longer be edited")
	}

	booking, err = s.repo.UpdateTripDetails(ctx, repository.UpdateTripDetailsParams{
		ID:                     id,
		PickupAt:               req.PickupAt,
		ReturnAt:               req.ReturnAt,
		StartOdometer:          req.StartOdometer,
		EndOdometer:            req.EndOdometer,
		ManualNights:           req.Nights,
		Discount:               req.Discount,
		ChargeableKm:           req.ChargeableKm,
		ChargeableKmOverridden: req.ChargeableKmOverridden,
		DriverName:             req.DriverName,
	})
	if err != nil {
		return transport.BookingResponse{}, err
	}

	booking, err = s.recompute(ctx, booking)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	return toBookingResponse(booking), nil
}

// UpdateStatus moves a booking through its lifecycle (excluding Invoiced,
// which only finalize may set).
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (transport.BookingResponse, error) {
	next := domain.Status(status)
	switch next {
	case domain.StatusConfirmed, domain.StatusOngoing, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return transport.BookingResponse{}, apperr.Validation("invalid status transition")
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return transport.BookingResponse{}, err
	}
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	return toBookingResponse(booking), nil
}

// recompute reruns the full charge/expense/tax/total pipeline and persists
// the result. It returns the refreshed booking.
func (s *Service) recompute(ctx context.Context, booking repository.Booking) (repository.Booking, error) {
	expenses, err := s.repo.ListExpenses(ctx, booking.ID)
	if err != nil {
		return repository.Booking{}, err
	}
	taxLines, err := s.repo.ListTaxLines(ctx, booking.ID)
	if err != nil {
		return repository.Booking{}, err
	}

	charges := domain.ComputeCharges(domain.ChargeInputs{
		Kind:                   booking.TripKind,
		PickupAt:               booking.PickupAt,
		ReturnAt:               booking.ReturnAt,
		StartOdometer:          booking.StartOdometer,
		EndOdometer:            booking.EndOdometer,
		Nights:                 booking.ManualNights,
		ChargeableKm:           booking.ChargeableKm,
		ChargeableKmOverridden: booking.ChargeableKmOverridden,
		Rates:                  booking.Rates,
	})

	expenseTotals := domain.AggregateExpenses(expenses, s.cfg.GetIncludePendingExpenses())

	var taxTotal float64
	for _, line := range taxLines {
		taxTotal += line.Amount
	}

	totals := domain.ComposeTotals(charges, expenseTotals, taxTotal, booking.Discount)

	fields := repository.ComputedFields{
		Days:                 charges.Days,
		Nights:               charges.Nights,
		TotalKm:              charges.TotalKm,
		ChargeableKm:         charges.ChargeableKm,
		BaseAmount:           charges.BaseAmount,
		ExtraHourCharges:     charges.ExtraHourCharges,
		ExtraKmCharges:       charges.ExtraKmCharges,
		NightCharges:         charges.NightCharges,
		ExpenseTotal:         expenseTotals.Total,
		BillableExpenseTotal: expenseTotals.Billable,
		DriverExpenseTotal:   expenseTotals.Driver,
		TaxTotal:             totals.TaxTotal,
		NetTotal:             totals.NetTotal,
		GrossTotal:           totals.GrossTotal,
		GrandTotal:           totals.GrandTotal,
	}
	if err := s.repo.SaveComputed(ctx, booking.ID, fields); err != nil {
		return repository.Booking{}, err
	}

	return s.repo.GetBooking(ctx, booking.ID)
}

func toBookingResponse(b repository.Booking) transport.BookingResponse {
	return transport.BookingResponse{
		ID:             b.ID,
		TripKind:       string(b.TripKind),
		CustomerID:     b.CustomerID,
		CustomerName:   b.CustomerName,
		DriverName:     b.DriverName,
		VehicleClassID: b.VehicleClassID,
		VehicleModel:   b.VehicleModel,
		PickupLocation: b.PickupLocation,
		DropLocation:   b.DropLocation,
		PickupAt:       b.PickupAt,
		ReturnAt:       b.ReturnAt,
		StartOdometer:  b.StartOdometer,
		EndOdometer:    b.EndOdometer,

		Days:                   b.Days,
		Nights:                 b.Nights,
		TotalKm:                b.TotalKm,
		ChargeableKm:           b.ChargeableKm,
		ChargeableKmOverridden: b.ChargeableKmOverridden,
		BaseAmount:             b.BaseAmount,
		ExtraHourCharges:       b.ExtraHourCharges,
		ExtraKmCharges:         b.ExtraKmCharges,
		NightCharges:           b.NightCharges,
		ExpenseTotal:           b.ExpenseTotal,
		BillableExpenseTotal:   b.BillableExpenseTotal,
		DriverExpenseTotal:     b.DriverExpenseTotal,
		TaxTotal:               b.TaxTotal,
		NetTotal:               b.NetTotal,
		GrossTotal:             b.GrossTotal,
		GrandTotal:             b.GrandTotal,
		Discount:               b.Discount,

		Status:          string(b.Status),
		InvoiceID:       b.InvoiceID,
		DriverPaymentID: b.DriverPaymentID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

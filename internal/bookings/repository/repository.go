package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/internal/bookings/domain"
	"tripdesk_backend/platform/apperr"
)

const (
	bookingNotFoundMessage = "booking not found"
	expenseNotFoundMessage = "expense not found"
	taxLineNotFoundMessage = "tax line not found"
)

// Repo implements the bookings repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new bookings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const bookingColumns = `
	id, trip_kind, customer_id, customer_name, driver_name,
	vehicle_class_id, vehicle_model, pickup_location, drop_location,
	pickup_at, return_at, start_odometer, end_odometer, manual_nights,
	per_km_rate, per_hour_rate, night_rate, local_per_km_rate,
	min_hours, min_km, min_km_per_day,
	days, nights, total_km, chargeable_km, chargeable_km_overridden,
	base_amount, extra_hour_charges, extra_km_charges, night_charges,
	expense_total, billable_expense_total, driver_expense_total,
	tax_total, net_total, gross_total, grand_total, discount,
	status, invoice_id, driver_payment_id, created_at, updated_at`

// CreateBooking inserts a new Pending booking with snapshotted rates.
func (r *Repo) CreateBooking(ctx context.Context, params CreateBookingParams) (Booking, error) {
	query := `
		INSERT INTO bookings (
			trip_kind, customer_id, customer_name, vehicle_class_id, vehicle_model,
			pickup_location, drop_location, pickup_at, return_at,
			per_km_rate, per_hour_rate, night_rate, local_per_km_rate,
			min_hours, min_km, min_km_per_day, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING` + bookingColumns

	row := r.pool.QueryRow(ctx, query,
		params.TripKind, params.CustomerID, params.CustomerName, params.VehicleClassID, params.VehicleModel,
		params.PickupLocation, params.DropLocation, params.PickupAt, params.ReturnAt,
		params.Rates.PerKm, params.Rates.PerHour, params.Rates.Night, params.Rates.LocalPerKm,
		params.Rates.MinHours, params.Rates.MinKm, params.Rates.MinKmPerDay, domain.StatusPending,
	)
	booking, err := scanBooking(row)
	if err != nil {
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (r *Repo) GetBooking(ctx context.Context, id uuid.UUID) (Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// ListBookings lists bookings with filters and pagination, newest first.
func (r *Repo) ListBookings(ctx context.Context, params ListBookingsParams) ([]Booking, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.CustomerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("customer_id = $%d", argIdx))
		args = append(args, *params.CustomerID)
		argIdx++
	}
	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookings WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, params.Offset)
	query := fmt.Sprintf(`SELECT%s FROM bookings WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	items := make([]Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		items = append(items, booking)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate bookings: %w", rows.Err())
	}

	return items, total, nil
}

// UpdateTripDetails patches recompute inputs and returns the updated row.
func (r *Repo) UpdateTripDetails(ctx context.Context, params UpdateTripDetailsParams) (Booking, error) {
	query := `
		UPDATE bookings
		SET pickup_at = COALESCE($2, pickup_at),
			return_at = COALESCE($3, return_at),
			start_odometer = COALESCE($4, start_odometer),
			end_odometer = COALESCE($5, end_odometer),
			manual_nights = COALESCE($6, manual_nights),
			discount = COALESCE($7, discount),
			chargeable_km = COALESCE($8, chargeable_km),
			chargeable_km_overridden = COALESCE($9, chargeable_km_overridden),
			driver_name = COALESCE($10, driver_name),
			updated_at = now()
		WHERE id = $1
		RETURNING` + bookingColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.PickupAt, params.ReturnAt, params.StartOdometer, params.EndOdometer,
		params.ManualNights, params.Discount, params.ChargeableKm, params.ChargeableKmOverridden,
		params.DriverName,
	)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("update trip details: %w", err)
	}
	return booking, nil
}

// SaveComputed writes the recomputed fare fields.
func (r *Repo) SaveComputed(ctx context.Context, id uuid.UUID, fields ComputedFields) error {
	query := `
		UPDATE bookings
		SET days = $2, nights = $3, total_km = $4, chargeable_km = $5,
			base_amount = $6, extra_hour_charges = $7, extra_km_charges = $8, night_charges = $9,
			expense_total = $10, billable_expense_total = $11, driver_expense_total = $12,
			tax_total = $13, net_total = $14, gross_total = $15, grand_total = $16,
			updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id,
		fields.Days, fields.Nights, fields.TotalKm, fields.ChargeableKm,
		fields.BaseAmount, fields.ExtraHourCharges, fields.ExtraKmCharges, fields.NightCharges,
		fields.ExpenseTotal, fields.BillableExpenseTotal, fields.DriverExpenseTotal,
		fields.TaxTotal, fields.NetTotal, fields.GrossTotal, fields.GrandTotal,
	)
	if err != nil {
		return fmt.Errorf("save computed fields: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(bookingNotFoundMessage)
	}
	return nil
}

// UpdateStatus moves a booking through its lifecycle.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	result, err := r.pool.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(bookingNotFoundMessage)
	}
	return nil
}

// SetInvoiceRef links the generated invoice to the booking.
func (r *Repo) SetInvoiceRef(ctx context.Context, id uuid.UUID, invoiceID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE bookings SET invoice_id = $2, updated_at = now() WHERE id = $1`, id, invoiceID)
	if err != nil {
		return fmt.Errorf("set invoice ref: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(bookingNotFoundMessage)
	}
	return nil
}

// SetDriverPaymentRef links the generated driver payment to the booking.
func (r *Repo) SetDriverPaymentRef(ctx context.Context, id uuid.UUID, paymentID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE bookings SET driver_payment_id = $2, updated_at = now() WHERE id = $1`, id, paymentID)
	if err != nil {
		return fmt.Errorf("set driver payment ref: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(bookingNotFoundMessage)
	}
	return nil
}

// ListExpenses returns all expenses linked to a booking.
func (r *Repo) ListExpenses(ctx context.Context, bookingID uuid.UUID) ([]domain.Expense, error) {
	query := `
		SELECT id, booking_id, type, amount, payer, is_billable, status
		FROM booking_expenses
		WHERE booking_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Type, &e.Amount, &e.Payer, &e.IsBillable, &e.Status); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		items = append(items, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate expenses: %w", rows.Err())
	}

	return items, nil
}

// CreateExpense inserts an expense linked to a booking.
func (r *Repo) CreateExpense(ctx context.Context, params CreateExpenseParams) (domain.Expense, error) {
	query := `
		INSERT INTO booking_expenses (booking_id, type, amount, payer, is_billable, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booking_id, type, amount, payer, is_billable, status`

	var e domain.Expense
	if err := r.pool.QueryRow(ctx, query,
		params.BookingID, params.Type, params.Amount, params.Payer, params.IsBillable, params.Status,
	).Scan(&e.ID, &e.BookingID, &e.Type, &e.Amount, &e.Payer, &e.IsBillable, &e.Status); err != nil {
		return domain.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

// UpdateExpense patches an expense and returns the updated row.
func (r *Repo) UpdateExpense(ctx context.Context, params UpdateExpenseParams) (domain.Expense, error) {
	query := `
		UPDATE booking_expenses
		SET type = COALESCE($2, type),
			amount = COALESCE($3, amount),
			payer = COALESCE($4, payer),
			is_billable = COALESCE($5, is_billable),
			updated_at = now()
		WHERE id = $1
		RETURNING id, booking_id, type, amount, payer, is_billable, status`

	var e domain.Expense
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.Type, params.Amount, params.Payer, params.IsBillable,
	).Scan(&e.ID, &e.BookingID, &e.Type, &e.Amount, &e.Payer, &e.IsBillable, &e.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, apperr.NotFound(expenseNotFoundMessage)
		}
		return domain.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return e, nil
}

// DeleteExpense removes an expense and returns the owning booking ID so the
// caller can recompute the booking.
func (r *Repo) DeleteExpense(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var bookingID uuid.UUID
	if err := r.pool.QueryRow(ctx,
		`DELETE FROM booking_expenses WHERE id = $1 RETURNING booking_id`, id,
	).Scan(&bookingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound(expenseNotFoundMessage)
		}
		return uuid.Nil, fmt.Errorf("delete expense: %w", err)
	}
	return bookingID, nil
}

// MarkExpensesSubmitted flips all pending expenses of a booking to Submitted.
func (r *Repo) MarkExpensesSubmitted(ctx context.Context, bookingID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE booking_expenses SET status = $2, updated_at = now() WHERE booking_id = $1 AND status = $3`,
		bookingID, domain.ExpenseSubmitted, domain.ExpensePending,
	); err != nil {
		return fmt.Errorf("mark expenses submitted: %w", err)
	}
	return nil
}

// ListTaxLines returns the flat tax lines attached to a booking.
func (r *Repo) ListTaxLines(ctx context.Context, bookingID uuid.UUID) ([]TaxLine, error) {
	query := `SELECT id, booking_id, label, amount FROM booking_tax_lines WHERE booking_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list tax lines: %w", err)
	}
	defer rows.Close()

	items := make([]TaxLine, 0)
	for rows.Next() {
		var line TaxLine
		if err := rows.Scan(&line.ID, &line.BookingID, &line.Label, &line.Amount); err != nil {
			return nil, fmt.Errorf("scan tax line: %w", err)
		}
		items = append(items, line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tax lines: %w", rows.Err())
	}

	return items, nil
}

// AddTaxLine attaches a flat tax amount to a booking.
func (r *Repo) AddTaxLine(ctx context.Context, bookingID uuid.UUID, label string, amount float64) (TaxLine, error) {
	var line TaxLine
	if err := r.pool.QueryRow(ctx,
		`INSERT INTO booking_tax_lines (booking_id, label, amount) VALUES ($1, $2, $3)
		 RETURNING id, booking_id, label, amount`,
		bookingID, label, amount,
	).Scan(&line.ID, &line.BookingID, &line.Label, &line.Amount); err != nil {
		return TaxLine{}, fmt.Errorf("add tax line: %w", err)
	}
	return line, nil
}

// DeleteTaxLine removes a tax line and returns the owning booking ID.
func (r *Repo) DeleteTaxLine(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var bookingID uuid.UUID
	if err := r.pool.QueryRow(ctx,
		`DELETE FROM booking_tax_lines WHERE id = $1 RETURNING booking_id`, id,
	).Scan(&bookingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperr.NotFound(taxLineNotFoundMessage)
		}
		return uuid.Nil, fmt.Errorf("delete tax line: %w", err)
	}
	return bookingID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (Booking, error) {
	var b Booking
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&b.ID, &b.TripKind, &b.CustomerID, &b.CustomerName, &b.DriverName,
		&b.VehicleClassID, &b.VehicleModel, &b.PickupLocation, &b.DropLocation,
		&b.PickupAt, &b.ReturnAt, &b.StartOdometer, &b.EndOdometer, &b.ManualNights,
		&b.Rates.PerKm, &b.Rates.PerHour, &b.Rates.Night, &b.Rates.LocalPerKm,
		&b.Rates.MinHours, &b.Rates.MinKm, &b.Rates.MinKmPerDay,
		&b.Days, &b.Nights, &b.TotalKm, &b.ChargeableKm, &b.ChargeableKmOverridden,
		&b.BaseAmount, &b.ExtraHourCharges, &b.ExtraKmCharges, &b.NightCharges,
		&b.ExpenseTotal, &b.BillableExpenseTotal, &b.DriverExpenseTotal,
		&b.TaxTotal, &b.NetTotal, &b.GrossTotal, &b.GrandTotal, &b.Discount,
		&b.Status, &b.InvoiceID, &b.DriverPaymentID, &createdAt, &updatedAt,
	); err != nil {
		return Booking{}, err
	}
	b.CreatedAt = createdAt.Format(time.RFC3339)
	b.UpdatedAt = updatedAt.Format(time.RFC3339)
	return b, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/platform/apperr"
)

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new billing repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const invoiceColumns = ` id, booking_id, customer_id, customer_name,
	pickup_location, drop_location, grand_total, customer_paid_total,
	amount_payable, pdf_object_key, created_at`

// CreateInvoice inserts an invoice. The booking_id unique constraint rejects
// a second invoice for the same booking.
func (r *Repo) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (Invoice, error) {
	query := `
		INSERT INTO invoices (
			booking_id, customer_id, customer_name, pickup_location,
			drop_location, grand_total, customer_paid_total, amount_payable
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING` + invoiceColumns

	row := r.pool.QueryRow(ctx, query,
		params.BookingID, params.CustomerID, params.CustomerName, params.PickupLocation,
		params.DropLocation, params.GrandTotal, params.CustomerPaidTotal, params.AmountPayable,
	)
	invoice, err := scanInvoice(row)
	if err != nil {
		return Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice by ID.
func (r *Repo) GetInvoice(ctx context.Context, id uuid.UUID) (Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE id = $1`

	invoice, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, apperr.NotFound("invoice not found")
		}
		return Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	return invoice, nil
}

// GetInvoiceByBooking returns the booking's invoice, or nil when none exists.
func (r *Repo) GetInvoiceByBooking(ctx context.Context, bookingID uuid.UUID) (*Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE booking_id = $1`

	invoice, err := scanInvoice(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by booking: %w", err)
	}
	return &invoice, nil
}

// SetInvoicePDFKey records the object key of the rendered invoice PDF.
func (r *Repo) SetInvoicePDFKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET pdf_object_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set invoice pdf key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("invoice not found")
	}
	return nil
}

const driverPaymentColumns = ` id, booking_id, driver_name, night_allowance,
	reimbursement, total, created_at`

// CreateDriverPayment inserts a driver payment. The booking_id unique
// constraint rejects a second payment for the same booking.
func (r *Repo) CreateDriverPayment(ctx context.Context, params CreateDriverPaymentParams) (DriverPayment, error) {
	query := `
		INSERT INTO driver_payments (
			booking_id, driver_name, night_allowance, reimbursement, total
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING` + driverPaymentColumns

	row := r.pool.QueryRow(ctx, query,
		params.BookingID, params.DriverName, params.NightAllowance, params.Reimbursement, params.Total,
	)
	payment, err := scanDriverPayment(row)
	if err != nil {
		return DriverPayment{}, fmt.Errorf("create driver payment: %w", err)
	}
	return payment, nil
}

// GetDriverPayment retrieves a driver payment by ID.
func (r *Repo) GetDriverPayment(ctx context.Context, id uuid.UUID) (DriverPayment, error) {
	query := `SELECT` + driverPaymentColumns + ` FROM driver_payments WHERE id = $1`

	payment, err := scanDriverPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DriverPayment{}, apperr.NotFound("driver payment not found")
		}
		return DriverPayment{}, fmt.Errorf("get driver payment: %w", err)
	}
	return payment, nil
}

// GetDriverPaymentByBooking returns the booking's driver payment, or nil when
// none exists.
func (r *Repo) GetDriverPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*DriverPayment, error) {
	query := `SELECT` + driverPaymentColumns + ` FROM driver_payments WHERE booking_id = $1`

	payment, err := scanDriverPayment(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver payment by booking: %w", err)
	}
	return &payment, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (Invoice, error) {
	var inv Invoice
	if err := row.Scan(
		&inv.ID, &inv.BookingID, &inv.CustomerID, &inv.CustomerName,
		&inv.PickupLocation, &inv.DropLocation, &inv.GrandTotal, &inv.CustomerPaidTotal,
		&inv.AmountPayable, &inv.PDFObjectKey, &inv.CreatedAt,
	); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func scanDriverPayment(row rowScanner) (DriverPayment, error) {
	var p DriverPayment
	if err := row.Scan(
		&p.ID, &p.BookingID, &p.DriverName, &p.NightAllowance,
		&p.Reimbursement, &p.Total, &p.CreatedAt,
	); err != nil {
		return DriverPayment{}, err
	}
	return p, nil
}

// Compile-time check that Repo implements Repository
var _ Repository = (*Repo)(nil)

package domain

import "github.com/google/uuid"

// Payer identifies who fronted an ad-hoc expense.
type Payer string

const (
	PayerDriver   Payer = "Driver"
	PayerCustomer Payer = "Customer"
	PayerCompany  Payer = "Company"
)

// ExpenseStatus tracks whether an expense has been submitted with the booking.
type ExpenseStatus string

const (
	ExpensePending   ExpenseStatus = "Pending"
	ExpenseSubmitted ExpenseStatus = "Submitted"
)

// Expense is an ad-hoc cost linked to a booking by reference.
type Expense struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	Type       string
	Amount     float64
	Payer      Payer
	IsBillable bool
	Status     ExpenseStatus
}

// ExpenseTotals is the partitioned sum over a booking's linked expenses.
type ExpenseTotals struct {
	Total        float64
	Billable     float64
	Driver       float64
	CustomerPaid float64
}

// BillableByDefault reports whether an expense type is passed through to the
// customer's invoice unless explicitly overridden.
func BillableByDefault(expenseType string) bool {
	switch expenseType {
	case "Toll", "Parking":
		return true
	default:
		return false
	}
}

// AggregateExpenses partitions linked expenses into overall, billable,
// driver-paid and customer-paid sums. includePending controls whether
// Pending expenses count toward the billable total; the other sums always
// cover every linked expense.
func AggregateExpenses(expenses []Expense, includePending bool) ExpenseTotals {
	var totals ExpenseTotals
	for _, e := range expenses {
		totals.Total += e.Amount
		if e.IsBillable && (includePending || e.Status == ExpenseSubmitted) {
			totals.Billable += e.Amount
		}
		switch e.Payer {
		case PayerDriver:
			totals.Driver += e.Amount
		case PayerCustomer:
			totals.CustomerPaid += e.Amount
		}
	}
	return totals
}

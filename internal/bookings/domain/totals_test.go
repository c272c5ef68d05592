package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestAggregateExpenses(t *testing.T) {
	bookingID := uuid.New()
	expenses := []Expense{
		{ID: uuid.New(), BookingID: bookingID, Type: "Toll", Amount: 120, Payer: PayerDriver, IsBillable: true, Status: ExpenseSubmitted},
		{ID: uuid.New(), BookingID: bookingID, Type: "Parking", Amount: 80, Payer: PayerCustomer, IsBillable: true, Status: ExpensePending},
		{ID: uuid.New(), BookingID: bookingID, Type: "Fuel", Amount: 2000, Payer: PayerCompany, IsBillable: false, Status: ExpenseSubmitted},
		{ID: uuid.New(), BookingID: bookingID, Type: "Food", Amount: 300, Payer: PayerDriver, IsBillable: false, Status: ExpensePending},
	}

	t.Run("pending included", func(t *testing.T) {
		got := AggregateExpenses(expenses, true)
		if got.Total != 2500 {
			t.Fatalf("Total = %v, want 2500", got.Total)
		}
		if got.Billable != 200 {
			t.Fatalf("Billable = %v, want 200", got.Billable)
		}
		if got.Driver != 420 {
			t.Fatalf("Driver = %v, want 420", got.Driver)
		}
		if got.CustomerPaid != 80 {
			t.Fatalf("CustomerPaid = %v, want 80", got.CustomerPaid)
		}
	})

	t.Run("pending excluded from billable", func(t *testing.T) {
		got := AggregateExpenses(expenses, false)
		if got.Billable != 120 {
			t.Fatalf("Billable = %v, want 120", got.Billable)
		}
		// Only the billable partition is status-sensitive.
		if got.Total != 2500 || got.Driver != 420 || got.CustomerPaid != 80 {
			t.Fatalf("non-billable sums changed: %+v", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := AggregateExpenses(nil, true); got != (ExpenseTotals{}) {
			t.Fatalf("AggregateExpenses(nil) = %+v, want zero", got)
		}
	})
}

func TestBillableByDefault(t *testing.T) {
	if !BillableByDefault("Toll") || !BillableByDefault("Parking") {
		t.Fatal("Toll and Parking must default to billable")
	}
	if BillableByDefault("Fuel") || BillableByDefault("Food") {
		t.Fatal("Fuel and Food must not default to billable")
	}
}

func TestComposeTotals(t *testing.T) {
	charges := Charges{TermTotal: 7750, NightCharges: 250}
	expenses := ExpenseTotals{Billable: 200, Driver: 420}

	got := ComposeTotals(charges, expenses, 150, 100)

	if got.NetTotal != 7950 {
		t.Fatalf("NetTotal = %v, want 7950", got.NetTotal)
	}
	if got.GrossTotal != 8100 {
		t.Fatalf("GrossTotal = %v, want 8100", got.GrossTotal)
	}
	if got.GrandTotal != 8000 {
		t.Fatalf("GrandTotal = %v, want 8000", got.GrandTotal)
	}
}

func TestComposeTotalsDiscountAppliedOnce(t *testing.T) {
	charges := Charges{TermTotal: 1000}
	first := ComposeTotals(charges, ExpenseTotals{}, 0, 50)
	second := ComposeTotals(charges, ExpenseTotals{}, 0, 50)
	if first.GrandTotal != 950 || second.GrandTotal != 950 {
		t.Fatalf("GrandTotal = %v / %v, want 950 both times", first.GrandTotal, second.GrandTotal)
	}
}

func TestComputeDriverPayable(t *testing.T) {
	tests := []struct {
		name      string
		charges   Charges
		expenses  ExpenseTotals
		wantTotal float64
	}{
		{"allowance plus reimbursement", Charges{NightCharges: 500}, ExpenseTotals{Driver: 420}, 920},
		{"allowance only", Charges{NightCharges: 250}, ExpenseTotals{}, 250},
		{"nothing owed", Charges{}, ExpenseTotals{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDriverPayable(tt.charges, tt.expenses)
			if got.Total != tt.wantTotal {
				t.Fatalf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
			if got.Total != got.Allowance+got.Reimbursement {
				t.Fatalf("Total %v != Allowance %v + Reimbursement %v", got.Total, got.Allowance, got.Reimbursement)
			}
		})
	}
}

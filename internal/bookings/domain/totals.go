package domain

// Totals is the composed money picture for a booking.
type Totals struct {
	TermTotal  float64
	TaxTotal   float64
	NetTotal   float64
	GrossTotal float64
	GrandTotal float64
}

// ComposeTotals combines vehicle charges, billable expenses, flat tax lines
// and the discount. Tax amounts are flat, never compounded, and the discount
// applies exactly once after expenses and tax.
func ComposeTotals(charges Charges, expenses ExpenseTotals, taxTotal, discount float64) Totals {
	net := charges.TermTotal + expenses.Billable
	gross := net + taxTotal
	return Totals{
		TermTotal:  charges.TermTotal,
		TaxTotal:   taxTotal,
		NetTotal:   net,
		GrossTotal: gross,
		GrandTotal: gross - discount,
	}
}

// DriverPayable derives what the driver is owed for a finished booking:
// the night allowance plus reimbursement of driver-fronted expenses.
type DriverPayable struct {
	Allowance     float64
	Reimbursement float64
	Total         float64
}

// ComputeDriverPayable sums the driver's dues. A zero or negative total means
// no payment document should exist at all.
func ComputeDriverPayable(charges Charges, expenses ExpenseTotals) DriverPayable {
	allowance := charges.NightCharges
	reimbursement := expenses.Driver
	return DriverPayable{
		Allowance:     allowance,
		Reimbursement: reimbursement,
		Total:         allowance + reimbursement,
	}
}

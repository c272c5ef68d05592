package service

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tripdesk_backend/internal/billing/repository"
)

// renderInvoicePDF produces the customer invoice document. When a UPI payee
// is configured, a scan-to-pay QR code for the payable amount is embedded.
func renderInvoicePDF(inv repository.Invoice, upiPayee string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TAX INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Invoice No : INV-%s", shortID(inv.ID.String())),
		fmt.Sprintf("Date       : %s", time.Now().Format("2006-01-02")),
		fmt.Sprintf("Booking    : %s", inv.BookingID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, inv.CustomerName)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trip:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("%s -> %s", inv.PickupLocation, inv.DropLocation), "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Grand total          : "+formatINR(inv.GrandTotal))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Paid during trip     : "+formatINR(inv.CustomerPaidTotal))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Amount payable: "+formatINR(inv.AmountPayable))
	pdf.Ln(12)

	if upiPayee != "" && inv.AmountPayable > 0 {
		if err := embedUPIQR(pdf, upiPayee, inv.CustomerName, inv.AmountPayable); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func embedUPIQR(pdf *gofpdf.Fpdf, payee, customerName string, amount float64) error {
	uri := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&cu=INR",
		url.QueryEscape(payee), url.QueryEscape(customerName), amount)

	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode upi qr: %w", err)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Scan to pay via UPI:")
	pdf.Ln(8)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("upi-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("upi-qr", pdf.GetX(), pdf.GetY(), 40, 40, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("embed upi qr: %w", pdf.Error())
	}
	return nil
}

func formatINR(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

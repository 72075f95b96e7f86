package export

import (
	"fmt"
	"io"
	"time"
)

// InvoiceData is everything printed on a customer invoice.
type InvoiceData struct {
	BusinessName  string
	BusinessPhone string
	BusinessEmail string

	Reference       string
	PlacedAt        time.Time
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Status          string
	PaymentMethod   string
	PaymentStatus   string
	PaymentRef      string

	Items       []InvoiceItem
	Subtotal    int64
	DeliveryFee int64
	Total       int64
}

type InvoiceItem struct {
	Name     string
	Quantity int32
	Price    int64
}

// Invoice writes a one-order invoice PDF to w.
func Invoice(w io.Writer, d InvoiceData) error {
	pdf, tr := newDocument()
	pdf.AddPage()

	header(pdf, tr, d.BusinessName, fmt.Sprintf("Invoice #%s", d.Reference))

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("WhatsApp: +%s   Email: %s", d.BusinessPhone, d.BusinessEmail)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+d.PlacedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(d.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "+"+d.CustomerPhone, "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 5, tr(d.DeliveryAddress), "", "L", false)
	pdf.Ln(4)

	widths := []float64{92, 22, 30, 38}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Item", "Qty", "Price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range d.Items {
		pdf.CellFormat(widths[0], 7, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, rs(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, rs(item.Price*int64(item.Quantity)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	labelW := widths[0] + widths[1] + widths[2]
	delivery := rs(d.DeliveryFee)
	if d.DeliveryFee == 0 {
		delivery = "FREE"
	}
	totals := [][2]string{
		{"Subtotal", rs(d.Subtotal)},
		{"Delivery", delivery},
		{"Total", rs(d.Total)},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 7, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Payment: "+tr(PaymentLabel(d.PaymentMethod, d.PaymentRef))+" - "+d.PaymentStatus, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Order status: "+d.Status, "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, tr("Thank you for choosing "+d.BusinessName+"!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

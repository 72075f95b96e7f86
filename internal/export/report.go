package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ReportData is a sales report for one period.
type ReportData struct {
	BusinessName string
	Period       string
	GeneratedAt  time.Time
	TotalOrders  int
	Revenue      int64
	Average      string
	Rows         []ReportRow
}

type ReportRow struct {
	Date          time.Time
	Customer      string
	Phone         string
	PaymentMethod string
	PaymentRef    string
	Amount        int64
	Status        string
}

var reportColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 26, "L"},
	{"Customer", 40, "L"},
	{"Phone", 30, "L"},
	{"Payment", 38, "L"},
	{"Amount", 22, "R"},
	{"Status", 26, "L"},
}

// SalesReport writes the period report PDF to w.
func SalesReport(w io.Writer, d ReportData) error {
	pdf, tr := newDocument()
	pdf.AddPage()

	title := "SALES REPORT"
	if d.BusinessName != "" {
		title = fmt.Sprintf("%s - SALES REPORT", strings.ToUpper(d.BusinessName))
	}
	header(pdf, tr, title, fmt.Sprintf("Period: %s   Generated: %s", d.Period, d.GeneratedAt.Format("02 Jan 2006 15:04")))

	// Summary box.
	y := pdf.GetY()
	pdf.SetFillColor(240, 246, 238)
	pdf.SetDrawColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.Rect(14, y, 182, 20, "DF")
	pdf.SetXY(18, y+3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(58, 7, fmt.Sprintf("Total Orders: %d", d.TotalOrders), "", 0, "L", false, 0, "")
	pdf.CellFormat(62, 7, "Total Revenue: "+rs(d.Revenue), "", 0, "L", false, 0, "")
	pdf.CellFormat(58, 7, "Avg Order: Rs. "+d.Average, "", 1, "L", false, 0, "")
	pdf.SetY(y + 26)

	drawHead := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(brandGreen[0], brandGreen[1], brandGreen[2])
		pdf.SetTextColor(255, 255, 255)
		for _, c := range reportColumns {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHead()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, r := range d.Rows {
		if pdf.GetY()+7 > pageH-bottom {
			pdf.AddPage()
			drawHead()
		}
		fill := i%2 == 1
		pdf.SetFillColor(247, 247, 247)
		cells := []string{
			r.Date.Format("02/01/2006"),
			tr(r.Customer),
			r.Phone,
			tr(PaymentLabel(r.PaymentMethod, r.PaymentRef)),
			rs(r.Amount),
			r.Status,
		}
		for j, c := range reportColumns {
			pdf.CellFormat(c.width, 7, cells[j], "1", 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(d.Rows) == 0 {
		pdf.CellFormat(182, 8, "No orders in this period.", "1", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

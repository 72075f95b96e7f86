// Package export renders printable PDFs: customer invoices and the admin
// sales report. Output is written straight to the caller's writer.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
)

var brandGreen = [3]int{45, 90, 39}

func newDocument() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 16)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf, tr
}

// header draws the green band across the top of the first page.
func header(pdf *fpdf.Fpdf, tr func(string) string, title, subtitle string) {
	pageW, _ := pdf.GetPageSize()
	pdf.SetFillColor(brandGreen[0], brandGreen[1], brandGreen[2])
	pdf.Rect(0, 0, pageW, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(14, 8)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
	if subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetX(14)
		pdf.CellFormat(0, 6, tr(subtitle), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(38)
}

// rs formats whole rupees. The core PDF fonts have no rupee glyph.
func rs(amount int64) string {
	return fmt.Sprintf("Rs. %d", amount)
}

// PaymentLabel is the payment column text for an order.
func PaymentLabel(method, ref string) string {
	if method == enum.PaymentMethodCOD {
		return "COD"
	}
	if ref != "" {
		return fmt.Sprintf("UPI (Ref: %s)", ref)
	}
	return "UPI"
}

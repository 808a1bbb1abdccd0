// Package receipt renders transfer receipts as single-page PDF documents.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/boddenberg/finance-ledger-bfa-go/internal/domain"

	"github.com/go-pdf/fpdf"
)

const (
	headerTitle = "Comprovante de Transferência"
	reportTitle = "Dados da transferência"
	dateLayout  = "02/01/2006"
)

// PDFRenderer implements port.ReceiptRenderer.
type PDFRenderer struct {
	now func() time.Time
	loc *time.Location
}

// NewPDFRenderer creates a renderer that prints dates in loc.
// A nil loc means UTC.
func NewPDFRenderer(loc *time.Location) *PDFRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &PDFRenderer{now: time.Now, loc: loc}
}

// WithClock returns a copy of r that stamps documents with now().
func (r *PDFRenderer) WithClock(now func() time.Time) *PDFRenderer {
	cp := *r
	cp.now = now
	return &cp
}

// Render lays out the receipt fields in a fixed order.
func (r *PDFRenderer) Render(data domain.ReceiptData) ([]byte, error) {
	generatedAt := r.now().In(r.loc)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)
	pdf.SetTitle(headerTitle, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(headerTitle), "", 1, "C", false, 0, "")

	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	y := pdf.GetY() + 2
	pdf.SetLineWidth(0.5)
	pdf.Line(left, y, pageW-right, y)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(reportTitle), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, f := range fields(data, r.loc) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 8, tr(f.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, tr(f.value), "", 1, "L", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, tr("Gerado em "+generatedAt.Format("02/01/2006 15:04:05")), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type field struct {
	label string
	value string
}

func fields(data domain.ReceiptData, loc *time.Location) []field {
	return []field{
		{"Nome:", data.Name},
		{"Valor:", "R$ " + data.Amount.StringFixed(2)},
		{"Data:", data.Date.In(loc).Format(dateLayout)},
		{"Conta de origem:", data.FromBankAccountID},
		{"Conta de destino:", data.ToBankAccountID},
		{"ID do pagamento:", data.PaymentID},
	}
}

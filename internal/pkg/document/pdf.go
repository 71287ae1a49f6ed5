package document

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfMargin     = 10.0
	pdfLineHeight = 6.0
)

type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string   { return "pdf" }

// Render draws the document as a landscape A4 table that repeats its header
// on every page.
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	widths := columnWidths(doc.Columns, pageWidth-2*pdfMargin)

	header := func() {
		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(31, 78, 120)
		pdf.SetTextColor(255, 255, 255)
		for i, c := range doc.Columns {
			pdf.CellFormat(widths[i], 7, tr(c.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(pdfFont, "", 9)
	}

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 8, tr(doc.Title), "", 1, "L", false, 0, "")
	if doc.Provisional {
		pdf.SetTextColor(192, 0, 0)
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(0, pdfLineHeight, "PROVISIONAL - period not closed", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetFont(pdfFont, "", 10)
	for _, line := range doc.Subtitle {
		pdf.CellFormat(0, pdfLineHeight, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	header()
	_, pageHeight := pdf.GetPageSize()
	for _, row := range doc.Rows {
		if pdf.GetY()+pdfLineHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			header()
		}
		drawRow(pdf, tr, doc.Columns, widths, row)
	}

	if len(doc.Totals) > 0 {
		pdf.SetFont(pdfFont, "B", 9)
		drawRow(pdf, tr, doc.Columns, widths, doc.Totals)
	}

	return output(pdf)
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []Column, widths []float64, row []string) {
	for i := range cols {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		align := "L"
		if cols[i].Numeric {
			align = "R"
		}
		pdf.CellFormat(widths[i], pdfLineHeight, tr(value), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func columnWidths(cols []Column, available float64) []float64 {
	total := 0.0
	for _, c := range cols {
		total += weight(c)
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = available * weight(c) / total
	}
	return widths
}

func weight(c Column) float64 {
	if c.Width <= 0 {
		return 1
	}
	return c.Width
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

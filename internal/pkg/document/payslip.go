package document

import (
	"github.com/jung-kurt/gofpdf"
)

// Line is a labelled, preformatted amount.
type Line struct {
	Label  string
	Amount string
}

// BandLine is one row of the PAYE band breakdown.
type BandLine struct {
	Range string
	Rate  string
	Taxed string
	Tax   string
}

// PayslipSheet holds the already formatted content of one payslip.
type PayslipSheet struct {
	CompanyName   string
	PeriodName    string
	PeriodRange   string
	PaymentDate   string
	EmployeeName  string
	EmployeeCode  string
	Department    string
	TINNumber     string
	SSNITNumber   string
	BankName      string
	BankAccount   string
	Currency      string
	Earnings      []Line
	Deductions    []Line
	TaxBands      []BandLine
	GrossPay      string
	TotalDeducted string
	NetPay        string
	EmployerSSNIT string
	GeneratedAt   string
}

// RenderPayslip draws a single portrait A4 payslip.
func RenderPayslip(sheet PayslipSheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 9, tr(sheet.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 11)
	pdf.CellFormat(0, pdfLineHeight, tr("Payslip - "+sheet.PeriodName+" ("+sheet.PeriodRange+")"), "", 1, "L", false, 0, "")
	if sheet.PaymentDate != "" {
		pdf.CellFormat(0, pdfLineHeight, tr("Payment date: "+sheet.PaymentDate), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	details := []Line{
		{"Employee", sheet.EmployeeName},
		{"Staff ID", sheet.EmployeeCode},
		{"Department", sheet.Department},
		{"TIN", sheet.TINNumber},
		{"SSNIT No.", sheet.SSNITNumber},
		{"Bank", sheet.BankName},
		{"Account", sheet.BankAccount},
	}
	pdf.SetFont(pdfFont, "", 10)
	for _, d := range details {
		if d.Amount == "" {
			continue
		}
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(35, pdfLineHeight, tr(d.Label), "", 0, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		pdf.CellFormat(0, pdfLineHeight, tr(d.Amount), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section := func(title string, lines []Line, totalLabel, total string) {
		pdf.SetFont(pdfFont, "B", 11)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(120, 7, tr(title), "1", 0, "L", true, 0, "")
		pdf.CellFormat(60, 7, tr(sheet.Currency), "1", 1, "R", true, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		for _, l := range lines {
			pdf.CellFormat(120, pdfLineHeight, tr(l.Label), "LR", 0, "L", false, 0, "")
			pdf.CellFormat(60, pdfLineHeight, tr(l.Amount), "LR", 1, "R", false, 0, "")
		}
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(120, 7, tr(totalLabel), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(total), "1", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	section("Earnings", sheet.Earnings, "Gross pay", sheet.GrossPay)
	section("Deductions", sheet.Deductions, "Total deductions", sheet.TotalDeducted)

	if len(sheet.TaxBands) > 0 {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(0, 7, "PAYE computation", "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "B", 9)
		for _, h := range []string{"Band", "Rate", "Taxed", "Tax"} {
			pdf.CellFormat(45, pdfLineHeight, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(pdfFont, "", 9)
		for _, b := range sheet.TaxBands {
			pdf.CellFormat(45, pdfLineHeight, tr(b.Range), "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, pdfLineHeight, tr(b.Rate), "1", 0, "R", false, 0, "")
			pdf.CellFormat(45, pdfLineHeight, tr(b.Taxed), "1", 0, "R", false, 0, "")
			pdf.CellFormat(45, pdfLineHeight, tr(b.Tax), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	pdf.SetFont(pdfFont, "B", 13)
	pdf.CellFormat(120, 9, "NET PAY", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, tr(sheet.Currency+" "+sheet.NetPay), "1", 1, "R", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont(pdfFont, "I", 8)
	if sheet.EmployerSSNIT != "" {
		pdf.CellFormat(0, 5, tr("Employer SSNIT contribution: "+sheet.Currency+" "+sheet.EmployerSSNIT), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, tr("Generated "+sheet.GeneratedAt), "", 1, "L", false, 0, "")

	return output(pdf)
}

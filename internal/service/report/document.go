package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sikapay/sikapay-backend-go/internal/domain/report"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/document"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/money"
)

// CSV records. Amounts are preformatted without thousands separators so
// upload tools parse them as plain numbers.

type payeRecord struct {
	EmployeeCode  string `csv:"employee_code"`
	EmployeeName  string `csv:"employee_name"`
	TINNumber     string `csv:"tin_number"`
	TaxableIncome string `csv:"taxable_income"`
	PAYEAmount    string `csv:"paye_amount"`
}

type ssnitRecord struct {
	EmployeeCode  string `csv:"employee_code"`
	EmployeeName  string `csv:"employee_name"`
	SSNITNumber   string `csv:"ssnit_number"`
	BasicSalary   string `csv:"basic_salary"`
	EmployeeSSNIT string `csv:"employee_ssnit"`
	EmployerSSNIT string `csv:"employer_ssnit"`
	TotalSSNIT    string `csv:"total_ssnit"`
}

type bankAdviceRecord struct {
	EmployeeCode  string `csv:"employee_code"`
	EmployeeName  string `csv:"employee_name"`
	BankName      string `csv:"bank_name"`
	BankBranch    string `csv:"bank_branch"`
	AccountNumber string `csv:"account_number"`
	NetPay        string `csv:"net_pay"`
}

type withholdingRecord struct {
	EmployeeCode      string `csv:"employee_code"`
	EmployeeName      string `csv:"employee_name"`
	TINNumber         string `csv:"tin_number"`
	EmploymentType    string `csv:"employment_type"`
	TaxableIncome     string `csv:"taxable_income"`
	WithholdingAmount string `csv:"withholding_amount"`
}

func subtitle(meta report.Meta) []string {
	lines := []string{
		meta.TenantName,
		fmt.Sprintf("Period: %s (%s to %s)", meta.PeriodName, meta.PeriodStart, meta.PeriodEnd),
	}
	if meta.PaymentDate != nil {
		lines = append(lines, "Payment date: "+*meta.PaymentDate)
	}
	return append(lines, "Generated: "+meta.GeneratedAt)
}

func payeDocument(r report.PAYEReport) document.Document {
	doc := document.Document{
		Title:       "PAYE Schedule",
		Subtitle:    subtitle(r.Meta),
		Provisional: r.Meta.IsProvisional,
		Columns: []document.Column{
			{Header: "Code", Width: 1},
			{Header: "Employee", Width: 2.5},
			{Header: "TIN", Width: 1.5},
			{Header: "Taxable income", Width: 1.5, Numeric: true},
			{Header: "PAYE", Width: 1.5, Numeric: true},
		},
		Totals: []string{"", fmt.Sprintf("Total (%d)", r.Totals.EmployeeCount), "",
			money.Format(r.Totals.TaxableIncome), money.Format(r.Totals.PAYEAmount)},
	}

	records := make([]payeRecord, 0, len(r.Rows))
	for _, row := range r.Rows {
		doc.Rows = append(doc.Rows, []string{row.EmployeeCode, row.EmployeeName, row.TINNumber,
			money.Format(row.TaxableIncome), money.Format(row.PAYEAmount)})
		records = append(records, payeRecord{
			EmployeeCode:  row.EmployeeCode,
			EmployeeName:  row.EmployeeName,
			TINNumber:     row.TINNumber,
			TaxableIncome: row.TaxableIncome.StringFixed(money.Places),
			PAYEAmount:    row.PAYEAmount.StringFixed(money.Places),
		})
	}
	doc.Records = records
	return doc
}

func ssnitDocument(r report.SSNITReport) document.Document {
	doc := document.Document{
		Title:       "SSNIT Contribution Schedule",
		Subtitle:    subtitle(r.Meta),
		Provisional: r.Meta.IsProvisional,
		Columns: []document.Column{
			{Header: "Code", Width: 1},
			{Header: "Employee", Width: 2.5},
			{Header: "SSNIT No.", Width: 1.5},
			{Header: "Basic salary", Width: 1.5, Numeric: true},
			{Header: "Employee", Width: 1.2, Numeric: true},
			{Header: "Employer", Width: 1.2, Numeric: true},
			{Header: "Total", Width: 1.2, Numeric: true},
		},
		Totals: []string{"", fmt.Sprintf("Total (%d)", r.Totals.EmployeeCount), "",
			money.Format(r.Totals.BasicSalary), money.Format(r.Totals.EmployeeSSNIT),
			money.Format(r.Totals.EmployerSSNIT), money.Format(r.Totals.TotalSSNIT)},
	}

	records := make([]ssnitRecord, 0, len(r.Rows))
	for _, row := range r.Rows {
		doc.Rows = append(doc.Rows, []string{row.EmployeeCode, row.EmployeeName, row.SSNITNumber,
			money.Format(row.BasicSalary), money.Format(row.EmployeeSSNIT),
			money.Format(row.EmployerSSNIT), money.Format(row.TotalSSNIT)})
		records = append(records, ssnitRecord{
			EmployeeCode:  row.EmployeeCode,
			EmployeeName:  row.EmployeeName,
			SSNITNumber:   row.SSNITNumber,
			BasicSalary:   row.BasicSalary.StringFixed(money.Places),
			EmployeeSSNIT: row.EmployeeSSNIT.StringFixed(money.Places),
			EmployerSSNIT: row.EmployerSSNIT.StringFixed(money.Places),
			TotalSSNIT:    row.TotalSSNIT.StringFixed(money.Places),
		})
	}
	doc.Records = records
	return doc
}

func bankAdviceDocument(r report.BankAdviceReport) document.Document {
	doc := document.Document{
		Title:       "Bank Advice",
		Subtitle:    subtitle(r.Meta),
		Provisional: r.Meta.IsProvisional,
		Columns: []document.Column{
			{Header: "Code", Width: 1},
			{Header: "Employee", Width: 2.5},
			{Header: "Bank", Width: 1.8},
			{Header: "Branch", Width: 1.5},
			{Header: "Account", Width: 1.8},
			{Header: "Net pay", Width: 1.5, Numeric: true},
		},
		Totals: []string{"", fmt.Sprintf("Total (%d)", r.Totals.EmployeeCount), "", "", "",
			money.Format(r.Totals.NetPay)},
	}

	records := make([]bankAdviceRecord, 0, len(r.Rows))
	for _, row := range r.Rows {
		doc.Rows = append(doc.Rows, []string{row.EmployeeCode, row.EmployeeName, row.BankName,
			row.BankBranch, row.AccountNumber, money.Format(row.NetPay)})
		records = append(records, bankAdviceRecord{
			EmployeeCode:  row.EmployeeCode,
			EmployeeName:  row.EmployeeName,
			BankName:      row.BankName,
			BankBranch:    row.BankBranch,
			AccountNumber: row.AccountNumber,
			NetPay:        row.NetPay.StringFixed(money.Places),
		})
	}
	doc.Records = records
	return doc
}

func withholdingDocument(r report.WithholdingReport) document.Document {
	doc := document.Document{
		Title:       "Withholding Tax Schedule",
		Subtitle:    subtitle(r.Meta),
		Provisional: r.Meta.IsProvisional,
		Columns: []document.Column{
			{Header: "Code", Width: 1},
			{Header: "Employee", Width: 2.5},
			{Header: "TIN", Width: 1.5},
			{Header: "Type", Width: 1.2},
			{Header: "Taxable income", Width: 1.5, Numeric: true},
			{Header: "Withholding", Width: 1.5, Numeric: true},
		},
		Totals: []string{"", fmt.Sprintf("Total (%d)", r.Totals.EmployeeCount), "", "",
			money.Format(r.Totals.TaxableIncome), money.Format(r.Totals.WithholdingAmount)},
	}

	records := make([]withholdingRecord, 0, len(r.Rows))
	for _, row := range r.Rows {
		doc.Rows = append(doc.Rows, []string{row.EmployeeCode, row.EmployeeName, row.TINNumber,
			row.EmploymentType, money.Format(row.TaxableIncome), money.Format(row.WithholdingAmount)})
		records = append(records, withholdingRecord{
			EmployeeCode:      row.EmployeeCode,
			EmployeeName:      row.EmployeeName,
			TINNumber:         row.TINNumber,
			EmploymentType:    row.EmploymentType,
			TaxableIncome:     row.TaxableIncome.StringFixed(money.Places),
			WithholdingAmount: row.WithholdingAmount.StringFixed(money.Places),
		})
	}
	doc.Records = records
	return doc
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func exportFilename(kind report.Kind, meta report.Meta, ext string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(meta.PeriodName), "_"), "_")
	if name == "" {
		name = meta.PeriodEnd
	}
	if meta.IsProvisional {
		name += "_provisional"
	}
	return fmt.Sprintf("%s_%s.%s", kind, name, ext)
}

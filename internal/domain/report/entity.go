package report

import (
	"github.com/shopspring/decimal"
)

// Kind names a statutory report.
type Kind string

const (
	KindPAYE        Kind = "paye"
	KindSSNIT       Kind = "ssnit"
	KindBankAdvice  Kind = "bank_advice"
	KindWithholding Kind = "withholding"
)

// Meta describes the tenant and period a report was built for.
type Meta struct {
	TenantID      string  `json:"tenant_id"`
	TenantName    string  `json:"tenant_name"`
	PeriodID      string  `json:"period_id"`
	PeriodName    string  `json:"period_name"`
	PeriodStart   string  `json:"period_start"`
	PeriodEnd     string  `json:"period_end"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	DepartmentID  *string `json:"department_id,omitempty"`
	IsProvisional bool    `json:"is_provisional"`
	GeneratedAt   string  `json:"generated_at"`
}

// ========================================
// PAYE
// ========================================

type PAYERow struct {
	UserID        string          `json:"user_id"`
	EmployeeCode  string          `json:"employee_code"`
	EmployeeName  string          `json:"employee_name"`
	TINNumber     string          `json:"tin_number"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	PAYEAmount    decimal.Decimal `json:"paye_amount"`
}

type PAYETotals struct {
	EmployeeCount int             `json:"employee_count"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	PAYEAmount    decimal.Decimal `json:"paye_amount"`
}

type PAYEReport struct {
	Meta   Meta       `json:"meta"`
	Rows   []PAYERow  `json:"rows"`
	Totals PAYETotals `json:"totals"`
}

func SumPAYE(rows []PAYERow) PAYETotals {
	t := PAYETotals{EmployeeCount: len(rows)}
	for _, r := range rows {
		t.TaxableIncome = t.TaxableIncome.Add(r.TaxableIncome)
		t.PAYEAmount = t.PAYEAmount.Add(r.PAYEAmount)
	}
	return t
}

// ========================================
// SSNIT
// ========================================

type SSNITRow struct {
	UserID        string          `json:"user_id"`
	EmployeeCode  string          `json:"employee_code"`
	EmployeeName  string          `json:"employee_name"`
	SSNITNumber   string          `json:"ssnit_number"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	EmployeeSSNIT decimal.Decimal `json:"employee_ssnit"`
	EmployerSSNIT decimal.Decimal `json:"employer_ssnit"`
	TotalSSNIT    decimal.Decimal `json:"total_ssnit"`
}

type SSNITTotals struct {
	EmployeeCount int             `json:"employee_count"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	EmployeeSSNIT decimal.Decimal `json:"employee_ssnit"`
	EmployerSSNIT decimal.Decimal `json:"employer_ssnit"`
	TotalSSNIT    decimal.Decimal `json:"total_ssnit"`
}

type SSNITReport struct {
	Meta   Meta        `json:"meta"`
	Rows   []SSNITRow  `json:"rows"`
	Totals SSNITTotals `json:"totals"`
}

func SumSSNIT(rows []SSNITRow) SSNITTotals {
	t := SSNITTotals{EmployeeCount: len(rows)}
	for _, r := range rows {
		t.BasicSalary = t.BasicSalary.Add(r.BasicSalary)
		t.EmployeeSSNIT = t.EmployeeSSNIT.Add(r.EmployeeSSNIT)
		t.EmployerSSNIT = t.EmployerSSNIT.Add(r.EmployerSSNIT)
		t.TotalSSNIT = t.TotalSSNIT.Add(r.TotalSSNIT)
	}
	return t
}

// ========================================
// BANK ADVICE
// ========================================

type BankAdviceRow struct {
	UserID        string          `json:"user_id"`
	EmployeeCode  string          `json:"employee_code"`
	EmployeeName  string          `json:"employee_name"`
	BankName      string          `json:"bank_name"`
	BankBranch    string          `json:"bank_branch"`
	AccountNumber string          `json:"account_number"`
	NetPay        decimal.Decimal `json:"net_pay"`
}

type BankAdviceTotals struct {
	EmployeeCount int             `json:"employee_count"`
	NetPay        decimal.Decimal `json:"net_pay"`
}

type BankAdviceReport struct {
	Meta   Meta             `json:"meta"`
	Rows   []BankAdviceRow  `json:"rows"`
	Totals BankAdviceTotals `json:"totals"`
}

func SumBankAdvice(rows []BankAdviceRow) BankAdviceTotals {
	t := BankAdviceTotals{EmployeeCount: len(rows)}
	for _, r := range rows {
		t.NetPay = t.NetPay.Add(r.NetPay)
	}
	return t
}

// ========================================
// WITHHOLDING TAX
// ========================================

type WithholdingRow struct {
	UserID            string          `json:"user_id"`
	EmployeeCode      string          `json:"employee_code"`
	EmployeeName      string          `json:"employee_name"`
	TINNumber         string          `json:"tin_number"`
	EmploymentType    string          `json:"employment_type"`
	TaxableIncome     decimal.Decimal `json:"taxable_income"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
}

type WithholdingTotals struct {
	EmployeeCount     int             `json:"employee_count"`
	TaxableIncome     decimal.Decimal `json:"taxable_income"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
}

type WithholdingReport struct {
	Meta   Meta              `json:"meta"`
	Rows   []WithholdingRow  `json:"rows"`
	Totals WithholdingTotals `json:"totals"`
}

func SumWithholding(rows []WithholdingRow) WithholdingTotals {
	t := WithholdingTotals{EmployeeCount: len(rows)}
	for _, r := range rows {
		t.TaxableIncome = t.TaxableIncome.Add(r.TaxableIncome)
		t.WithholdingAmount = t.WithholdingAmount.Add(r.WithholdingAmount)
	}
	return t
}

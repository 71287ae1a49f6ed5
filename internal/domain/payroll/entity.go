package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
)

// ElementCategory enum
type ElementCategory string

const (
	CategoryAllowance ElementCategory = "allowance"
	CategoryDeduction ElementCategory = "deduction"
)

// AmountType enum
type AmountType string

const (
	AmountTypeFixed      AmountType = "fixed"
	AmountTypePercentage AmountType = "percentage"
)

// PayrollElement - tenant configured allowance or deduction
type PayrollElement struct {
	ID                string
	TenantID          string
	Name              string
	Category          ElementCategory
	AmountType        AmountType
	DefaultAmount     decimal.Decimal
	CalculationBase   *string
	IsTaxable         bool
	IsSsnitChargeable bool
	IsRecurring       bool
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ElementAssignment - element bound to one employee, either for every run
// (PayrollPeriodID nil) or for a single period
type ElementAssignment struct {
	ID              string
	TenantID        string
	UserID          string
	ElementID       string
	Amount          decimal.NullDecimal
	PayrollPeriodID *string
	CreatedAt       time.Time

	// Joined fields
	ElementName *string
}

// EmployeeElement is an element resolved for one employee in one run.
type EmployeeElement struct {
	Element  PayrollElement
	Override decimal.NullDecimal
}

// PayrollPeriod - one pay cycle of a tenant
type PayrollPeriod struct {
	ID          string
	TenantID    string
	PeriodName  string
	StartDate   time.Time
	EndDate     time.Time
	PaymentDate *time.Time
	IsClosed    bool
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const maxMonthlyPeriodDays = 31

// Days returns the inclusive length of the period.
func (p PayrollPeriod) Days() int {
	return int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
}

// UsesAnnualBands selects annual PAYE bands for periods longer than a month.
func (p PayrollPeriod) UsesAnnualBands() bool {
	return p.Days() > maxMonthlyPeriodDays
}

func (p PayrollPeriod) TaxYear() int {
	return p.EndDate.Year()
}

// RateDate is the date used to pick effective SSNIT and withholding rows.
func (p PayrollPeriod) RateDate() time.Time {
	return p.EndDate
}

// LineItem is one itemized earning or deduction on a payslip.
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Payslip - persisted result for one employee in one period
type Payslip struct {
	ID                   string
	TenantID             string
	UserID               string
	PayrollPeriodID      string
	BasicSalary          decimal.Decimal
	GrossPay             decimal.Decimal
	TotalTaxableIncome   decimal.Decimal
	PAYEAmount           decimal.Decimal
	WithholdingTaxAmount decimal.Decimal
	EmployeeSsnitAmount  decimal.Decimal
	EmployerSsnitAmount  decimal.Decimal
	TotalDeductions      decimal.Decimal
	NetPay               decimal.Decimal
	DetailedAllowances   []LineItem
	DetailedDeductions   []LineItem
	TaxRegime            TaxRegime
	TaxBandYear          *int
	TaxBandAnnual        *bool
	PayslipPath          *string
	GeneratedAt          time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// TaxRegime says how income tax was withheld for an employee.
type TaxRegime string

const (
	TaxRegimePAYE        TaxRegime = "paye"
	TaxRegimeWithholding TaxRegime = "withholding"
)

// BandTax is the portion of taxable income taxed inside one band.
type BandTax struct {
	BandStart decimal.Decimal
	BandEnd   decimal.NullDecimal
	Rate      decimal.Decimal
	Taxed     decimal.Decimal
	Tax       decimal.Decimal
}

// BandSetRef names the tax band rows a PAYE amount was computed from.
type BandSetRef struct {
	Year   int
	Annual bool
}

// PayslipDraft is the calculator output before it is given an id.
type PayslipDraft struct {
	UserID               string
	TaxRegime            TaxRegime
	BasicSalary          decimal.Decimal
	GrossPay             decimal.Decimal
	SsnitBase            decimal.Decimal
	TotalTaxableIncome   decimal.Decimal
	PAYEAmount           decimal.Decimal
	PAYEBreakdown        []BandTax
	TaxBands             *BandSetRef
	WithholdingRate      decimal.Decimal
	WithholdingTaxAmount decimal.Decimal
	EmployeeSsnitAmount  decimal.Decimal
	EmployerSsnitAmount  decimal.Decimal
	TotalDeductions      decimal.Decimal
	NetPay               decimal.Decimal
	DetailedAllowances   []LineItem
	DetailedDeductions   []LineItem
}

func (d PayslipDraft) ToPayslip(id, tenantID, periodID string, generatedAt time.Time) Payslip {
	p := Payslip{
		ID:                   id,
		TenantID:             tenantID,
		UserID:               d.UserID,
		PayrollPeriodID:      periodID,
		BasicSalary:          d.BasicSalary,
		GrossPay:             d.GrossPay,
		TotalTaxableIncome:   d.TotalTaxableIncome,
		PAYEAmount:           d.PAYEAmount,
		WithholdingTaxAmount: d.WithholdingTaxAmount,
		EmployeeSsnitAmount:  d.EmployeeSsnitAmount,
		EmployerSsnitAmount:  d.EmployerSsnitAmount,
		TotalDeductions:      d.TotalDeductions,
		NetPay:               d.NetPay,
		DetailedAllowances:   d.DetailedAllowances,
		DetailedDeductions:   d.DetailedDeductions,
		TaxRegime:            d.TaxRegime,
		GeneratedAt:          generatedAt,
	}
	if d.TaxBands != nil {
		year, annual := d.TaxBands.Year, d.TaxBands.Annual
		p.TaxBandYear = &year
		p.TaxBandAnnual = &annual
	}
	return p
}

// CalculationInput is everything the calculator may look at for one employee.
type CalculationInput struct {
	Employee         employee.Employee
	Period           PayrollPeriod
	Elements         []EmployeeElement
	Rates            statutory.RateSnapshot
	WithholdingTypes []string
}

// RunSuccess - one payslip written by a run
type RunSuccess struct {
	UserID    string
	PayslipID string
	NetPay    decimal.Decimal
}

// RunFailure - one employee skipped by a run
type RunFailure struct {
	UserID  string
	Kind    ErrorKind
	Reason  string
	Missing string
}

// RunResult - outcome of a payroll run
type RunResult struct {
	RunID           string
	TenantID        string
	PayrollPeriodID string
	StartedAt       time.Time
	FinishedAt      time.Time
	Succeeded       []RunSuccess
	Failed          []RunFailure
}

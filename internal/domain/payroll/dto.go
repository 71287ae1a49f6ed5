package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// ========== ELEMENT DTOs ==========

type CreateElementRequest struct {
	Name              string          `json:"name" validate:"required,max=100"`
	Category          string          `json:"category" validate:"required,oneof=allowance deduction"`
	AmountType        string          `json:"amount_type" validate:"required,oneof=fixed percentage"`
	DefaultAmount     decimal.Decimal `json:"default_amount"`
	CalculationBase   *string         `json:"calculation_base,omitempty"`
	IsTaxable         *bool           `json:"is_taxable,omitempty"`
	IsSsnitChargeable bool            `json:"is_ssnit_chargeable"`
	IsRecurring       *bool           `json:"is_recurring,omitempty"`
}

func (r *CreateElementRequest) Validate() error {
	errs := validator.Struct(r)
	validateAmount(&errs, AmountType(r.AmountType), r.DefaultAmount, r.CalculationBase)
	return errs.Err()
}

type UpdateElementRequest struct {
	ID                string           `json:"-"`
	Name              *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	AmountType        *string          `json:"amount_type,omitempty" validate:"omitempty,oneof=fixed percentage"`
	DefaultAmount     *decimal.Decimal `json:"default_amount,omitempty"`
	CalculationBase   *string          `json:"calculation_base,omitempty"`
	IsTaxable         *bool            `json:"is_taxable,omitempty"`
	IsSsnitChargeable *bool            `json:"is_ssnit_chargeable,omitempty"`
	IsRecurring       *bool            `json:"is_recurring,omitempty"`
	IsActive          *bool            `json:"is_active,omitempty"`
}

func (r *UpdateElementRequest) Validate() error {
	errs := validator.Struct(r)
	if r.DefaultAmount != nil && r.DefaultAmount.IsNegative() {
		errs.Add("default_amount", "must be non-negative")
	}
	return errs.Err()
}

// Apply merges the request into el and re-checks the amount rules.
func (r *UpdateElementRequest) Apply(el PayrollElement) (PayrollElement, error) {
	if r.Name != nil {
		el.Name = *r.Name
	}
	if r.AmountType != nil {
		el.AmountType = AmountType(*r.AmountType)
	}
	if r.DefaultAmount != nil {
		el.DefaultAmount = *r.DefaultAmount
	}
	if r.CalculationBase != nil {
		el.CalculationBase = r.CalculationBase
	}
	if el.AmountType == AmountTypeFixed {
		el.CalculationBase = nil
	}
	if r.IsTaxable != nil {
		el.IsTaxable = *r.IsTaxable
	}
	if r.IsSsnitChargeable != nil {
		el.IsSsnitChargeable = *r.IsSsnitChargeable
	}
	if r.IsRecurring != nil {
		el.IsRecurring = *r.IsRecurring
	}
	if r.IsActive != nil {
		el.IsActive = *r.IsActive
	}

	var errs validator.ValidationErrors
	validateAmount(&errs, el.AmountType, el.DefaultAmount, el.CalculationBase)
	return el, errs.Err()
}

func validateAmount(errs *validator.ValidationErrors, amountType AmountType, amount decimal.Decimal, base *string) {
	if amount.IsNegative() {
		errs.Add("default_amount", "must be non-negative")
	}
	if amountType != AmountTypePercentage {
		return
	}
	if base == nil || validator.IsEmpty(*base) {
		errs.Add("calculation_base", "is required for percentage elements")
		return
	}
	if !validator.IsInSlice(*base, employee.CalculationBases) {
		errs.Add("calculation_base", "is not a supported employee field")
	}
}

type ElementResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          ElementCategory `json:"category"`
	AmountType        AmountType      `json:"amount_type"`
	DefaultAmount     decimal.Decimal `json:"default_amount"`
	CalculationBase   *string         `json:"calculation_base"`
	IsTaxable         bool            `json:"is_taxable"`
	IsSsnitChargeable bool            `json:"is_ssnit_chargeable"`
	IsRecurring       bool            `json:"is_recurring"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

func NewElementResponse(el PayrollElement) ElementResponse {
	return ElementResponse{
		ID:                el.ID,
		Name:              el.Name,
		Category:          el.Category,
		AmountType:        el.AmountType,
		DefaultAmount:     el.DefaultAmount,
		CalculationBase:   el.CalculationBase,
		IsTaxable:         el.IsTaxable,
		IsSsnitChargeable: el.IsSsnitChargeable,
		IsRecurring:       el.IsRecurring,
		IsActive:          el.IsActive,
		CreatedAt:         el.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         el.UpdatedAt.Format(time.RFC3339),
	}
}

type AssignElementRequest struct {
	ElementID       string           `json:"-"`
	UserID          string           `json:"user_id" validate:"required,uuid"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	PayrollPeriodID *string          `json:"payroll_period_id,omitempty" validate:"omitempty,uuid"`
}

func (r *AssignElementRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Amount != nil && r.Amount.IsNegative() {
		errs.Add("amount", "must be non-negative")
	}
	return errs.Err()
}

type AssignmentResponse struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	ElementID       string           `json:"element_id"`
	ElementName     *string          `json:"element_name,omitempty"`
	Amount          *decimal.Decimal `json:"amount"`
	PayrollPeriodID *string          `json:"payroll_period_id"`
	CreatedAt       string           `json:"created_at"`
}

func NewAssignmentResponse(a ElementAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		ElementID:       a.ElementID,
		ElementName:     a.ElementName,
		PayrollPeriodID: a.PayrollPeriodID,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
	if a.Amount.Valid {
		amount := a.Amount.Decimal
		resp.Amount = &amount
	}
	return resp
}

// ========== PERIOD DTOs ==========

type CreatePeriodRequest struct {
	PeriodName  string  `json:"period_name" validate:"required,max=100"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	PaymentDate *string `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreatePeriodRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	if end.Before(start) {
		errs.Add("end_date", "must not be before start_date")
	}
	return errs.Err()
}

type PeriodResponse struct {
	ID          string  `json:"id"`
	PeriodName  string  `json:"period_name"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	PaymentDate *string `json:"payment_date"`
	IsClosed    bool    `json:"is_closed"`
	ClosedAt    *string `json:"closed_at"`
	TaxYear     int     `json:"tax_year"`
	Granularity string  `json:"granularity"`
}

func NewPeriodResponse(p PayrollPeriod) PeriodResponse {
	resp := PeriodResponse{
		ID:          p.ID,
		PeriodName:  p.PeriodName,
		StartDate:   p.StartDate.Format(dateLayout),
		EndDate:     p.EndDate.Format(dateLayout),
		IsClosed:    p.IsClosed,
		TaxYear:     p.TaxYear(),
		Granularity: "monthly",
	}
	if p.UsesAnnualBands() {
		resp.Granularity = "annual"
	}
	if p.PaymentDate != nil {
		s := p.PaymentDate.Format(dateLayout)
		resp.PaymentDate = &s
	}
	if p.ClosedAt != nil {
		s := p.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &s
	}
	return resp
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	EmployeeName         *string         `json:"employee_name,omitempty"`
	EmployeeCode         *string         `json:"employee_code,omitempty"`
	PayrollPeriodID      string          `json:"payroll_period_id"`
	BasicSalary          decimal.Decimal `json:"basic_salary"`
	GrossPay             decimal.Decimal `json:"gross_pay"`
	TotalTaxableIncome   decimal.Decimal `json:"total_taxable_income"`
	PAYEAmount           decimal.Decimal `json:"paye_amount"`
	WithholdingTaxAmount decimal.Decimal `json:"withholding_tax_amount"`
	EmployeeSsnitAmount  decimal.Decimal `json:"employee_ssnit_amount"`
	EmployerSsnitAmount  decimal.Decimal `json:"employer_ssnit_amount"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	NetPay               decimal.Decimal `json:"net_pay"`
	TaxRegime            TaxRegime       `json:"tax_regime"`
	DetailedAllowances   []LineItem      `json:"detailed_allowances"`
	DetailedDeductions   []LineItem      `json:"detailed_deductions"`
	PayslipPath          *string         `json:"payslip_path"`
	GeneratedAt          string          `json:"generated_at"`
}

func NewPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:                   p.ID,
		UserID:               p.UserID,
		EmployeeName:         p.EmployeeName,
		EmployeeCode:         p.EmployeeCode,
		PayrollPeriodID:      p.PayrollPeriodID,
		BasicSalary:          p.BasicSalary,
		GrossPay:             p.GrossPay,
		TotalTaxableIncome:   p.TotalTaxableIncome,
		PAYEAmount:           p.PAYEAmount,
		WithholdingTaxAmount: p.WithholdingTaxAmount,
		EmployeeSsnitAmount:  p.EmployeeSsnitAmount,
		EmployerSsnitAmount:  p.EmployerSsnitAmount,
		TotalDeductions:      p.TotalDeductions,
		NetPay:               p.NetPay,
		TaxRegime:            p.TaxRegime,
		DetailedAllowances:   p.DetailedAllowances,
		DetailedDeductions:   p.DetailedDeductions,
		PayslipPath:          p.PayslipPath,
		GeneratedAt:          p.GeneratedAt.Format(time.RFC3339),
	}
}

type ExportPayslipsResponse struct {
	PayrollPeriodID string   `json:"payroll_period_id"`
	Exported        int      `json:"exported"`
	Paths           []string `json:"paths"`
}

// ========== RUN DTOs ==========

type RunSuccessResponse struct {
	UserID    string          `json:"user_id"`
	PayslipID string          `json:"payslip_id"`
	NetPay    decimal.Decimal `json:"net_pay"`
}

type RunFailureResponse struct {
	UserID  string    `json:"user_id"`
	Kind    ErrorKind `json:"kind"`
	Reason  string    `json:"reason"`
	Missing string    `json:"missing,omitempty"`
}

type RunResultResponse struct {
	RunID           string               `json:"run_id"`
	TenantID        string               `json:"tenant_id"`
	PayrollPeriodID string               `json:"payroll_period_id"`
	StartedAt       string               `json:"started_at"`
	FinishedAt      string               `json:"finished_at"`
	SucceededCount  int                  `json:"succeeded_count"`
	FailedCount     int                  `json:"failed_count"`
	Succeeded       []RunSuccessResponse `json:"succeeded"`
	Failed          []RunFailureResponse `json:"failed"`
}

func NewRunResultResponse(r RunResult) RunResultResponse {
	resp := RunResultResponse{
		RunID:           r.RunID,
		TenantID:        r.TenantID,
		PayrollPeriodID: r.PayrollPeriodID,
		StartedAt:       r.StartedAt.Format(time.RFC3339),
		FinishedAt:      r.FinishedAt.Format(time.RFC3339),
		SucceededCount:  len(r.Succeeded),
		FailedCount:     len(r.Failed),
		Succeeded:       make([]RunSuccessResponse, 0, len(r.Succeeded)),
		Failed:          make([]RunFailureResponse, 0, len(r.Failed)),
	}
	for _, s := range r.Succeeded {
		resp.Succeeded = append(resp.Succeeded, RunSuccessResponse(s))
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, RunFailureResponse(f))
	}
	return resp
}

package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/money"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/validator"
)

const (
	labelEmployeeSsnit = "SSNIT (employee)"
	labelPAYE          = "PAYE"
	labelWithholding   = "Withholding tax"
)

// ComputeForEmployee turns one employee snapshot into a payslip draft. It
// reads nothing but its input, so equal inputs always give equal drafts.
// Every failure is a *payroll.Error naming the employee and period.
func ComputeForEmployee(in payroll.CalculationInput) (payroll.PayslipDraft, error) {
	emp := in.Employee
	periodID := in.Period.ID

	if emp.BasicSalary.IsNegative() {
		return payroll.PayslipDraft{}, payroll.InvariantViolation(emp.UserID, periodID, payroll.ErrNegativeBasicSalary)
	}
	basic := money.Round(emp.BasicSalary)

	draft := payroll.PayslipDraft{
		UserID:             emp.UserID,
		TaxRegime:          payroll.TaxRegimePAYE,
		BasicSalary:        basic,
		DetailedAllowances: []payroll.LineItem{},
		DetailedDeductions: []payroll.LineItem{},
	}

	// Elements
	allowances := decimal.Zero
	taxableAllowances := decimal.Zero
	ssnitChargeable := basic
	elementDeductions := decimal.Zero

	for _, ee := range in.Elements {
		amount, err := elementAmount(emp, ee)
		if err != nil {
			return payroll.PayslipDraft{}, payroll.ConfigurationError(emp.UserID, periodID, "calculation_base for element "+ee.Element.Name, err)
		}
		item := payroll.LineItem{Name: ee.Element.Name, Amount: amount}

		switch ee.Element.Category {
		case payroll.CategoryAllowance:
			allowances = allowances.Add(amount)
			if ee.Element.IsTaxable {
				taxableAllowances = taxableAllowances.Add(amount)
			}
			if ee.Element.IsSsnitChargeable {
				ssnitChargeable = ssnitChargeable.Add(amount)
			}
			draft.DetailedAllowances = append(draft.DetailedAllowances, item)
		case payroll.CategoryDeduction:
			elementDeductions = elementDeductions.Add(amount)
			draft.DetailedDeductions = append(draft.DetailedDeductions, item)
		default:
			return payroll.PayslipDraft{}, payroll.ConfigurationError(emp.UserID, periodID, "category for element "+ee.Element.Name,
				fmt.Errorf("unknown element category %q", ee.Element.Category))
		}
	}

	draft.GrossPay = basic.Add(allowances)

	// SSNIT
	if in.Rates.Ssnit == nil {
		return payroll.PayslipDraft{}, payroll.ConfigurationError(emp.UserID, periodID,
			"ssnit_rate effective "+in.Rates.AsOf.Format("2006-01-02"), statutory.ErrSsnitRateNotFound)
	}
	ssnit := ComputeSsnit(ssnitChargeable, *in.Rates.Ssnit)
	draft.SsnitBase = ssnit.Base
	draft.EmployeeSsnitAmount = ssnit.Employee
	draft.EmployerSsnitAmount = ssnit.Employer

	// Taxable income
	draft.TotalTaxableIncome = basic.Add(taxableAllowances).Sub(ssnit.Employee)
	if draft.TotalTaxableIncome.IsNegative() {
		return payroll.PayslipDraft{}, payroll.InvariantViolation(emp.UserID, periodID,
			fmt.Errorf("%w: %s", payroll.ErrNegativeTaxableIncome, draft.TotalTaxableIncome.StringFixed(2)))
	}

	// Income tax
	draft.PAYEAmount = decimal.Zero
	draft.WithholdingTaxAmount = decimal.Zero
	if validator.IsInSlice(string(emp.EmploymentType), in.WithholdingTypes) {
		rate, ok := in.Rates.WithholdingFor(string(emp.EmploymentType))
		if !ok {
			return payroll.PayslipDraft{}, payroll.ConfigurationError(emp.UserID, periodID,
				fmt.Sprintf("withholding_rate for %s effective %s", emp.EmploymentType, in.Rates.AsOf.Format("2006-01-02")),
				statutory.ErrWithholdingRateNotFound)
		}
		draft.TaxRegime = payroll.TaxRegimeWithholding
		draft.WithholdingRate = rate.Rate
		draft.WithholdingTaxAmount = money.Round(draft.TotalTaxableIncome.Mul(rate.Rate))
	} else {
		if in.Rates.Bands.Empty() {
			return payroll.PayslipDraft{}, payroll.ConfigurationError(emp.UserID, periodID,
				fmt.Sprintf("tax_bands for %d (%s)", in.Rates.Bands.RequestedYear, granularity(in.Rates.Bands.IsAnnual)),
				statutory.ErrTaxBandsNotFound)
		}
		draft.PAYEAmount, draft.PAYEBreakdown = ProgressiveTax(draft.TotalTaxableIncome, in.Rates.Bands.Bands)
		draft.TaxBands = &payroll.BandSetRef{Year: in.Rates.Bands.ResolvedYear, Annual: in.Rates.Bands.IsAnnual}
	}

	// Totals
	draft.TotalDeductions = money.Sum(draft.EmployeeSsnitAmount, draft.PAYEAmount, draft.WithholdingTaxAmount, elementDeductions)
	draft.NetPay = draft.GrossPay.Sub(draft.TotalDeductions)
	if draft.NetPay.IsNegative() {
		return payroll.PayslipDraft{}, payroll.InvariantViolation(emp.UserID, periodID,
			fmt.Errorf("%w: gross %s, deductions %s", payroll.ErrNegativeNetPay,
				draft.GrossPay.StringFixed(2), draft.TotalDeductions.StringFixed(2)))
	}

	draft.DetailedDeductions = append(statutoryLines(draft), draft.DetailedDeductions...)
	return draft, nil
}

// statutoryLines lists the SSNIT and income tax deductions ahead of the
// element deductions on the payslip.
func statutoryLines(d payroll.PayslipDraft) []payroll.LineItem {
	lines := []payroll.LineItem{{Name: labelEmployeeSsnit, Amount: d.EmployeeSsnitAmount}}
	if d.TaxRegime == payroll.TaxRegimeWithholding {
		return append(lines, payroll.LineItem{Name: labelWithholding, Amount: d.WithholdingTaxAmount})
	}
	return append(lines, payroll.LineItem{Name: labelPAYE, Amount: d.PAYEAmount})
}

// elementAmount resolves a fixed or percentage element for emp. An override
// replaces the default amount, or the percent for percentage elements.
func elementAmount(emp employee.Employee, ee payroll.EmployeeElement) (decimal.Decimal, error) {
	amount := ee.Element.DefaultAmount
	if ee.Override.Valid {
		amount = ee.Override.Decimal
	}

	switch ee.Element.AmountType {
	case payroll.AmountTypeFixed:
		return money.Round(amount), nil
	case payroll.AmountTypePercentage:
		if ee.Element.CalculationBase == nil || *ee.Element.CalculationBase == "" {
			return decimal.Zero, payroll.ErrMissingCalculationBase
		}
		base, ok := emp.Field(*ee.Element.CalculationBase)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", payroll.ErrUnsupportedCalculationBase, *ee.Element.CalculationBase)
		}
		return money.Round(money.Percent(base, amount)), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown amount type %q", ee.Element.AmountType)
	}
}

// ResolveElements picks the elements that apply to userID in periodID.
// Active recurring elements apply to everyone and may carry a per-employee
// override. Non-recurring elements apply only through an assignment bound to
// the period. A period-bound assignment wins over a standing one.
func ResolveElements(userID, periodID string, catalog []payroll.PayrollElement, assignments []payroll.ElementAssignment) []payroll.EmployeeElement {
	standing := make(map[string]payroll.ElementAssignment)
	forPeriod := make(map[string]payroll.ElementAssignment)
	for _, a := range assignments {
		if a.UserID != userID {
			continue
		}
		switch {
		case a.PayrollPeriodID == nil:
			standing[a.ElementID] = a
		case *a.PayrollPeriodID == periodID:
			forPeriod[a.ElementID] = a
		}
	}

	var resolved []payroll.EmployeeElement
	for _, el := range catalog {
		if !el.IsActive {
			continue
		}

		ee := payroll.EmployeeElement{Element: el}
		if a, ok := forPeriod[el.ID]; ok {
			ee.Override = a.Amount
		} else if a, ok := standing[el.ID]; ok && el.IsRecurring {
			ee.Override = a.Amount
		} else if !el.IsRecurring {
			continue
		}
		resolved = append(resolved, ee)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i].Element, resolved[j].Element
		if a.Category != b.Category {
			return a.Category == payroll.CategoryAllowance
		}
		return a.Name < b.Name
	})
	return resolved
}

func granularity(isAnnual bool) string {
	if isAnnual {
		return "annual"
	}
	return "monthly"
}

package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPeriodNotFound             = errors.New("payroll period not found")
	ErrPeriodClosed               = errors.New("payroll period is closed")
	ErrPeriodNotClosed            = errors.New("payroll period is not closed")
	ErrPeriodNameExists           = errors.New("payroll period name already exists")
	ErrPeriodHasNoPayslips        = errors.New("payroll period has no payslips")
	ErrElementNotFound            = errors.New("payroll element not found")
	ErrElementNameExists          = errors.New("payroll element name already exists")
	ErrElementInactive            = errors.New("payroll element is inactive")
	ErrAssignmentExists           = errors.New("payroll element already assigned to this employee")
	ErrPayslipNotFound            = errors.New("payslip not found")
	ErrUnsupportedCalculationBase = errors.New("unsupported calculation base")
	ErrMissingCalculationBase     = errors.New("percentage element has no calculation base")
	ErrNegativeTaxableIncome      = errors.New("taxable income is negative")
	ErrNegativeNetPay             = errors.New("deductions exceed gross pay")
	ErrNegativeBasicSalary        = errors.New("basic salary is negative")
)

// ErrorKind classifies payroll failures.
type ErrorKind string

const (
	KindConfiguration        ErrorKind = "configuration"
	KindValidation           ErrorKind = "validation"
	KindPersistence          ErrorKind = "persistence"
	KindCalculationInvariant ErrorKind = "calculation_invariant"
)

// Kind sentinels, matched by errors.Is against any *Error of that kind.
var (
	ErrConfiguration        = errors.New("payroll configuration error")
	ErrValidation           = errors.New("payroll validation error")
	ErrPersistence          = errors.New("payroll persistence error")
	ErrCalculationInvariant = errors.New("payroll calculation invariant violated")
)

// Error carries the context needed to audit a failed calculation or run.
type Error struct {
	Kind       ErrorKind
	EmployeeID string
	PeriodID   string
	Missing    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.EmployeeID != "" {
		fmt.Fprintf(&b, " employee=%s", e.EmployeeID)
	}
	if e.PeriodID != "" {
		fmt.Fprintf(&b, " period=%s", e.PeriodID)
	}
	if e.Missing != "" {
		fmt.Fprintf(&b, " missing=%q", e.Missing)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrPersistence:
		return e.Kind == KindPersistence
	case ErrCalculationInvariant:
		return e.Kind == KindCalculationInvariant
	}
	return false
}

func ConfigurationError(employeeID, periodID, missing string, err error) *Error {
	return &Error{Kind: KindConfiguration, EmployeeID: employeeID, PeriodID: periodID, Missing: missing, Err: err}
}

func ValidationError(periodID string, err error) *Error {
	return &Error{Kind: KindValidation, PeriodID: periodID, Err: err}
}

func PersistenceError(periodID string, err error) *Error {
	return &Error{Kind: KindPersistence, PeriodID: periodID, Err: err}
}

func InvariantViolation(employeeID, periodID string, err error) *Error {
	return &Error{Kind: KindCalculationInvariant, EmployeeID: employeeID, PeriodID: periodID, Err: err}
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

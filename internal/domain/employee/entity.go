package employee

import (
	"github.com/shopspring/decimal"
)

// Employee is the payroll view of a staff member. The roster is owned by the
// HR side of the product; payroll only reads it.
type Employee struct {
	UserID            string
	TenantID          string
	EmployeeCode      string
	FullName          string
	EmploymentType    EmploymentType
	BasicSalary       decimal.Decimal
	IsActive          bool
	IsPayrollEligible bool
	DepartmentID      *string
	DepartmentName    *string
	TINNumber         *string
	SSNITNumber       *string
	BankName          *string
	BankBranch        *string
	BankAccountNumber *string
}

type EmploymentType string

const (
	EmploymentTypePermanent  EmploymentType = "permanent"
	EmploymentTypeProbation  EmploymentType = "probation"
	EmploymentTypeContract   EmploymentType = "contract"
	EmploymentTypeCasual     EmploymentType = "casual"
	EmploymentTypeConsultant EmploymentType = "consultant"
	EmploymentTypeInternship EmploymentType = "internship"
)

// Payable reports whether the employee should be included in a payroll run.
func (e Employee) Payable() bool {
	return e.IsActive && e.IsPayrollEligible
}

// Field resolves a named numeric field used as the base of percentage
// payroll elements.
func (e Employee) Field(name string) (decimal.Decimal, bool) {
	switch name {
	case FieldBasicSalary:
		return e.BasicSalary, true
	default:
		return decimal.Zero, false
	}
}

const FieldBasicSalary = "basic_salary"

// CalculationBases lists the fields accepted by Field.
var CalculationBases = []string{FieldBasicSalary}

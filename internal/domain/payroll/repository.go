package payroll

import (
	"context"
	"time"
)

// ElementRepository is the tenant-scoped element catalog. Every method takes
// the tenant id so rows of another tenant are never visible.
type ElementRepository interface {
	// Elements
	CreateElement(ctx context.Context, el PayrollElement) (PayrollElement, error)
	GetElementByID(ctx context.Context, tenantID string, id string) (PayrollElement, error)
	ListElements(ctx context.Context, tenantID string, activeOnly bool) ([]PayrollElement, error)
	UpdateElement(ctx context.Context, el PayrollElement) (PayrollElement, error)
	DeactivateElement(ctx context.Context, tenantID string, id string) error

	// Employee assignments
	CreateAssignment(ctx context.Context, a ElementAssignment) (ElementAssignment, error)
	ListAssignmentsByEmployee(ctx context.Context, tenantID string, userID string) ([]ElementAssignment, error)
	// ListAssignmentsForPeriod returns recurring assignments plus those bound to periodID.
	ListAssignmentsForPeriod(ctx context.Context, tenantID string, periodID string) ([]ElementAssignment, error)
}

type PeriodRepository interface {
	CreatePeriod(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)
	GetPeriodByID(ctx context.Context, tenantID string, id string) (PayrollPeriod, error)
	ListPeriods(ctx context.Context, tenantID string) ([]PayrollPeriod, error)
	// LockPeriod reads the period and holds a row lock until the surrounding
	// transaction ends.
	LockPeriod(ctx context.Context, tenantID string, id string) (PayrollPeriod, error)
	ClosePeriod(ctx context.Context, tenantID string, id string, closedAt time.Time) error
}

type PayslipRepository interface {
	DeleteByPeriod(ctx context.Context, tenantID string, periodID string) (int64, error)
	BulkInsert(ctx context.Context, payslips []Payslip) error
	ListByPeriod(ctx context.Context, tenantID string, periodID string) ([]Payslip, error)
	GetByID(ctx context.Context, tenantID string, id string) (Payslip, error)
	CountByPeriod(ctx context.Context, tenantID string, periodID string) (int, error)
	UpdatePath(ctx context.Context, tenantID string, id string, path string) error
}

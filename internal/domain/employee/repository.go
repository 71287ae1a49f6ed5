package employee

import "context"

// Roster is the read-only employee source for payroll. Every method is scoped
// by tenant.
type Roster interface {
	ListPayrollEligible(ctx context.Context, tenantID string) ([]Employee, error)
	GetByID(ctx context.Context, tenantID string, userID string) (Employee, error)
}

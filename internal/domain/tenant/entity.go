package tenant

import "time"

// Tenant is an employer organisation using the payroll service.
type Tenant struct {
	ID        string
	Name      string
	TINNumber *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

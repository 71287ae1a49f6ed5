package tenant

import "errors"

var (
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrTenantRequired    = errors.New("tenant context is required")
	ErrPlatformAdminOnly = errors.New("platform administrator privilege required")
)

package tenant

import "context"

// Context identifies who is acting and on behalf of which tenant. It is
// built once per request from verified token claims and passed down explicitly.
type Context struct {
	TenantID        string
	UserID          string
	IsPlatformAdmin bool
}

// HasTenant reports whether the caller is bound to a tenant.
func (c Context) HasTenant() bool {
	return c.TenantID != ""
}

type contextKey struct{}

// WithContext stores tc on ctx for the HTTP layer.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext returns the tenant context set by WithContext.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(contextKey{}).(Context)
	return tc, ok
}

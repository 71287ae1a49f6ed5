package middleware

import (
	"net/http"

	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
)

// RequireTenant only lets through callers bound to a tenant.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc, ok := tenant.FromContext(r.Context())
		if !ok || !tc.HasTenant() {
			response.HandleError(w, tenant.ErrTenantRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"

	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
)

func PlatformAdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc, ok := tenant.FromContext(r.Context())
		if !ok || !tc.IsPlatformAdmin {
			response.HandleError(w, tenant.ErrPlatformAdminOnly)
			return
		}

		next.ServeHTTP(w, r)
	})
}

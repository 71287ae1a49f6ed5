package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token and stores
// the caller's tenant.Context for the handlers.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, jwt.ErrInvalidClaims)
				return
			}

			tc, err := jwt.ContextFromClaims(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), tc)))
		}
		return http.HandlerFunc(hfn)
	}
}

package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/validator"
)

// UUIDParam answers with notFound when the named route parameter is not a
// UUID, since no row can carry such an id.
func UUIDParam(name string, notFound error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validator.IsValidUUID(chi.URLParam(r, name)) {
				response.HandleError(w, notFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

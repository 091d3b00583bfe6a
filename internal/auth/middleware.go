package auth

import (
	"net/http"
	"strings"

	"github.com/brickfolio/brickfolio/internal/platform/httpx"
	"github.com/brickfolio/brickfolio/internal/shared"
)

// RequireUser rejects requests without a valid bearer token and stores the
// resolved principal in the request context for the handlers downstream.
func RequireUser(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
				return
			}
			principal, err := service.Verify(token)
			if err != nil {
				httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
				return
			}
			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects authenticated principals without the admin role.
// It must run inside RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := shared.PrincipalFromContext(r.Context())
		if !ok {
			httpx.Write(w, http.StatusUnauthorized, httpx.Unauthorized())
			return
		}
		if !principal.IsAdmin() {
			httpx.Write(w, http.StatusForbidden, httpx.Forbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

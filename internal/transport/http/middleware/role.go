package middleware

import (
	"fmt"
	"net/http"
)

// RequireRole admits requests whose verified claims carry one of allowedRoles
// (domain.RoleAdmin and friends). It must be mounted after Auth.
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.AccountID == "" {
				writeJSONError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				writeJSONError(w, r, http.StatusForbidden, fmt.Sprintf("role %q may not access this resource", claims.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

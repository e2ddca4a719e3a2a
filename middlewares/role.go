package middlewares

import (
	"net/http"
	"slices"

	"property-service/helper"
	"property-service/models"
)

func RequireRole(roles ...models.RoleType) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				helper.WriteJsonError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, user.Role) {
				helper.WriteJsonError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}

// Manager gates manager-only routes.
func (am *AuthMiddleware) Manager(next http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(am.RequireAuth, RequireRole(models.ManagerRole))(next)
}

// Anyone gates routes both roles may reach.
func (am *AuthMiddleware) Anyone(next http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(am.RequireAuth, RequireRole(models.ManagerRole, models.StaffRole))(next)
}

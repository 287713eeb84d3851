package middleware

import (
	"net/http"
	"slices"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/auth"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/user"
	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
)

// RequireRoles rejects callers whose role is not listed. It must run after
// AuthRequired.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !slices.Contains(roles, actor.Role) {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireHR requires admin or superuser role
func RequireHR(next http.Handler) http.Handler {
	return RequireRoles(user.RoleAdmin, user.RoleSuperuser)(next)
}

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles(user.RoleAdmin)(next)
}

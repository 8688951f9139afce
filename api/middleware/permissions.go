package middleware

import (
	"net/http"

	"github.com/fuelguard/fuelguard-backend/api/responses"
	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/rbac"
)

// RequirePermission gates a route on the actor's role grants. Roles are
// a closed set, so an unknown role carries no permissions and is denied.
func RequirePermission(perm rbac.Permission, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !role.Can(perm) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission admits the actor when the role holds at least
// one of the listed grants. Used where two actor classes share a
// surface, like the task thread serving both company and customs.
func RequireAnyPermission(logg *logger.Logger, perms ...rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			for _, perm := range perms {
				if role.Can(perm) {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
		})
	}
}

// RequireRole gates a route on an exact role match. Used for the few
// surfaces that belong to one role regardless of permission grants.
func RequireRole(role rbac.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

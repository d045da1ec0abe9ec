package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/response"
)

// requireRole lets the request through when allow accepts the actor, and
// answers with denied otherwise. Requests without an actor are always denied.
func requireRole(denied error, allow func(user.Actor) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor, ok := ActorFromContext(r.Context()); !ok || !allow(actor) {
				response.HandleError(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	RequireStaff   = requireRole(user.ErrStaffAccessRequired, user.Actor.IsStaff)
	RequireAdmin   = requireRole(user.ErrAdminPrivilegeRequired, user.Actor.IsAdmin)
	RequireManager = requireRole(user.ErrManagerAccessRequired, func(a user.Actor) bool {
		return a.IsManager() || a.IsAdmin()
	})
)

// RequirePermission checks the actor's role against user.RolePermissions
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			switch {
			case !ok:
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
			case !user.HasPermission(actor.Role, permission):
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, actor.Role))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

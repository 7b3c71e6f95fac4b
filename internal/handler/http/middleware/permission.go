package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/jwt"
)

// RequirePermission rejects callers whose role lacks permission.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := jwt.IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			switch {
			case !identity.Role.IsKnown():
				response.Forbidden(w, fmt.Sprintf("%s: %q", user.ErrUnknownRole, identity.Role))
			case !identity.Role.Can(permission):
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireEmployee rejects accounts that are not linked to an employee
// record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := jwt.IdentityFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if identity.EmployeeID == "" {
			response.HandleError(w, user.ErrEmployeeIDRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/employee-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token and keeps
// the raw token on the context for calls to the backend.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != "access" || !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}

		if _, err := jwt.IdentityFromClaims(claims); err != nil {
			response.HandleError(w, err)
			return
		}

		ctx := r.Context()
		if raw := jwtauth.TokenFromHeader(r); raw != "" {
			ctx = jwt.WithBearer(ctx, raw)
		} else if raw := jwtauth.TokenFromQuery(r); raw != "" {
			ctx = jwt.WithBearer(ctx, raw)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}

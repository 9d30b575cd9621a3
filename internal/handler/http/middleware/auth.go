package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type employeeIDKey struct{}

// AuthRequired rejects requests without a valid access token and stores the caller's
// employee id in the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			employeeID, ok := claims["employee_id"].(string)
			if !ok || employeeID == "" {
				response.HandleError(w, auth.ErrEmployeeClaimMissing)
				return
			}

			ctx := context.WithValue(r.Context(), employeeIDKey{}, employeeID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// EmployeeID returns the caller set by AuthRequired.
func EmployeeID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(employeeIDKey{}).(string)
	return id, ok && id != ""
}

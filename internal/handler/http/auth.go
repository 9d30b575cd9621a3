package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/response"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService jwt.Service
}

func NewAuthHandler(jwtService jwt.Service) AuthHandler {
	return &AuthHandlerImpl{jwtService: jwtService}
}

// Logout implements AuthHandler. The presented access token stays revoked until it
// expires.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	raw := jwtauth.TokenFromHeader(r)
	if raw == "" {
		raw = jwtauth.TokenFromCookie(r)
	}
	if raw == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	a.jwtService.RevokeToken(raw, token.Expiration())

	employeeID, _ := middleware.EmployeeID(r.Context())
	slog.Info("access token revoked", "employee_id", employeeID)
	response.Success(w, "Logged out successfully")
}

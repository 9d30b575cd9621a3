package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrEmployeeClaimMissing):
		Forbidden(w, "Account is not linked to an employee")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNotSubordinate):
		Forbidden(w, "Employee is not in your reporting line")
	case errors.Is(err, employee.ErrInvalidScope):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeIDRequired), errors.Is(err, employee.ErrSupervisorIDRequired):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")
	case errors.Is(err, report.ErrReportAccessDenied):
		Forbidden(w, "You do not have access to this report")
	case errors.Is(err, report.ErrInvalidDate):
		ValidationError(w, map[string]string{"date": err.Error()})

	// Approval domain errors
	case errors.Is(err, approval.ErrNotAuthorized):
		Forbidden(w, "You are not authorized to review this report")
	case errors.Is(err, approval.ErrApprovalNotFound):
		NotFound(w, "No approval is assigned to you for this report")
	case errors.Is(err, approval.ErrAlreadyReviewed):
		Conflict(w, "You have already reviewed this report")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

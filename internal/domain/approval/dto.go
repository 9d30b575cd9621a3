package approval

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RatingBounds is the accepted closed range for a review rating.
type RatingBounds struct {
	Min float64
	Max float64
}

var DefaultRatingBounds = RatingBounds{Min: 1, Max: 5}

type ReviewRequest struct {
	ReportID     string   `json:"-"`
	SupervisorID string   `json:"-"`
	Rating       *float64 `json:"rating"`
	Feedback     *string  `json:"feedback"`
}

func (r *ReviewRequest) Validate(bounds RatingBounds) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReportID) {
		errs = append(errs, validator.ValidationError{
			Field:   "report_id",
			Message: "report_id is required",
		})
	}

	if validator.IsEmpty(r.SupervisorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "supervisor_id",
			Message: "supervisor_id is required",
		})
	}

	if r.Rating != nil {
		v := *r.Rating
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0) || v < bounds.Min || v > bounds.Max:
			errs = append(errs, validator.ValidationError{
				Field:   "rating",
				Message: fmt.Sprintf("rating must be between %g and %g", bounds.Min, bounds.Max),
			})
		case decimal.NewFromFloat(v).Exponent() < -2:
			// the column is NUMERIC(4, 2); postgres would round silently.
			errs = append(errs, validator.ValidationError{
				Field:   "rating",
				Message: "rating must have at most two decimal places",
			})
		}
	}

	if r.Feedback != nil {
		trimmed := strings.TrimSpace(*r.Feedback)
		if trimmed == "" {
			r.Feedback = nil
		} else {
			r.Feedback = &trimmed
		}
	}

	if r.Rating == nil && r.Feedback == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "rating",
			Message: "rating or feedback is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApprovalResponse struct {
	ID             string     `json:"id"`
	ReportID       string     `json:"report_id"`
	SupervisorID   string     `json:"supervisor_id"`
	SupervisorName *string    `json:"supervisor_name,omitempty"`
	SupervisorCode *string    `json:"supervisor_code,omitempty"`
	Status         Status     `json:"status"`
	Rating         *float64   `json:"rating"`
	Feedback       *string    `json:"feedback"`
	ApprovedAt     *time.Time `json:"approved_at"`
}

func ToResponse(a ApprovalRecord) ApprovalResponse {
	return ApprovalResponse{
		ID:             a.ID,
		ReportID:       a.ReportID,
		SupervisorID:   a.SupervisorID,
		SupervisorName: a.SupervisorName,
		SupervisorCode: a.SupervisorCode,
		Status:         a.Status,
		Rating:         a.Rating,
		Feedback:       a.Feedback,
		ApprovedAt:     a.ApprovedAt,
	}
}

type ReviewResponse struct {
	Approval        ApprovalResponse `json:"approval"`
	ReportStatus    report.Status    `json:"report_status"`
	CompositeRating *float64         `json:"composite_rating"`
}

type PendingApprovalResponse struct {
	ApprovalID   string    `json:"approval_id"`
	ReportID     string    `json:"report_id"`
	ReportDate   string    `json:"report_date"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	EmployeeCode string    `json:"employee_code"`
	RequestedAt  time.Time `json:"requested_at"`
}

func ToPendingResponse(p PendingApproval) PendingApprovalResponse {
	return PendingApprovalResponse{
		ApprovalID:   p.ApprovalID,
		ReportID:     p.ReportID,
		ReportDate:   p.ReportDate.Format("2006-01-02"),
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		EmployeeCode: p.EmployeeCode,
		RequestedAt:  p.CreatedAt,
	}
}

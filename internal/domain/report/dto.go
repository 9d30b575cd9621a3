package report

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type SubmitReportRequest struct {
	EmployeeID string          `json:"-"`
	Date       string          `json:"date"`
	Content    json.RawMessage `json:"content"`
}

// Validate checks the envelope only; the content itself belongs to the reporting feature.
func (r *SubmitReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	switch {
	case validator.IsBlankJSON(r.Content):
		errs = append(errs, validator.ValidationError{
			Field:   "content",
			Message: "content is required",
		})
	case !validator.IsValidJSON(r.Content):
		errs = append(errs, validator.ValidationError{
			Field:   "content",
			Message: "content must be valid JSON",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReportDate resolves the submitted date, defaulting to today in now's location.
func (r *SubmitReportRequest) ReportDate(now time.Time) (time.Time, error) {
	if r.Date == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

type ListReportsByDateRequest struct {
	SupervisorID string `json:"-"`
	Date         string `json:"date"`
}

func (r *ListReportsByDateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReportResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	EmployeeCode    *string         `json:"employee_code,omitempty"`
	Date            string          `json:"date"`
	Status          Status          `json:"status"`
	CompositeRating *float64        `json:"composite_rating"`
	Content         json.RawMessage `json:"content,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ToResponse(r DailyReport) ReportResponse {
	return ReportResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		EmployeeCode:    r.EmployeeCode,
		Date:            r.ReportDate.Format(dateLayout),
		Status:          r.Status,
		CompositeRating: r.CompositeRating,
		Content:         r.Content,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type SubmitReportResponse struct {
	Report             ReportResponse `json:"report"`
	Created            bool           `json:"created"`
	ApprovalsRequested int            `json:"approvals_requested"`
}

package report

import "context"

// ReportService coordinates report submission and read access.
type ReportService interface {
	// Submit upserts the report for (employee, date) and fans out pending approvals.
	Submit(ctx context.Context, req SubmitReportRequest) (SubmitReportResponse, error)

	// GetReport returns the report if viewerID owns it or may review it.
	GetReport(ctx context.Context, viewerID, reportID string) (ReportResponse, error)

	// ListReportsByDate returns the reports filed on a date by the supervisor's
	// transitive subordinates, pending first.
	ListReportsByDate(ctx context.Context, req ListReportsByDateRequest) ([]ReportResponse, error)
}

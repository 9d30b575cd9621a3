package approval

import (
	"context"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
)

// ApprovalService owns the approval record lifecycle.
type ApprovalService interface {
	// CreatePendingRecords fans out one pending record per current direct supervisor.
	// Safe to call repeatedly.
	CreatePendingRecords(ctx context.Context, reportID, employeeID string) (int, error)

	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)

	ListReportApprovals(ctx context.Context, viewerID, reportID string) ([]ApprovalResponse, error)
	ListPendingApprovals(ctx context.Context, supervisorID string) ([]PendingApprovalResponse, error)

	// RecomputeRating reruns the aggregator for a report the viewer may see.
	RecomputeRating(ctx context.Context, viewerID, reportID string) (report.ReportResponse, error)
}

// RatingAggregator derives a report's composite rating from qualifying approvals.
type RatingAggregator interface {
	Recompute(ctx context.Context, reportID string) (report.DailyReport, error)
}

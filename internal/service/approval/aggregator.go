package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

type RatingAggregatorImpl struct {
	approvalRepo approval.ApprovalRepository
	reportRepo   report.ReportRepository
	hierarchy    employee.HierarchyService
}

func NewRatingAggregator(
	approvalRepo approval.ApprovalRepository,
	reportRepo report.ReportRepository,
	hierarchy employee.HierarchyService,
) approval.RatingAggregator {
	return &RatingAggregatorImpl{
		approvalRepo: approvalRepo,
		reportRepo:   reportRepo,
		hierarchy:    hierarchy,
	}
}

// Recompute implements approval.RatingAggregator.
// Only ratings from supervisors who are still direct supervisors count toward the
// composite; an empty set leaves the stored composite as it is.
// It must run inside a transaction: the report row stays locked until commit.
func (a *RatingAggregatorImpl) Recompute(ctx context.Context, reportID string) (report.DailyReport, error) {
	rep, err := a.reportRepo.GetForUpdate(ctx, reportID)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			return report.DailyReport{}, err
		}
		return report.DailyReport{}, fmt.Errorf("failed to get report: %w", err)
	}

	records, err := a.approvalRepo.ListByReport(ctx, reportID)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to list approvals: %w", err)
	}

	current, err := a.hierarchy.DirectSupervisors(ctx, rep.EmployeeID)
	if err != nil {
		return report.DailyReport{}, err
	}

	status := report.StatusPending
	var ratings []decimal.Decimal
	for _, rec := range records {
		if rec.Status != approval.StatusApproved {
			continue
		}
		status = report.StatusReviewed
		if rec.Rating == nil {
			continue
		}
		if _, ok := current[rec.SupervisorID]; !ok {
			continue
		}
		ratings = append(ratings, decimal.NewFromFloat(*rec.Rating))
	}

	composite := meanRating(ratings)
	if err := a.reportRepo.UpdateAggregate(ctx, reportID, composite, status); err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to update composite rating: %w", err)
	}

	slog.Debug("composite rating recomputed",
		"report_id", reportID,
		"qualifying_ratings", len(ratings),
		"status", status,
	)

	rep.Status = status
	if composite != nil {
		rep.CompositeRating = composite
	}
	return rep, nil
}

// meanRating returns the arithmetic mean rounded half away from zero to two places,
// or nil for no ratings.
func meanRating(ratings []decimal.Decimal) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(r)
	}
	mean, _ := sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(2).Float64()
	return &mean
}

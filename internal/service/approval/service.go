package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/database"
)

type ApprovalServiceImpl struct {
	tx           database.Transactor
	approvalRepo approval.ApprovalRepository
	reportRepo   report.ReportRepository
	hierarchy    employee.HierarchyService
	aggregator   approval.RatingAggregator
	auditor      approval.ReviewAuditor
	bounds       approval.RatingBounds
	now          func() time.Time
}

func NewApprovalService(
	tx database.Transactor,
	approvalRepo approval.ApprovalRepository,
	reportRepo report.ReportRepository,
	hierarchy employee.HierarchyService,
	aggregator approval.RatingAggregator,
	auditor approval.ReviewAuditor,
	bounds approval.RatingBounds,
) approval.ApprovalService {
	return &ApprovalServiceImpl{
		tx:           tx,
		approvalRepo: approvalRepo,
		reportRepo:   reportRepo,
		hierarchy:    hierarchy,
		aggregator:   aggregator,
		auditor:      auditor,
		bounds:       bounds,
		now:          time.Now,
	}
}

// CreatePendingRecords implements approval.ApprovalService.
func (s *ApprovalServiceImpl) CreatePendingRecords(ctx context.Context, reportID, employeeID string) (int, error) {
	supervisors, err := s.hierarchy.DirectSupervisors(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if len(supervisors) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(supervisors))
	for id := range supervisors {
		ids = append(ids, id)
	}

	inserted, err := s.approvalRepo.CreatePending(ctx, reportID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to create pending approvals: %w", err)
	}
	return inserted, nil
}

// ListReportApprovals implements approval.ApprovalService.
func (s *ApprovalServiceImpl) ListReportApprovals(ctx context.Context, viewerID, reportID string) ([]approval.ApprovalResponse, error) {
	if _, err := s.loadVisibleReport(ctx, viewerID, reportID); err != nil {
		return nil, err
	}

	records, err := s.approvalRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}

	resp := make([]approval.ApprovalResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, approval.ToResponse(rec))
	}
	return resp, nil
}

// ListPendingApprovals implements approval.ApprovalService.
func (s *ApprovalServiceImpl) ListPendingApprovals(ctx context.Context, supervisorID string) ([]approval.PendingApprovalResponse, error) {
	if supervisorID == "" {
		return nil, employee.ErrSupervisorIDRequired
	}

	pending, err := s.approvalRepo.ListPendingBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}

	resp := make([]approval.PendingApprovalResponse, 0, len(pending))
	for _, p := range pending {
		resp = append(resp, approval.ToPendingResponse(p))
	}
	return resp, nil
}

// RecomputeRating implements approval.ApprovalService.
func (s *ApprovalServiceImpl) RecomputeRating(ctx context.Context, viewerID, reportID string) (report.ReportResponse, error) {
	if _, err := s.loadVisibleReport(ctx, viewerID, reportID); err != nil {
		return report.ReportResponse{}, err
	}

	var updated report.DailyReport
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.aggregator.Recompute(ctx, reportID)
		return err
	})
	if err != nil {
		return report.ReportResponse{}, err
	}
	return report.ToResponse(updated), nil
}

// loadVisibleReport returns the report when the viewer owns it or may review it.
func (s *ApprovalServiceImpl) loadVisibleReport(ctx context.Context, viewerID, reportID string) (report.DailyReport, error) {
	rep, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			return report.DailyReport{}, err
		}
		return report.DailyReport{}, fmt.Errorf("failed to get report: %w", err)
	}
	if rep.EmployeeID == viewerID {
		return rep, nil
	}

	ok, err := s.hierarchy.CanReview(ctx, viewerID, rep.EmployeeID)
	if err != nil {
		return report.DailyReport{}, err
	}
	if !ok {
		return report.DailyReport{}, report.ErrReportAccessDenied
	}
	return rep, nil
}

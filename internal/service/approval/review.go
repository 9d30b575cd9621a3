package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
)

// Review implements approval.ApprovalService. Authorization is evaluated against the
// hierarchy as it is now, not as it was when the record was created.
// The report row is locked before the approval row, the same order Submit takes, so
// reviews of one report by different supervisors run one after another and each
// recompute sees the approvals committed before it.
func (s *ApprovalServiceImpl) Review(ctx context.Context, req approval.ReviewRequest) (approval.ReviewResponse, error) {
	if err := req.Validate(s.bounds); err != nil {
		return approval.ReviewResponse{}, err
	}

	var (
		updated approval.ApprovalRecord
		rep     report.DailyReport
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.reportRepo.GetForUpdate(ctx, req.ReportID)
		if err != nil {
			if errors.Is(err, report.ErrReportNotFound) {
				return err
			}
			return fmt.Errorf("failed to get report: %w", err)
		}

		ok, err := s.hierarchy.CanReview(ctx, req.SupervisorID, target.EmployeeID)
		if err != nil {
			return err
		}
		if !ok {
			return approval.ErrNotAuthorized
		}

		record, err := s.approvalRepo.GetForUpdate(ctx, req.ReportID, req.SupervisorID)
		if err != nil {
			if errors.Is(err, approval.ErrApprovalNotFound) {
				return err
			}
			return fmt.Errorf("failed to get approval record: %w", err)
		}
		if record.Status == approval.StatusApproved {
			return approval.ErrAlreadyReviewed
		}

		update := approval.ReviewUpdate{
			ID:       record.ID,
			Rating:   req.Rating,
			Feedback: req.Feedback,
		}
		if req.Rating != nil {
			now := s.now().UTC()
			update.Approve = true
			update.ApprovedAt = &now
		}

		updated, err = s.approvalRepo.ApplyReview(ctx, update)
		if err != nil {
			if errors.Is(err, approval.ErrAlreadyReviewed) {
				return err
			}
			return fmt.Errorf("failed to apply review: %w", err)
		}

		rep, err = s.aggregator.Recompute(ctx, req.ReportID)
		return err
	})
	if err != nil {
		return approval.ReviewResponse{}, err
	}

	slog.Info("report reviewed",
		"report_id", req.ReportID,
		"supervisor_id", req.SupervisorID,
		"approval_status", updated.Status,
		"report_status", rep.Status,
	)

	s.audit(ctx, approval.ReviewEvent{
		ReportID:     req.ReportID,
		SupervisorID: req.SupervisorID,
		Rating:       req.Rating,
		Feedback:     req.Feedback,
		OccurredAt:   s.now().UTC(),
	})

	return approval.ReviewResponse{
		Approval:        approval.ToResponse(updated),
		ReportStatus:    rep.Status,
		CompositeRating: rep.CompositeRating,
	}, nil
}

// audit never fails the review; the ledger is already committed.
func (s *ApprovalServiceImpl) audit(ctx context.Context, event approval.ReviewEvent) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.RecordReview(ctx, event); err != nil {
		slog.Warn("failed to record review comment",
			"report_id", event.ReportID,
			"supervisor_id", event.SupervisorID,
			"error", err,
		)
	}
}

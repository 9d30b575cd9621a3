package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/database"
)

type ReportServiceImpl struct {
	tx              database.Transactor
	reportRepo      report.ReportRepository
	approvalService approval.ApprovalService
	hierarchy       employee.HierarchyService
	now             func() time.Time
}

func NewReportService(
	tx database.Transactor,
	reportRepo report.ReportRepository,
	approvalService approval.ApprovalService,
	hierarchy employee.HierarchyService,
) report.ReportService {
	return &ReportServiceImpl{
		tx:              tx,
		reportRepo:      reportRepo,
		approvalService: approvalService,
		hierarchy:       hierarchy,
		now:             time.Now,
	}
}

// Submit implements report.ReportService.
// Resubmitting on the same date overwrites the content and resets the status but keeps
// every approval record, then fans out to supervisors added since the last submission.
func (s *ReportServiceImpl) Submit(ctx context.Context, req report.SubmitReportRequest) (report.SubmitReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.SubmitReportResponse{}, err
	}

	date, err := req.ReportDate(s.now())
	if err != nil {
		return report.SubmitReportResponse{}, err
	}

	var (
		saved     report.DailyReport
		created   bool
		requested int
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		saved, created, err = s.reportRepo.Upsert(ctx, report.DailyReport{
			EmployeeID: req.EmployeeID,
			ReportDate: date,
			Content:    req.Content,
		})
		if err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}

		requested, err = s.approvalService.CreatePendingRecords(ctx, saved.ID, req.EmployeeID)
		return err
	})
	if err != nil {
		return report.SubmitReportResponse{}, err
	}

	slog.Info("daily report submitted",
		"report_id", saved.ID,
		"employee_id", req.EmployeeID,
		"date", date.Format("2006-01-02"),
		"created", created,
		"approvals_requested", requested,
	)

	return report.SubmitReportResponse{
		Report:             report.ToResponse(saved),
		Created:            created,
		ApprovalsRequested: requested,
	}, nil
}

// GetReport implements report.ReportService.
func (s *ReportServiceImpl) GetReport(ctx context.Context, viewerID, reportID string) (report.ReportResponse, error) {
	rep, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			return report.ReportResponse{}, err
		}
		return report.ReportResponse{}, fmt.Errorf("failed to get report: %w", err)
	}

	if rep.EmployeeID != viewerID {
		ok, err := s.hierarchy.CanReview(ctx, viewerID, rep.EmployeeID)
		if err != nil {
			return report.ReportResponse{}, err
		}
		if !ok {
			return report.ReportResponse{}, report.ErrReportAccessDenied
		}
	}

	return report.ToResponse(rep), nil
}

// ListReportsByDate implements report.ReportService.
func (s *ReportServiceImpl) ListReportsByDate(ctx context.Context, req report.ListReportsByDateRequest) ([]report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.SupervisorID == "" {
		return nil, employee.ErrSupervisorIDRequired
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, report.ErrInvalidDate
	}

	subordinates, err := s.hierarchy.TransitiveSubordinates(ctx, req.SupervisorID)
	if err != nil {
		return nil, err
	}
	if len(subordinates) == 0 {
		return []report.ReportResponse{}, nil
	}

	ids := make([]string, 0, len(subordinates))
	for id := range subordinates {
		ids = append(ids, id)
	}

	reports, err := s.reportRepo.ListByDateForEmployees(ctx, date, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	// Pending first, then by employee name so the list is stable.
	sort.SliceStable(reports, func(i, j int) bool {
		pi, pj := reports[i].Status == report.StatusPending, reports[j].Status == report.StatusPending
		if pi != pj {
			return pi
		}
		return sortName(reports[i]) < sortName(reports[j])
	})

	resp := make([]report.ReportResponse, 0, len(reports))
	for _, r := range reports {
		resp = append(resp, report.ToResponse(r))
	}
	return resp, nil
}

func sortName(r report.DailyReport) string {
	if r.EmployeeName != nil {
		return *r.EmployeeName
	}
	return r.EmployeeID
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Submission
	Submit(w http.ResponseWriter, r *http.Request)

	// Reading
	ListByDate(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	ListApprovals(w http.ResponseWriter, r *http.Request)

	// Review
	Review(w http.ResponseWriter, r *http.Request)
	Recompute(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService   report.ReportService
	approvalService approval.ApprovalService
}

func NewReportHandler(reportService report.ReportService, approvalService approval.ApprovalService) ReportHandler {
	return &reportHandlerImpl{
		reportService:   reportService,
		approvalService: approvalService,
	}
}

// Submit handles POST /reports
func (h *reportHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	var req report.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.reportService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Created {
		response.Created(w, "Report submitted", result)
		return
	}
	response.SuccessWithMessage(w, "Report updated", result)
}

// ListByDate handles GET /reports?date=YYYY-MM-DD
func (h *reportHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	result, err := h.reportService.ListReportsByDate(r.Context(), report.ListReportsByDateRequest{
		SupervisorID: employeeID,
		Date:         r.URL.Query().Get("date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result, len(result))
}

// GetByID handles GET /reports/{reportID}
func (h *reportHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	result, err := h.reportService.GetReport(r.Context(), employeeID, chi.URLParam(r, "reportID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListApprovals handles GET /reports/{reportID}/approvals
func (h *reportHandlerImpl) ListApprovals(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	result, err := h.approvalService.ListReportApprovals(r.Context(), employeeID, chi.URLParam(r, "reportID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result, len(result))
}

// Review handles PUT /reports/{reportID}/review
func (h *reportHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	var req approval.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}
	req.ReportID = chi.URLParam(r, "reportID")
	req.SupervisorID = employeeID

	result, err := h.approvalService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review recorded", result)
}

// Recompute handles POST /reports/{reportID}/recompute
func (h *reportHandlerImpl) Recompute(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	result, err := h.approvalService.RecomputeRating(r.Context(), employeeID, chi.URLParam(r, "reportID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"net/http"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/auth"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/daily-report-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SupervisorHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	Subordinates(w http.ResponseWriter, r *http.Request)
	PendingApprovals(w http.ResponseWriter, r *http.Request)
	Subordinate(w http.ResponseWriter, r *http.Request)
}

type supervisorHandlerImpl struct {
	hierarchyService employee.HierarchyService
	approvalService  approval.ApprovalService
}

func NewSupervisorHandler(hierarchyService employee.HierarchyService, approvalService approval.ApprovalService) SupervisorHandler {
	return &supervisorHandlerImpl{
		hierarchyService: hierarchyService,
		approvalService:  approvalService,
	}
}

// Status handles GET /supervisor/status
func (h *supervisorHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	result, err := h.hierarchyService.SupervisorStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Subordinates handles GET /supervisor/subordinates?scope=direct|all
func (h *supervisorHandlerImpl) Subordinates(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	scope := employee.SubordinateScope(r.URL.Query().Get("scope"))
	result, err := h.hierarchyService.ListSubordinates(r.Context(), employeeID, scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PendingApprovals handles GET /supervisor/pending
func (h *supervisorHandlerImpl) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	result, err := h.approvalService.ListPendingApprovals(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result, len(result))
}

// Subordinate handles GET /supervisor/employees/{employeeID}
func (h *supervisorHandlerImpl) Subordinate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrEmployeeClaimMissing)
		return
	}

	result, err := h.hierarchyService.GetSubordinate(r.Context(), employeeID, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

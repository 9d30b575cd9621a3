package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
)

type HierarchyServiceImpl struct {
	directory employee.DirectoryRepository
	policy    employee.SupervisorPolicy
}

func NewHierarchyService(directory employee.DirectoryRepository, policy employee.SupervisorPolicy) employee.HierarchyService {
	if policy.Kind == "" {
		policy = employee.DefaultSupervisorPolicy
	}
	return &HierarchyServiceImpl{
		directory: directory,
		policy:    policy,
	}
}

// SupervisorStatus implements employee.HierarchyService.
func (s *HierarchyServiceImpl) SupervisorStatus(ctx context.Context, employeeID string) (employee.SupervisorStatusResponse, error) {
	if employeeID == "" {
		return employee.SupervisorStatusResponse{}, employee.ErrEmployeeIDRequired
	}

	subs, err := s.DirectSubordinates(ctx, employeeID)
	if err != nil {
		return employee.SupervisorStatusResponse{}, err
	}
	status := employee.SupervisorStatusResponse{HasSubordinates: len(subs) > 0}

	switch s.policy.Kind {
	case employee.PolicyHasSubordinates:
		status.IsSupervisor = status.HasSubordinates
	case employee.PolicyAdminRank:
		emp, err := s.directory.GetByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.SupervisorStatusResponse{}, err
			}
			return employee.SupervisorStatusResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		status.IsSupervisor = emp.IsActive() && emp.AdminRank != nil && *emp.AdminRank >= s.policy.MinAdminRank
	default:
		return employee.SupervisorStatusResponse{}, employee.ErrUnknownPolicy
	}

	return status, nil
}

// ListSubordinates implements employee.HierarchyService.
func (s *HierarchyServiceImpl) ListSubordinates(ctx context.Context, supervisorID string, scope employee.SubordinateScope) (employee.SubordinateListResponse, error) {
	if supervisorID == "" {
		return employee.SubordinateListResponse{}, employee.ErrSupervisorIDRequired
	}
	if scope == "" {
		scope = employee.ScopeDirect
	}

	var (
		ids map[string]struct{}
		err error
	)
	switch scope {
	case employee.ScopeDirect:
		ids, err = s.DirectSubordinates(ctx, supervisorID)
	case employee.ScopeAll:
		ids, err = s.TransitiveSubordinates(ctx, supervisorID)
	default:
		return employee.SubordinateListResponse{}, employee.ErrInvalidScope
	}
	if err != nil {
		return employee.SubordinateListResponse{}, err
	}

	resp := employee.SubordinateListResponse{
		Scope:        scope,
		Subordinates: []employee.EmployeeSummary{},
	}
	if len(ids) == 0 {
		return resp, nil
	}

	emps, err := s.directory.GetByIDs(ctx, setKeys(ids))
	if err != nil {
		return employee.SubordinateListResponse{}, fmt.Errorf("failed to load subordinates: %w", err)
	}
	sort.Slice(emps, func(i, j int) bool {
		if emps[i].FullName != emps[j].FullName {
			return emps[i].FullName < emps[j].FullName
		}
		return emps[i].ID < emps[j].ID
	})
	pending, err := s.directory.CountPendingReports(ctx, setKeys(ids))
	if err != nil {
		return employee.SubordinateListResponse{}, err
	}
	for _, e := range emps {
		summary := employee.ToSummary(e)
		summary.PendingReportsCount = pending[e.ID]
		resp.Subordinates = append(resp.Subordinates, summary)
	}
	return resp, nil
}

// GetSubordinate implements employee.HierarchyService. Anyone in the employee's
// reporting line may look, and so may the employee.
func (s *HierarchyServiceImpl) GetSubordinate(ctx context.Context, supervisorID, employeeID string) (employee.EmployeeDetailResponse, error) {
	if supervisorID == "" {
		return employee.EmployeeDetailResponse{}, employee.ErrSupervisorIDRequired
	}
	if employeeID == "" {
		return employee.EmployeeDetailResponse{}, employee.ErrEmployeeIDRequired
	}

	if supervisorID != employeeID {
		ok, err := s.CanReview(ctx, supervisorID, employeeID)
		if err != nil {
			return employee.EmployeeDetailResponse{}, err
		}
		if !ok {
			return employee.EmployeeDetailResponse{}, employee.ErrNotSubordinate
		}
	}

	emp, err := s.directory.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeDetailResponse{}, err
		}
		return employee.EmployeeDetailResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	pending, err := s.directory.CountPendingReports(ctx, []string{employeeID})
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	resp := employee.EmployeeDetailResponse{
		Employee:    employee.ToSummary(emp),
		Supervisors: []employee.EmployeeSummary{},
	}
	resp.Employee.PendingReportsCount = pending[employeeID]

	supervisors, err := s.DirectSupervisors(ctx, employeeID)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	if len(supervisors) == 0 {
		return resp, nil
	}
	sups, err := s.directory.GetByIDs(ctx, setKeys(supervisors))
	if err != nil {
		return employee.EmployeeDetailResponse{}, fmt.Errorf("failed to load supervisors: %w", err)
	}
	sort.Slice(sups, func(i, j int) bool { return sups[i].ID < sups[j].ID })
	for _, sup := range sups {
		resp.Supervisors = append(resp.Supervisors, employee.ToSummary(sup))
	}
	return resp, nil
}

func setKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

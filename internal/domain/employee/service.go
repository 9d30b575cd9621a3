package employee

import "context"

// HierarchyService resolves the supervisor graph.
type HierarchyService interface {
	DirectSupervisors(ctx context.Context, employeeID string) (map[string]struct{}, error)
	DirectSubordinates(ctx context.Context, supervisorID string) (map[string]struct{}, error)
	TransitiveSubordinates(ctx context.Context, supervisorID string) (map[string]struct{}, error)

	// CanReview answers whether supervisorID may review employeeID's reports.
	CanReview(ctx context.Context, supervisorID, employeeID string) (bool, error)

	SupervisorStatus(ctx context.Context, employeeID string) (SupervisorStatusResponse, error)
	ListSubordinates(ctx context.Context, supervisorID string, scope SubordinateScope) (SubordinateListResponse, error)
	GetSubordinate(ctx context.Context, supervisorID, employeeID string) (EmployeeDetailResponse, error)
}

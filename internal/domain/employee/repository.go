package employee

import "context"

// DirectoryRepository is the read side of the employee directory.
type DirectoryRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	// ListDirectSupervisorIDs returns active supervisors with an edge from employeeID.
	ListDirectSupervisorIDs(ctx context.Context, employeeID string) ([]string, error)
	// ListDirectSubordinateIDs returns employees with an edge to supervisorID,
	// or nothing when supervisorID itself is inactive.
	ListDirectSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error)
	// CountPendingReports returns the number of pending daily reports per employee.
	// Employees without any are absent from the map.
	CountPendingReports(ctx context.Context, employeeIDs []string) (map[string]int, error)
}

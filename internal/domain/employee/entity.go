package employee

import "time"

// Employee is a directory entry maintained by the external directory sync.
type Employee struct {
	ID            string
	EmployeeCode  string
	FullName      string
	DepartureDate *time.Time
	AdminRank     *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the employee is still with the company.
func (e Employee) IsActive() bool {
	return e.DepartureDate == nil
}

// SupervisorEdge is a directed employee -> supervisor relation.
type SupervisorEdge struct {
	EmployeeID   string
	SupervisorID string
}

// SubordinateScope selects how far down the hierarchy a listing reaches.
type SubordinateScope string

const (
	ScopeDirect SubordinateScope = "direct"
	ScopeAll    SubordinateScope = "all"
)

// SupervisorPolicyKind names the rule deciding whether someone counts as a supervisor.
type SupervisorPolicyKind string

const (
	PolicyHasSubordinates SupervisorPolicyKind = "has_subordinates"
	PolicyAdminRank       SupervisorPolicyKind = "admin_rank"
)

// SupervisorPolicy decides SupervisorStatusResponse.IsSupervisor.
type SupervisorPolicy struct {
	Kind         SupervisorPolicyKind
	MinAdminRank int
}

var DefaultSupervisorPolicy = SupervisorPolicy{Kind: PolicyHasSubordinates}

func (p SupervisorPolicy) Validate() error {
	switch p.Kind {
	case PolicyHasSubordinates, PolicyAdminRank:
		return nil
	default:
		return ErrUnknownPolicy
	}
}

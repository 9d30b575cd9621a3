package employee

type EmployeeSummary struct {
	ID                  string `json:"id"`
	EmployeeCode        string `json:"employee_code"`
	FullName            string `json:"full_name"`
	IsActive            bool   `json:"is_active"`
	PendingReportsCount int    `json:"pending_reports_count"`
}

func ToSummary(e Employee) EmployeeSummary {
	return EmployeeSummary{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		IsActive:     e.IsActive(),
	}
}

type SupervisorStatusResponse struct {
	HasSubordinates bool `json:"has_subordinates"`
	IsSupervisor    bool `json:"is_supervisor"`
}

type SubordinateListResponse struct {
	Scope        SubordinateScope  `json:"scope"`
	Subordinates []EmployeeSummary `json:"subordinates"`
}

// EmployeeDetailResponse is one subordinate as their supervisor sees them.
type EmployeeDetailResponse struct {
	Employee    EmployeeSummary   `json:"employee"`
	Supervisors []EmployeeSummary `json:"supervisors"`
}

package approval

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// ApprovalRecord is one supervisor's independent review slot on one report.
// Exactly one exists per (ReportID, SupervisorID); approved is terminal.
type ApprovalRecord struct {
	ID           string
	ReportID     string
	SupervisorID string
	Status       Status
	Rating       *float64
	Feedback     *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	SupervisorName *string
	SupervisorCode *string
}

// PendingApproval is a pending record joined with the report it belongs to.
type PendingApproval struct {
	ApprovalID   string
	ReportID     string
	ReportDate   time.Time
	EmployeeID   string
	EmployeeName string
	EmployeeCode string
	CreatedAt    time.Time
}

// ReviewEvent is what the auditor receives for every review call.
type ReviewEvent struct {
	ReportID     string
	SupervisorID string
	Rating       *float64
	Feedback     *string
	OccurredAt   time.Time
}

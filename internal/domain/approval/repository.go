package approval

import (
	"context"
	"time"
)

type ReviewUpdate struct {
	ID         string
	Rating     *float64
	Feedback   *string
	Approve    bool
	ApprovedAt *time.Time
}

type ApprovalRepository interface {
	// CreatePending inserts a pending record for every supervisor that has none yet for
	// the report and returns how many were inserted. Existing records are left alone.
	CreatePending(ctx context.Context, reportID string, supervisorIDs []string) (int, error)
	// GetForUpdate loads and locks the record for (reportID, supervisorID).
	GetForUpdate(ctx context.Context, reportID, supervisorID string) (ApprovalRecord, error)
	// ApplyReview updates a record that is still pending. It fails with
	// ErrAlreadyReviewed when the record has been approved in the meantime.
	ApplyReview(ctx context.Context, update ReviewUpdate) (ApprovalRecord, error)
	ListByReport(ctx context.Context, reportID string) ([]ApprovalRecord, error)
	ListPendingBySupervisor(ctx context.Context, supervisorID string) ([]PendingApproval, error)
}

// ReviewAuditor persists a human-readable trail of review calls outside the ledger.
type ReviewAuditor interface {
	RecordReview(ctx context.Context, event ReviewEvent) error
}

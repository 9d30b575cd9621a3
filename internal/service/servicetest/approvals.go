package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
)

type approvalKey struct {
	reportID     string
	supervisorID string
}

// Approvals is an in-memory approval.ApprovalRepository. The (report, supervisor)
// uniqueness and the pending-only update mirror the table constraints. Inside a
// transaction, GetForUpdate locks the record and ApplyReview stays invisible to other
// transactions until commit.
type Approvals struct {
	mu      sync.Mutex
	locks   lockTable
	records map[approvalKey]approval.ApprovalRecord
	keys    map[string]approvalKey
	nextID  int
	reports *Reports
	Err     error
}

func NewApprovals(reports *Reports) *Approvals {
	return &Approvals{
		records: make(map[approvalKey]approval.ApprovalRecord),
		keys:    make(map[string]approvalKey),
		reports: reports,
	}
}

func (a *Approvals) CreatePending(ctx context.Context, reportID string, supervisorIDs []string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return 0, a.Err
	}
	inserted := 0
	for _, sup := range supervisorIDs {
		key := approvalKey{reportID: reportID, supervisorID: sup}
		if _, exists := a.records[key]; exists {
			continue
		}
		a.nextID++
		rec := approval.ApprovalRecord{
			ID:           fmt.Sprintf("approval-%d", a.nextID),
			ReportID:     reportID,
			SupervisorID: sup,
			Status:       approval.StatusPending,
		}
		a.records[key] = rec
		a.keys[rec.ID] = key
		inserted++
	}
	return inserted, nil
}

// visible returns the record as the caller's transaction sees it. a.mu must be held.
func (a *Approvals) visible(ctx context.Context, key approvalKey) (approval.ApprovalRecord, bool) {
	rec, ok := a.records[key]
	if !ok {
		return approval.ApprovalRecord{}, false
	}
	if u := currentUnit(ctx); u != nil {
		u.mu.Lock()
		if staged, ok := u.staged[rec.ID]; ok {
			rec = staged
		}
		u.mu.Unlock()
	}
	return rec, true
}

func (a *Approvals) GetForUpdate(ctx context.Context, reportID, supervisorID string) (approval.ApprovalRecord, error) {
	key := approvalKey{reportID: reportID, supervisorID: supervisorID}

	a.mu.Lock()
	if a.Err != nil {
		a.mu.Unlock()
		return approval.ApprovalRecord{}, a.Err
	}
	rec, ok := a.visible(ctx, key)
	a.mu.Unlock()
	if !ok {
		return approval.ApprovalRecord{}, approval.ErrApprovalNotFound
	}

	a.locks.lock(ctx, rec.ID)

	a.mu.Lock()
	defer a.mu.Unlock()
	rec, _ = a.visible(ctx, key)
	return rec, nil
}

func (a *Approvals) ApplyReview(ctx context.Context, u approval.ReviewUpdate) (approval.ApprovalRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return approval.ApprovalRecord{}, a.Err
	}
	key, ok := a.keys[u.ID]
	if !ok {
		return approval.ApprovalRecord{}, approval.ErrApprovalNotFound
	}
	rec, _ := a.visible(ctx, key)
	if rec.Status != approval.StatusPending {
		return approval.ApprovalRecord{}, approval.ErrAlreadyReviewed
	}
	if u.Rating != nil {
		rec.Rating = u.Rating
	}
	if u.Feedback != nil {
		rec.Feedback = u.Feedback
	}
	if u.Approve {
		rec.Status = approval.StatusApproved
		rec.ApprovedAt = u.ApprovedAt
	}

	unit := currentUnit(ctx)
	if unit == nil {
		a.records[key] = rec
		return rec, nil
	}
	unit.mu.Lock()
	unit.staged[rec.ID] = rec
	unit.mu.Unlock()
	unit.onCommit(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.records[key] = rec
	})
	return rec, nil
}

func (a *Approvals) ListByReport(ctx context.Context, reportID string) ([]approval.ApprovalRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	var out []approval.ApprovalRecord
	for key := range a.records {
		if key.reportID == reportID {
			rec, _ := a.visible(ctx, key)
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupervisorID < out[j].SupervisorID })
	return out, nil
}

func (a *Approvals) ListPendingBySupervisor(ctx context.Context, supervisorID string) ([]approval.PendingApproval, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	var out []approval.PendingApproval
	for key, rec := range a.records {
		if key.supervisorID != supervisorID || rec.Status != approval.StatusPending {
			continue
		}
		p := approval.PendingApproval{ApprovalID: rec.ID, ReportID: rec.ReportID, CreatedAt: rec.CreatedAt}
		if a.reports != nil {
			if rep, err := a.reports.GetByID(ctx, rec.ReportID); err == nil {
				p.ReportDate = rep.ReportDate
				p.EmployeeID = rep.EmployeeID
				p.EmployeeName = rep.EmployeeID
				p.EmployeeCode = "EMP-" + rep.EmployeeID
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApprovalID < out[j].ApprovalID })
	return out, nil
}

// Count returns how many records exist in total.
func (a *Approvals) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

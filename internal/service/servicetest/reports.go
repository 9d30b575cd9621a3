package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
)

type reportKey struct {
	employeeID string
	date       string
}

// Reports is an in-memory report.ReportRepository. Upsert and GetForUpdate lock the
// report row for the rest of the caller's transaction.
type Reports struct {
	mu      sync.RWMutex
	locks   lockTable
	byID    map[string]report.DailyReport
	byKey   map[reportKey]string
	nextID  int
	Now     func() time.Time
	Err     error
	Updates int
}

func NewReports() *Reports {
	return &Reports{
		byID:  make(map[string]report.DailyReport),
		byKey: make(map[reportKey]string),
		Now:   time.Now,
	}
}

func (r *Reports) Upsert(ctx context.Context, in report.DailyReport) (report.DailyReport, bool, error) {
	key := reportKey{employeeID: in.EmployeeID, date: in.ReportDate.Format("2006-01-02")}

	r.mu.RLock()
	id, exists := r.byKey[key]
	err := r.Err
	r.mu.RUnlock()
	if err != nil {
		return report.DailyReport{}, false, err
	}
	if exists {
		r.locks.lock(ctx, id)
	}

	r.mu.Lock()
	now := r.Now()
	if id, ok := r.byKey[key]; ok {
		existing := r.byID[id]
		existing.Content = in.Content
		existing.Status = report.StatusPending
		existing.UpdatedAt = now
		r.byID[id] = existing
		r.mu.Unlock()
		return existing, false, nil
	}

	r.nextID++
	in.ID = fmt.Sprintf("report-%d", r.nextID)
	in.Status = report.StatusPending
	in.CreatedAt = now
	in.UpdatedAt = now
	r.byID[in.ID] = in
	r.byKey[key] = in.ID
	r.mu.Unlock()

	r.locks.lock(ctx, in.ID)
	return in, true, nil
}

func (r *Reports) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return report.DailyReport{}, r.Err
	}
	rep, ok := r.byID[id]
	if !ok {
		return report.DailyReport{}, report.ErrReportNotFound
	}
	return rep, nil
}

func (r *Reports) GetForUpdate(ctx context.Context, id string) (report.DailyReport, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return report.DailyReport{}, err
	}
	r.locks.lock(ctx, id)
	return r.GetByID(ctx, id)
}

// LockCount returns how many report row locks have been taken.
func (r *Reports) LockCount() int {
	return r.locks.count()
}

func (r *Reports) UpdateAggregate(ctx context.Context, id string, rating *float64, status report.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	rep, ok := r.byID[id]
	if !ok {
		return report.ErrReportNotFound
	}
	if rating != nil {
		v := *rating
		rep.CompositeRating = &v
	}
	rep.Status = status
	rep.UpdatedAt = r.Now()
	r.byID[id] = rep
	r.Updates++
	return nil
}

func (r *Reports) ListByDateForEmployees(ctx context.Context, date time.Time, employeeIDs []string) ([]report.DailyReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []report.DailyReport
	for _, empID := range employeeIDs {
		if id, ok := r.byKey[reportKey{employeeID: empID, date: date.Format("2006-01-02")}]; ok {
			out = append(out, r.byID[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Reports) countPending(employeeIDs []string) map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		want[id] = struct{}{}
	}
	counts := make(map[string]int)
	for _, rep := range r.byID {
		if _, ok := want[rep.EmployeeID]; ok && rep.Status == report.StatusPending {
			counts[rep.EmployeeID]++
		}
	}
	return counts
}

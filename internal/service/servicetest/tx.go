package servicetest

import (
	"context"
	"errors"
	"sync"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
)

type txKey struct{}

// unitOfWork holds the row locks and staged writes of one transaction. Staged writes
// become visible to other units only on commit, which happens before the locks are
// released.
type unitOfWork struct {
	mu      sync.Mutex
	held    map[rowKey]struct{}
	release []func()
	commit  []func()
	staged  map[string]approval.ApprovalRecord
}

func currentUnit(ctx context.Context) *unitOfWork {
	u, _ := ctx.Value(txKey{}).(*unitOfWork)
	return u
}

func (u *unitOfWork) onCommit(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.commit = append(u.commit, fn)
}

// Transactor runs units of work concurrently. Isolation comes from the row locks the
// fakes take, as it does in postgres. Nested calls join the outer unit.
type Transactor struct {
	mu    sync.Mutex
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if currentUnit(ctx) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()

	u := &unitOfWork{
		held:   make(map[rowKey]struct{}),
		staged: make(map[string]approval.ApprovalRecord),
	}
	err := fn(context.WithValue(ctx, txKey{}, u))
	if err == nil {
		for _, c := range u.commit {
			c()
		}
	}
	for i := len(u.release) - 1; i >= 0; i-- {
		u.release[i]()
	}
	return err
}

type rowKey struct {
	table *lockTable
	id    string
}

// lockTable hands out one mutex per row id.
type lockTable struct {
	mu       sync.Mutex
	rows     map[string]*sync.Mutex
	acquired int
}

// lock blocks until the row is free and keeps it until the unit of work ends. It is a
// no-op outside a transaction or when the unit already holds the row.
func (l *lockTable) lock(ctx context.Context, id string) {
	u := currentUnit(ctx)
	if u == nil {
		return
	}
	key := rowKey{table: l, id: id}
	u.mu.Lock()
	_, held := u.held[key]
	u.mu.Unlock()
	if held {
		return
	}

	l.mu.Lock()
	if l.rows == nil {
		l.rows = make(map[string]*sync.Mutex)
	}
	row, ok := l.rows[id]
	if !ok {
		row = &sync.Mutex{}
		l.rows[id] = row
	}
	l.acquired++
	l.mu.Unlock()

	row.Lock()
	u.mu.Lock()
	u.held[key] = struct{}{}
	u.release = append(u.release, row.Unlock)
	u.mu.Unlock()
}

func (l *lockTable) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired
}

// Auditor records every review event it receives.
type Auditor struct {
	mu     sync.Mutex
	Events []approval.ReviewEvent
	Fail   bool
}

func (a *Auditor) RecordReview(ctx context.Context, event approval.ReviewEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Fail {
		return errors.New("audit store unavailable")
	}
	a.Events = append(a.Events, event)
	return nil
}

// Package servicetest holds in-memory repositories for service and handler tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
)

// Directory is an in-memory employee.DirectoryRepository.
type Directory struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	edges     map[employee.SupervisorEdge]struct{}
	Err       error
	// Reports backs CountPendingReports when set.
	Reports *Reports
}

func NewDirectory() *Directory {
	return &Directory{
		employees: make(map[string]employee.Employee),
		edges:     make(map[employee.SupervisorEdge]struct{}),
	}
}

// Add registers active employees named after their IDs.
func (d *Directory) Add(ids ...string) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		d.employees[id] = employee.Employee{ID: id, EmployeeCode: "EMP-" + id, FullName: id}
	}
	return d
}

func (d *Directory) Put(e employee.Employee) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[e.ID] = e
	return d
}

// Link adds the edge employeeID -> supervisorID.
func (d *Directory) Link(employeeID, supervisorID string) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.edges[employee.SupervisorEdge{EmployeeID: employeeID, SupervisorID: supervisorID}] = struct{}{}
	return d
}

func (d *Directory) Unlink(employeeID, supervisorID string) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.edges, employee.SupervisorEdge{EmployeeID: employeeID, SupervisorID: supervisorID})
	return d
}

func (d *Directory) Depart(id string, at time.Time) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.employees[id]
	e.DepartureDate = &at
	d.employees[id] = e
	return d
}

func (d *Directory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return employee.Employee{}, d.Err
	}
	e, ok := d.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d *Directory) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	var out []employee.Employee
	for _, id := range ids {
		if e, ok := d.employees[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *Directory) ListDirectSupervisorIDs(ctx context.Context, employeeID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	var out []string
	for edge := range d.edges {
		if edge.EmployeeID == employeeID && d.active(edge.SupervisorID) {
			out = append(out, edge.SupervisorID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (d *Directory) ListDirectSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	if !d.active(supervisorID) {
		return nil, nil
	}
	var out []string
	for edge := range d.edges {
		if edge.SupervisorID == supervisorID {
			out = append(out, edge.EmployeeID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (d *Directory) active(id string) bool {
	e, ok := d.employees[id]
	return ok && e.IsActive()
}

func (d *Directory) CountPendingReports(ctx context.Context, employeeIDs []string) (map[string]int, error) {
	d.mu.RLock()
	err, reports := d.Err, d.Reports
	d.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if reports == nil {
		return map[string]int{}, nil
	}
	return reports.countPending(employeeIDs), nil
}

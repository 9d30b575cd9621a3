package report

import (
	"context"
	"time"
)

type ReportRepository interface {
	// Upsert creates the report for (employee, date) or overwrites the content of the
	// existing one and resets its status to pending. created reports which happened.
	Upsert(ctx context.Context, r DailyReport) (saved DailyReport, created bool, err error)
	GetByID(ctx context.Context, id string) (DailyReport, error)
	// GetForUpdate loads the report and locks its row until the surrounding transaction
	// ends. Every write path that touches a report's approvals takes this lock first.
	GetForUpdate(ctx context.Context, id string) (DailyReport, error)
	// UpdateAggregate writes the composite rating and status. A nil rating keeps the
	// stored value.
	UpdateAggregate(ctx context.Context, id string, rating *float64, status Status) error
	ListByDateForEmployees(ctx context.Context, date time.Time, employeeIDs []string) ([]DailyReport, error)
}

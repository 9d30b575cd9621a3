package report

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
)

// DailyReport is one employee's report for one calendar date. Content is an opaque
// snapshot owned by the reporting feature; CompositeRating is written only by the
// rating aggregator.
type DailyReport struct {
	ID              string
	EmployeeID      string
	ReportDate      time.Time
	Status          Status
	Content         json.RawMessage
	CompositeRating *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeName *string
	EmployeeCode *string
}

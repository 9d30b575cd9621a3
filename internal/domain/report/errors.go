package report

import "errors"

var (
	ErrReportNotFound     = errors.New("daily report not found")
	ErrReportAccessDenied = errors.New("no permission to access this report")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
)

package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrInvalidScope         = errors.New("scope must be direct or all")
	ErrUnknownPolicy        = errors.New("unknown supervisor policy")
	ErrEmployeeIDRequired   = errors.New("employee id is required")
	ErrSupervisorIDRequired = errors.New("supervisor id is required")
	ErrNotSubordinate       = errors.New("employee is not in your reporting line")
)

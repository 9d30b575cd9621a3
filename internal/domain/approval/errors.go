package approval

import "errors"

var (
	ErrNotAuthorized    = errors.New("supervisor is not authorized to review this report")
	ErrApprovalNotFound = errors.New("approval record not found")
	ErrAlreadyReviewed  = errors.New("report already reviewed by this supervisor")
)

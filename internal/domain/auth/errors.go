package auth

import "errors"

var (
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrEmployeeClaimMissing = errors.New("token carries no employee_id claim")
)

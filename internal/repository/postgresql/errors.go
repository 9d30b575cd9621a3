package postgresql

import (
	"errors"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	foreignKeyViolationCode   = "23503"
	invalidTextRepresentation = "22P02"
)

// translatePgError maps constraint failures onto domain errors; anything else is
// returned unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return employee.ErrEmployeeNotFound
	}
	return err
}

// isMalformedID reports whether postgres rejected a parameter that is not a uuid.
// Such ids cannot match any row.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

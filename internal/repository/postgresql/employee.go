package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db database.Querier
}

func NewEmployeeRepository(db database.Querier) employee.DirectoryRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.DirectoryRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, employee_code, full_name, departure_date, admin_rank, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByIDs implements employee.DirectoryRepository.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return []employee.Employee{}, nil
	}
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, employee_code, full_name, departure_date, admin_rank, created_at, updated_at
		FROM employees
		WHERE id = ANY($1::uuid[])
		ORDER BY full_name, id
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

// ListDirectSupervisorIDs implements employee.DirectoryRepository.
func (e *employeeRepositoryImpl) ListDirectSupervisorIDs(ctx context.Context, employeeID string) ([]string, error) {
	query := `
		SELECT es.supervisor_id
		FROM employee_supervisors es
		JOIN employees s ON s.id = es.supervisor_id
		WHERE es.employee_id = $1 AND s.departure_date IS NULL
		ORDER BY es.supervisor_id
	`
	return e.queryIDs(ctx, query, employeeID)
}

// ListDirectSubordinateIDs implements employee.DirectoryRepository.
// The join on the supervisor keeps this the inverse of ListDirectSupervisorIDs.
func (e *employeeRepositoryImpl) ListDirectSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error) {
	query := `
		SELECT es.employee_id
		FROM employee_supervisors es
		JOIN employees s ON s.id = es.supervisor_id
		WHERE es.supervisor_id = $1 AND s.departure_date IS NULL
		ORDER BY es.employee_id
	`
	return e.queryIDs(ctx, query, supervisorID)
}

// CountPendingReports implements employee.DirectoryRepository.
func (e *employeeRepositoryImpl) CountPendingReports(ctx context.Context, employeeIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(employeeIDs) == 0 {
		return counts, nil
	}
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT employee_id, COUNT(*)
		FROM daily_reports
		WHERE status = 'pending' AND employee_id = ANY($1::uuid[])
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		if isMalformedID(err) {
			return counts, nil
		}
		return nil, fmt.Errorf("failed to count pending reports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pending report count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		if isMalformedID(err) {
			return counts, nil
		}
		return nil, fmt.Errorf("failed to iterate pending report counts: %w", err)
	}
	return counts, nil
}

func (e *employeeRepositoryImpl) queryIDs(ctx context.Context, query string, arg string) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		if isMalformedID(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to query supervisor edges: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan supervisor edge: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		if isMalformedID(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to iterate supervisor edges: %w", err)
	}
	return ids, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp       employee.Employee
		departure sql.NullTime
		adminRank sql.NullInt32
	)
	if err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &departure, &adminRank,
		&emp.CreatedAt, &emp.UpdatedAt,
	); err != nil {
		return employee.Employee{}, err
	}
	if departure.Valid {
		t := departure.Time
		emp.DepartureDate = &t
	}
	if adminRank.Valid {
		r := int(adminRank.Int32)
		emp.AdminRank = &r
	}
	return emp, nil
}

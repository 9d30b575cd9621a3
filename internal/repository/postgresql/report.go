package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type reportRepositoryImpl struct {
	db database.Querier
}

func NewReportRepository(db database.Querier) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// Upsert implements report.ReportRepository.
// xmax is zero only for a freshly inserted row, which tells the caller whether the
// conflict branch ran.
func (r *reportRepositoryImpl) Upsert(ctx context.Context, rep report.DailyReport) (report.DailyReport, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return report.DailyReport{}, false, fmt.Errorf("failed to generate report id: %w", err)
	}

	query := `
		INSERT INTO daily_reports (id, employee_id, report_date, status, content, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', $4, NOW(), NOW())
		ON CONFLICT (employee_id, report_date) DO UPDATE
		SET content = EXCLUDED.content, status = 'pending', updated_at = NOW()
		RETURNING id, employee_id, report_date, status, content, composite_rating, created_at, updated_at, (xmax = 0) AS inserted
	`

	var (
		saved    report.DailyReport
		status   string
		content  []byte
		rating   sql.NullFloat64
		inserted bool
	)
	err = q.QueryRow(ctx, query, id.String(), rep.EmployeeID, rep.ReportDate, []byte(rep.Content)).Scan(
		&saved.ID, &saved.EmployeeID, &saved.ReportDate, &status, &content, &rating,
		&saved.CreatedAt, &saved.UpdatedAt, &inserted,
	)
	if err != nil {
		if isMalformedID(err) {
			return report.DailyReport{}, false, employee.ErrEmployeeNotFound
		}
		return report.DailyReport{}, false, translatePgError(err)
	}

	saved.Status = report.Status(status)
	saved.Content = content
	if rating.Valid {
		v := rating.Float64
		saved.CompositeRating = &v
	}
	return saved, inserted, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepositoryImpl) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT dr.id, dr.employee_id, dr.report_date, dr.status, dr.content, dr.composite_rating,
			dr.created_at, dr.updated_at, e.full_name, e.employee_code
		FROM daily_reports dr
		JOIN employees e ON e.id = dr.employee_id
		WHERE dr.id = $1
	`

	rep, err := scanDailyReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return report.DailyReport{}, report.ErrReportNotFound
		}
		return report.DailyReport{}, err
	}
	return rep, nil
}

// GetForUpdate implements report.ReportRepository.
func (r *reportRepositoryImpl) GetForUpdate(ctx context.Context, id string) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT dr.id, dr.employee_id, dr.report_date, dr.status, dr.content, dr.composite_rating,
			dr.created_at, dr.updated_at, e.full_name, e.employee_code
		FROM daily_reports dr
		JOIN employees e ON e.id = dr.employee_id
		WHERE dr.id = $1
		FOR UPDATE OF dr
	`

	rep, err := scanDailyReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return report.DailyReport{}, report.ErrReportNotFound
		}
		return report.DailyReport{}, err
	}
	return rep, nil
}

// UpdateAggregate implements report.ReportRepository.
func (r *reportRepositoryImpl) UpdateAggregate(ctx context.Context, id string, rating *float64, status report.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE daily_reports
		SET composite_rating = COALESCE($2::numeric, composite_rating), status = $3, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id, rating, string(status))
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

// ListByDateForEmployees implements report.ReportRepository.
func (r *reportRepositoryImpl) ListByDateForEmployees(ctx context.Context, date time.Time, employeeIDs []string) ([]report.DailyReport, error) {
	if len(employeeIDs) == 0 {
		return []report.DailyReport{}, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT dr.id, dr.employee_id, dr.report_date, dr.status, dr.content, dr.composite_rating,
			dr.created_at, dr.updated_at, e.full_name, e.employee_code
		FROM daily_reports dr
		JOIN employees e ON e.id = dr.employee_id
		WHERE dr.report_date = $1 AND dr.employee_id = ANY($2::uuid[])
		ORDER BY e.full_name, dr.id
	`

	rows, err := q.Query(ctx, query, date, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer rows.Close()

	reports := []report.DailyReport{}
	for rows.Next() {
		rep, err := scanDailyReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily reports: %w", err)
	}
	return reports, nil
}

func scanDailyReport(row pgx.Row) (report.DailyReport, error) {
	var (
		rep          report.DailyReport
		status       string
		content      []byte
		rating       sql.NullFloat64
		employeeName string
		employeeCode string
	)
	if err := row.Scan(
		&rep.ID, &rep.EmployeeID, &rep.ReportDate, &status, &content, &rating,
		&rep.CreatedAt, &rep.UpdatedAt, &employeeName, &employeeCode,
	); err != nil {
		return report.DailyReport{}, err
	}
	rep.Status = report.Status(status)
	rep.Content = content
	if rating.Valid {
		v := rating.Float64
		rep.CompositeRating = &v
	}
	rep.EmployeeName = &employeeName
	rep.EmployeeCode = &employeeCode
	return rep, nil
}

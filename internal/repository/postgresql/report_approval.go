package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type reportApprovalRepositoryImpl struct {
	db database.Querier
}

func NewReportApprovalRepository(db database.Querier) approval.ApprovalRepository {
	return &reportApprovalRepositoryImpl{db: db}
}

// CreatePending implements approval.ApprovalRepository.
// The unique (report_id, supervisor_id) constraint turns a duplicate fan-out into a no-op.
func (r *reportApprovalRepositoryImpl) CreatePending(ctx context.Context, reportID string, supervisorIDs []string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO report_approvals (id, report_id, supervisor_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', NOW(), NOW())
		ON CONFLICT (report_id, supervisor_id) DO NOTHING
	`

	inserted := 0
	for _, supervisorID := range supervisorIDs {
		id, err := uuid.NewV7()
		if err != nil {
			return inserted, fmt.Errorf("failed to generate approval id: %w", err)
		}
		commandTag, err := q.Exec(ctx, query, id.String(), reportID, supervisorID)
		if err != nil {
			return inserted, translatePgError(err)
		}
		inserted += int(commandTag.RowsAffected())
	}
	return inserted, nil
}

// GetForUpdate implements approval.ApprovalRepository.
func (r *reportApprovalRepositoryImpl) GetForUpdate(ctx context.Context, reportID, supervisorID string) (approval.ApprovalRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, report_id, supervisor_id, status, rating, feedback, approved_at, created_at, updated_at
		FROM report_approvals
		WHERE report_id = $1 AND supervisor_id = $2
		FOR UPDATE
	`

	rec, err := scanApprovalRecord(q.QueryRow(ctx, query, reportID, supervisorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return approval.ApprovalRecord{}, approval.ErrApprovalNotFound
		}
		return approval.ApprovalRecord{}, err
	}
	return rec, nil
}

// ApplyReview implements approval.ApprovalRepository.
// The status guard makes the update a no-op once the record is approved, so a racing
// second approval never overwrites the first.
func (r *reportApprovalRepositoryImpl) ApplyReview(ctx context.Context, u approval.ReviewUpdate) (approval.ApprovalRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE report_approvals
		SET rating = COALESCE($2::numeric, rating),
			feedback = COALESCE($3::text, feedback),
			status = CASE WHEN $4::boolean THEN 'approved' ELSE status END,
			approved_at = CASE WHEN $4::boolean THEN $5::timestamptz ELSE approved_at END,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, report_id, supervisor_id, status, rating, feedback, approved_at, created_at, updated_at
	`

	rec, err := scanApprovalRecord(q.QueryRow(ctx, query, u.ID, u.Rating, u.Feedback, u.Approve, u.ApprovedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.ApprovalRecord{}, approval.ErrAlreadyReviewed
		}
		return approval.ApprovalRecord{}, err
	}
	return rec, nil
}

// ListByReport implements approval.ApprovalRepository.
func (r *reportApprovalRepositoryImpl) ListByReport(ctx context.Context, reportID string) ([]approval.ApprovalRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ra.id, ra.report_id, ra.supervisor_id, ra.status, ra.rating, ra.feedback, ra.approved_at,
			ra.created_at, ra.updated_at, e.full_name, e.employee_code
		FROM report_approvals ra
		LEFT JOIN employees e ON e.id = ra.supervisor_id
		WHERE ra.report_id = $1
		ORDER BY ra.created_at, ra.id
	`

	rows, err := q.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report approvals: %w", err)
	}
	defer rows.Close()

	records := []approval.ApprovalRecord{}
	for rows.Next() {
		var supervisorName, supervisorCode sql.NullString
		rec, err := scanApprovalRecord(rows, &supervisorName, &supervisorCode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report approval: %w", err)
		}
		if supervisorName.Valid {
			rec.SupervisorName = &supervisorName.String
		}
		if supervisorCode.Valid {
			rec.SupervisorCode = &supervisorCode.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report approvals: %w", err)
	}
	return records, nil
}

// ListPendingBySupervisor implements approval.ApprovalRepository.
func (r *reportApprovalRepositoryImpl) ListPendingBySupervisor(ctx context.Context, supervisorID string) ([]approval.PendingApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ra.id, ra.report_id, dr.report_date, dr.employee_id, e.full_name, e.employee_code, ra.created_at
		FROM report_approvals ra
		JOIN daily_reports dr ON dr.id = ra.report_id
		JOIN employees e ON e.id = dr.employee_id
		WHERE ra.supervisor_id = $1 AND ra.status = 'pending'
		ORDER BY dr.report_date DESC, e.full_name
	`

	rows, err := q.Query(ctx, query, supervisorID)
	if err != nil {
		if isMalformedID(err) {
			return []approval.PendingApproval{}, nil
		}
		return nil, fmt.Errorf("failed to query pending approvals: %w", err)
	}
	defer rows.Close()

	pending := []approval.PendingApproval{}
	for rows.Next() {
		var p approval.PendingApproval
		if err := rows.Scan(
			&p.ApprovalID, &p.ReportID, &p.ReportDate, &p.EmployeeID,
			&p.EmployeeName, &p.EmployeeCode, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pending approval: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		if isMalformedID(err) {
			return []approval.PendingApproval{}, nil
		}
		return nil, fmt.Errorf("failed to iterate pending approvals: %w", err)
	}
	return pending, nil
}

// scanApprovalRecord reads the nine record columns followed by any extra destinations.
func scanApprovalRecord(row pgx.Row, extra ...interface{}) (approval.ApprovalRecord, error) {
	var (
		rec        approval.ApprovalRecord
		status     string
		rating     sql.NullFloat64
		feedback   sql.NullString
		approvedAt sql.NullTime
	)
	dest := []interface{}{
		&rec.ID, &rec.ReportID, &rec.SupervisorID, &status, &rating, &feedback, &approvedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return approval.ApprovalRecord{}, err
	}
	rec.Status = approval.Status(status)
	if rating.Valid {
		v := rating.Float64
		rec.Rating = &v
	}
	if feedback.Valid {
		s := feedback.String
		rec.Feedback = &s
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		rec.ApprovedAt = &t
	}
	return rec, nil
}

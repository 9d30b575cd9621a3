package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/pkg/database"
	"github.com/google/uuid"
)

type reviewCommentRepositoryImpl struct {
	db database.Querier
}

// NewReviewCommentRepository returns the auditor that appends review calls to review_comments.
func NewReviewCommentRepository(db database.Querier) approval.ReviewAuditor {
	return &reviewCommentRepositoryImpl{db: db}
}

// RecordReview implements approval.ReviewAuditor.
func (r *reviewCommentRepositoryImpl) RecordReview(ctx context.Context, event approval.ReviewEvent) error {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate comment id: %w", err)
	}

	query := `
		INSERT INTO review_comments (id, report_id, supervisor_id, rating, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := q.Exec(ctx, query, id.String(), event.ReportID, event.SupervisorID, event.Rating, event.Feedback, event.OccurredAt); err != nil {
		return fmt.Errorf("failed to insert review comment: %w", err)
	}
	return nil
}

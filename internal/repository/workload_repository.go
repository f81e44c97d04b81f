package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/facultydesk/leave-api/internal/models"
)

// WorkloadRepository persists workload assignment workflow data.
type WorkloadRepository struct {
	db *sqlx.DB
}

// NewWorkloadRepository constructs the repository.
func NewWorkloadRepository(db *sqlx.DB) *WorkloadRepository {
	return &WorkloadRepository{db: db}
}

const workloadColumns = `w.id, w.leave_id, w.assigned_to, w.assigned_by, w.department, w.subjects,
       w.classes, w.total_hours, w.status, w.rejection_reason, w.assigned_at, w.responded_at`

// Create inserts a new workload assignment row.
func (r *WorkloadRepository) Create(ctx context.Context, assignment *models.WorkloadAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.Status == "" {
		assignment.Status = models.WorkloadStatusPending
	}
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	const query = `INSERT INTO workload_assignments
	(id, leave_id, assigned_to, assigned_by, department, subjects, classes, total_hours, status, rejection_reason, assigned_at, responded_at)
	VALUES (:id, :leave_id, :assigned_to, :assigned_by, :department, :subjects, :classes, :total_hours, :status, :rejection_reason, :assigned_at, :responded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create workload assignment: %w", err)
	}
	return nil
}

// GetByID fetches an assignment joined with participant names.
func (r *WorkloadRepository) GetByID(ctx context.Context, id string) (*models.WorkloadDetail, error) {
	query := fmt.Sprintf(`SELECT %s,
       assignee.name AS assignee_name, assigner.name AS assigner_name
	FROM workload_assignments w
	JOIN users assignee ON assignee.id = w.assigned_to
	JOIN users assigner ON assigner.id = w.assigned_by
	WHERE w.id = $1`, workloadColumns)
	var assignment models.WorkloadDetail
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// List returns assignments matching the filter (newest first).
func (r *WorkloadRepository) List(ctx context.Context, filter models.WorkloadFilter) ([]models.WorkloadDetail, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 5)
	builder.WriteString(fmt.Sprintf(`SELECT %s,
       assignee.name AS assignee_name, assigner.name AS assigner_name
	FROM workload_assignments w
	JOIN users assignee ON assignee.id = w.assigned_to
	JOIN users assigner ON assigner.id = w.assigned_by`, workloadColumns))

	conditions := make([]string, 0, 4)
	if filter.LeaveID != "" {
		args = append(args, filter.LeaveID)
		conditions = append(conditions, fmt.Sprintf("w.leave_id = $%d", len(args)))
	}
	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("w.assigned_to = $%d", len(args)))
	}
	if filter.AssignedBy != "" {
		args = append(args, filter.AssignedBy)
		conditions = append(conditions, fmt.Sprintf("w.assigned_by = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("w.department = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("w.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY w.assigned_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var assignments []models.WorkloadDetail
	if err := r.db.SelectContext(ctx, &assignments, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list workload assignments: %w", err)
	}
	return assignments, nil
}

// RespondParams groups the columns written when an assignee responds.
type RespondParams struct {
	ID              string
	Status          models.WorkloadStatus
	RejectionReason *string
	RespondedAt     time.Time
}

// Respond transitions a pending assignment to accepted or rejected. The
// update is conditional on the row still being pending; once a response has
// landed the row is immutable and a second writer gets sql.ErrNoRows.
func (r *WorkloadRepository) Respond(ctx context.Context, params RespondParams) error {
	query := fmt.Sprintf(`UPDATE workload_assignments
	SET status = :status, rejection_reason = :rejection_reason, responded_at = :responded_at
	WHERE id = :id AND status = '%s'`, models.WorkloadStatusPending)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":               params.ID,
		"status":           params.Status,
		"rejection_reason": params.RejectionReason,
		"responded_at":     params.RespondedAt,
	})
	if err != nil {
		return fmt.Errorf("respond to workload assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check workload update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StatusCounts aggregates assignments by status within the filter scope.
func (r *WorkloadRepository) StatusCounts(ctx context.Context, filter models.WorkloadFilter) (*models.WorkloadStatusCounts, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'pending') AS pending,
       COUNT(*) FILTER (WHERE status = 'accepted') AS accepted,
       COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
	FROM workload_assignments`)

	conditions := make([]string, 0, 2)
	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}

	var counts models.WorkloadStatusCounts
	if err := r.db.GetContext(ctx, &counts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("count workload assignments: %w", err)
	}
	return &counts, nil
}

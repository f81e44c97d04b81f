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

// LeaveRepository persists leave request workflow data.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

const leaveColumns = `l.id, l.faculty_id, l.leave_type, l.start_date, l.end_date, l.total_days,
       l.reason, l.status, l.resolved_by, l.rejection_reason, l.comments, l.created_at, l.updated_at`

// Create inserts a new leave request row.
func (r *LeaveRepository) Create(ctx context.Context, leave *models.LeaveRequest) error {
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	if leave.Status == "" {
		leave.Status = models.LeaveStatusPending
	}
	now := time.Now().UTC()
	if leave.CreatedAt.IsZero() {
		leave.CreatedAt = now
	}
	leave.UpdatedAt = now
	const query = `INSERT INTO leave_requests
	(id, faculty_id, leave_type, start_date, end_date, total_days, reason, status, resolved_by, rejection_reason, comments, created_at, updated_at)
	VALUES (:id, :faculty_id, :leave_type, :start_date, :end_date, :total_days, :reason, :status, :resolved_by, :rejection_reason, :comments, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// GetByID fetches a leave request joined with its owner's identity.
func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*models.LeaveDetail, error) {
	query := fmt.Sprintf(`SELECT %s,
       u.name AS faculty_name, u.email AS faculty_email, u.department AS faculty_department,
       resolver.name AS resolver_name
	FROM leave_requests l
	JOIN users u ON u.id = l.faculty_id
	LEFT JOIN users resolver ON resolver.id = l.resolved_by
	WHERE l.id = $1`, leaveColumns)
	var leave models.LeaveDetail
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		return nil, err
	}
	return &leave, nil
}

// List returns leave requests matching the filter (sorted latest first).
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveDetail, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(fmt.Sprintf(`SELECT %s,
       u.name AS faculty_name, u.email AS faculty_email, u.department AS faculty_department,
       resolver.name AS resolver_name
	FROM leave_requests l
	JOIN users u ON u.id = l.faculty_id
	LEFT JOIN users resolver ON resolver.id = l.resolved_by`, leaveColumns))

	conditions := make([]string, 0, 3)
	if filter.FacultyID != "" {
		args = append(args, filter.FacultyID)
		conditions = append(conditions, fmt.Sprintf("l.faculty_id = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("u.department = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("l.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}

	switch filter.SortBy {
	case "updated_at":
		builder.WriteString(" ORDER BY l.updated_at DESC")
	default:
		builder.WriteString(" ORDER BY l.created_at DESC")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var leaves []models.LeaveDetail
	if err := r.db.SelectContext(ctx, &leaves, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return leaves, nil
}

// ResolveLeaveParams groups the columns written when a pending leave is
// approved or rejected.
type ResolveLeaveParams struct {
	ID              string
	Status          models.LeaveStatus
	ResolvedBy      string
	RejectionReason *string
	Comments        *string
	UpdatedAt       time.Time
}

// ResolveStatus transitions a pending leave to a terminal status. The update
// is conditional on the row still being pending so that racing resolvers
// cannot overwrite the first decision; a lost race surfaces as
// sql.ErrNoRows.
func (r *LeaveRepository) ResolveStatus(ctx context.Context, params ResolveLeaveParams) error {
	query := fmt.Sprintf(`UPDATE leave_requests
	SET status = :status, resolved_by = :resolved_by, rejection_reason = :rejection_reason,
	    comments = :comments, updated_at = :updated_at
	WHERE id = :id AND status = '%s'`, models.LeaveStatusPending)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":               params.ID,
		"status":           params.Status,
		"resolved_by":      params.ResolvedBy,
		"rejection_reason": params.RejectionReason,
		"comments":         params.Comments,
		"updated_at":       params.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("resolve leave status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check leave update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePending removes a leave request while it is still pending and owned
// by the given faculty member. Terminal rows are never deleted.
func (r *LeaveRepository) DeletePending(ctx context.Context, id, facultyID string) error {
	query := fmt.Sprintf(`DELETE FROM leave_requests WHERE id = $1 AND faculty_id = $2 AND status = '%s'`,
		models.LeaveStatusPending)
	result, err := r.db.ExecContext(ctx, query, id, facultyID)
	if err != nil {
		return fmt.Errorf("delete pending leave: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check leave delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StatusCounts aggregates leave requests by status within the filter scope.
func (r *LeaveRepository) StatusCounts(ctx context.Context, filter models.LeaveFilter) (*models.LeaveStatusCounts, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE l.status = 'pending') AS pending,
       COUNT(*) FILTER (WHERE l.status = 'approved') AS approved,
       COUNT(*) FILTER (WHERE l.status = 'rejected') AS rejected
	FROM leave_requests l
	JOIN users u ON u.id = l.faculty_id`)

	conditions := make([]string, 0, 2)
	if filter.FacultyID != "" {
		args = append(args, filter.FacultyID)
		conditions = append(conditions, fmt.Sprintf("l.faculty_id = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("u.department = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}

	var counts models.LeaveStatusCounts
	if err := r.db.GetContext(ctx, &counts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("count leave requests: %w", err)
	}
	return &counts, nil
}

// SumApprovedDays totals approved leave days within the filter scope.
func (r *LeaveRepository) SumApprovedDays(ctx context.Context, filter models.LeaveFilter) (int, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT COALESCE(SUM(l.total_days), 0)
	FROM leave_requests l
	JOIN users u ON u.id = l.faculty_id
	WHERE l.status = 'approved'`)

	if filter.FacultyID != "" {
		args = append(args, filter.FacultyID)
		builder.WriteString(fmt.Sprintf(" AND l.faculty_id = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		builder.WriteString(fmt.Sprintf(" AND u.department = $%d", len(args)))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("sum approved days: %w", err)
	}
	return total, nil
}

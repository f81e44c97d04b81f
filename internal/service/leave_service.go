package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/facultydesk/leave-api/internal/dto"
	"github.com/facultydesk/leave-api/internal/models"
	"github.com/facultydesk/leave-api/internal/notify"
	"github.com/facultydesk/leave-api/internal/policy"
	"github.com/facultydesk/leave-api/internal/repository"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
)

type leaveStore interface {
	Create(ctx context.Context, leave *models.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*models.LeaveDetail, error)
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveDetail, error)
	ResolveStatus(ctx context.Context, params repository.ResolveLeaveParams) error
	DeletePending(ctx context.Context, id, facultyID string) error
}

type leaveNotifier interface {
	Notify(ctx context.Context, event notify.Event)
}

// LeaveServiceConfig tunes leave validation.
type LeaveServiceConfig struct {
	MaxReasonLength     int
	MaxCommentLength    int
	AllowBackdatedStart bool
}

// LeaveService owns the leave request lifecycle: creation, the
// pending-to-terminal transitions, and scoped reads. All transitions go
// through the store's conditional update so concurrent resolvers cannot
// overwrite each other.
type LeaveService struct {
	repo     leaveStore
	notifier leaveNotifier
	logger   *zap.Logger
	cfg      LeaveServiceConfig
	now      func() time.Time
}

// NewLeaveService constructs the service with defaults.
func NewLeaveService(repo leaveStore, notifier leaveNotifier, logger *zap.Logger, cfg LeaveServiceConfig) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxReasonLength <= 0 {
		cfg.MaxReasonLength = 500
	}
	if cfg.MaxCommentLength <= 0 {
		cfg.MaxCommentLength = 200
	}
	return &LeaveService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

const dateLayout = "2006-01-02"

// Create validates and stores a new pending leave request for the actor.
func (s *LeaveService) Create(ctx context.Context, actor models.Actor, req dto.CreateLeaveRequest) (*models.LeaveRequest, error) {
	if actor.Role != models.RoleFaculty {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only faculty members can request leave")
	}
	if !req.LeaveType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported leave type")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reason is required")
	}
	if len(reason) > s.cfg.MaxReasonLength {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("reason cannot exceed %d characters", s.cfg.MaxReasonLength))
	}

	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted as YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be on or after start_date")
	}
	if !s.cfg.AllowBackdatedStart {
		today := truncateToDay(s.now().UTC())
		if start.Before(today) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date cannot be in the past")
		}
	}

	leave := &models.LeaveRequest{
		FacultyID: actor.ID,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		TotalDays: totalDays(start, end),
		Reason:    reason,
		Status:    models.LeaveStatusPending,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to store leave request")
	}
	return leave, nil
}

// Get returns a leave request the actor is allowed to see.
func (s *LeaveService) Get(ctx context.Context, actor models.Actor, id string) (*models.LeaveDetail, error) {
	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionView, leaveResource(leave)) {
		return nil, appErrors.ErrForbidden
	}
	return leave, nil
}

// List returns leave requests within the actor's visibility: own records
// for faculty, department records for an HOD, everything for admin.
func (s *LeaveService) List(ctx context.Context, actor models.Actor, query dto.LeaveQuery) ([]models.LeaveDetail, error) {
	filter := models.LeaveFilter{
		Status: query.Status,
		SortBy: query.SortBy,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	switch actor.Role {
	case models.RoleAdmin:
		// full visibility
	case models.RoleHOD:
		filter.Department = actor.Department
	case models.RoleFaculty:
		filter.FacultyID = actor.ID
	default:
		return nil, appErrors.ErrForbidden
	}
	leaves, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list leave requests")
	}
	return leaves, nil
}

// Approve transitions a pending leave to approved and records the actor as
// resolver. Approving an already-approved leave is an idempotent no-op: the
// first successful transition wins and is never overwritten. Approving a
// rejected leave fails.
func (s *LeaveService) Approve(ctx context.Context, actor models.Actor, id string, req dto.ApproveLeaveRequest) (*models.LeaveDetail, error) {
	comments := strings.TrimSpace(req.Comments)
	if len(comments) > s.cfg.MaxCommentLength {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("comments cannot exceed %d characters", s.cfg.MaxCommentLength))
	}

	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionApprove, leaveResource(leave)) {
		return nil, appErrors.ErrForbidden
	}

	switch leave.Status {
	case models.LeaveStatusApproved:
		return leave, nil
	case models.LeaveStatusRejected:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "leave request has already been rejected")
	}

	params := repository.ResolveLeaveParams{
		ID:         leave.ID,
		Status:     models.LeaveStatusApproved,
		ResolvedBy: actor.ID,
		Comments:   optionalString(comments),
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.repo.ResolveStatus(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.settleLostRace(ctx, id, models.LeaveStatusApproved)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update leave request")
	}

	leave.Status = models.LeaveStatusApproved
	leave.ResolvedBy = &actor.ID
	leave.Comments = params.Comments
	leave.UpdatedAt = params.UpdatedAt
	s.notifyResolution(ctx, leave, notify.EventLeaveApproved, "")
	return leave, nil
}

// Reject transitions a pending leave to rejected. Re-rejecting an already
// rejected leave is a no-op; rejecting an approved leave always fails since
// approval is a terminal supervisory decision.
func (s *LeaveService) Reject(ctx context.Context, actor models.Actor, id string, req dto.RejectLeaveRequest) (*models.LeaveDetail, error) {
	reason := strings.TrimSpace(req.RejectionReason)
	if reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}

	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionReject, leaveResource(leave)) {
		return nil, appErrors.ErrForbidden
	}

	switch leave.Status {
	case models.LeaveStatusRejected:
		return leave, nil
	case models.LeaveStatusApproved:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "leave request has already been approved")
	}

	params := repository.ResolveLeaveParams{
		ID:              leave.ID,
		Status:          models.LeaveStatusRejected,
		ResolvedBy:      actor.ID,
		RejectionReason: &reason,
		UpdatedAt:       s.now().UTC(),
	}
	if err := s.repo.ResolveStatus(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.settleLostRace(ctx, id, models.LeaveStatusRejected)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update leave request")
	}

	leave.Status = models.LeaveStatusRejected
	leave.ResolvedBy = &actor.ID
	leave.RejectionReason = &reason
	leave.UpdatedAt = params.UpdatedAt
	s.notifyResolution(ctx, leave, notify.EventLeaveRejected, reason)
	return leave, nil
}

// Cancel removes a pending leave request on behalf of its owner. Terminal
// requests cannot be cancelled.
func (s *LeaveService) Cancel(ctx context.Context, actor models.Actor, id string) error {
	leave, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !policy.Allowed(actor, policy.ActionCancel, leaveResource(leave)) {
		return appErrors.ErrForbidden
	}
	if err := s.repo.DeletePending(ctx, id, leave.FacultyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidState, "only pending leave requests can be cancelled")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to cancel leave request")
	}
	return nil
}

func (s *LeaveService) load(ctx context.Context, id string) (*models.LeaveDetail, error) {
	leave, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load leave request")
	}
	return leave, nil
}

// settleLostRace re-reads a leave after a failed conditional update. A
// concurrent resolver that landed the same terminal status makes this call
// an idempotent success; a conflicting terminal status is an invalid
// transition.
func (s *LeaveService) settleLostRace(ctx context.Context, id string, wanted models.LeaveStatus) (*models.LeaveDetail, error) {
	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.Status == wanted {
		return leave, nil
	}
	return nil, appErrors.Clone(appErrors.ErrInvalidState,
		fmt.Sprintf("leave request is already %s", leave.Status))
}

func (s *LeaveService) notifyResolution(ctx context.Context, leave *models.LeaveDetail, kind notify.EventKind, reason string) {
	if s.notifier == nil {
		return
	}
	subject := fmt.Sprintf("Leave request %s", strings.TrimPrefix(string(kind), "leave."))
	body := fmt.Sprintf("Your %s leave from %s to %s (%d days) has been %s.",
		leave.LeaveType,
		leave.StartDate.Format(dateLayout),
		leave.EndDate.Format(dateLayout),
		leave.TotalDays,
		strings.TrimPrefix(string(kind), "leave."),
	)
	if reason != "" {
		body += " Reason: " + reason
	}
	s.notifier.Notify(ctx, notify.Event{
		Kind:           kind,
		RecipientEmail: leave.FacultyEmail,
		RecipientName:  leave.FacultyName,
		Subject:        subject,
		Body:           body,
	})
}

func leaveResource(leave *models.LeaveDetail) policy.Resource {
	return policy.LeaveResource(leave.FacultyID, leave.FacultyDepartment, leave.Status)
}

// totalDays counts the inclusive number of calendar days in the range.
func totalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

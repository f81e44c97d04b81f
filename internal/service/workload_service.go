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

type workloadStore interface {
	Create(ctx context.Context, assignment *models.WorkloadAssignment) error
	GetByID(ctx context.Context, id string) (*models.WorkloadDetail, error)
	List(ctx context.Context, filter models.WorkloadFilter) ([]models.WorkloadDetail, error)
	Respond(ctx context.Context, params repository.RespondParams) error
}

type workloadLeaveReader interface {
	GetByID(ctx context.Context, id string) (*models.LeaveDetail, error)
}

type workloadUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// WorkloadService owns workload assignment lifecycles. An assignment is
// spawned from a leave request and carries its own pending-to-terminal state
// machine, independent of the parent leave's state.
type WorkloadService struct {
	repo     workloadStore
	leaves   workloadLeaveReader
	users    workloadUserReader
	notifier leaveNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewWorkloadService constructs the service.
func NewWorkloadService(repo workloadStore, leaves workloadLeaveReader, users workloadUserReader, notifier leaveNotifier, logger *zap.Logger) *WorkloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{
		repo:     repo,
		leaves:   leaves,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create records a new pending assignment covering the leave owner's duties.
// The assignee must be an active faculty member in the assigner's department
// and must not be the leave's owner.
func (s *WorkloadService) Create(ctx context.Context, actor models.Actor, req dto.CreateWorkloadRequest) (*models.WorkloadAssignment, error) {
	if actor.Role != models.RoleFaculty && actor.Role != models.RoleHOD && actor.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}
	if len(req.Subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one subject is required")
	}
	if len(req.Classes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one class is required")
	}
	if req.TotalHours <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "total hours must be positive")
	}

	leave, err := s.leaves.GetByID(ctx, req.LeaveID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load leave request")
	}
	if leave.Status == models.LeaveStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "cannot assign workload for a rejected leave")
	}

	assignee, err := s.users.FindByID(ctx, req.AssignedTo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load assignee")
	}
	if assignee.Role != models.RoleFaculty || !assignee.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignee must be an active faculty member")
	}
	if assignee.ID == leave.FacultyID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workload cannot be assigned to the leave owner")
	}

	res := policy.WorkloadResource(assignee.ID, actor.ID, assignee.Department, models.WorkloadStatusPending)
	if !policy.Allowed(actor, policy.ActionCreate, res) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "workload can only be assigned within your department")
	}

	assignment := &models.WorkloadAssignment{
		LeaveID:    leave.ID,
		AssignedTo: assignee.ID,
		AssignedBy: actor.ID,
		Department: assignee.Department,
		Subjects:   append([]string(nil), req.Subjects...),
		Classes:    append([]string(nil), req.Classes...),
		TotalHours: req.TotalHours,
		Status:     models.WorkloadStatusPending,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to store workload assignment")
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notify.Event{
			Kind:           notify.EventWorkloadAssigned,
			RecipientEmail: assignee.Email,
			RecipientName:  assignee.Name,
			Subject:        "New workload assignment",
			Body: fmt.Sprintf("You have been assigned %.1f hours covering %s.",
				assignment.TotalHours, strings.Join(assignment.Subjects, ", ")),
		})
	}
	return assignment, nil
}

// Get returns an assignment the actor is allowed to see.
func (s *WorkloadService) Get(ctx context.Context, actor models.Actor, id string) (*models.WorkloadDetail, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionView, workloadResource(assignment)) {
		return nil, appErrors.ErrForbidden
	}
	return assignment, nil
}

// List returns assignments within the actor's visibility. Faculty see
// assignments they received (default) or issued (view=issued); an HOD sees
// their department; admin sees everything. Filtering by leave is available
// to HOD and admin, and to faculty when they own or issued against it.
func (s *WorkloadService) List(ctx context.Context, actor models.Actor, query dto.WorkloadQuery) ([]models.WorkloadDetail, error) {
	filter := models.WorkloadFilter{
		LeaveID: query.LeaveID,
		Status:  query.Status,
		Limit:   query.Limit,
		Offset:  query.Offset,
	}
	switch actor.Role {
	case models.RoleAdmin:
		// full visibility
	case models.RoleHOD:
		filter.Department = actor.Department
	case models.RoleFaculty:
		if query.View == "issued" {
			filter.AssignedBy = actor.ID
		} else {
			filter.AssignedTo = actor.ID
		}
	default:
		return nil, appErrors.ErrForbidden
	}
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list workload assignments")
	}
	return assignments, nil
}

// Respond applies the assignee's (or a department HOD's) decision to a
// pending assignment. Unlike leave approval there is no idempotent
// re-application: a response is a personal commitment, so any second
// response attempt fails and the first response stays untouched.
func (s *WorkloadService) Respond(ctx context.Context, actor models.Actor, id string, req dto.RespondWorkloadRequest) (*models.WorkloadDetail, error) {
	var status models.WorkloadStatus
	switch req.Decision {
	case models.WorkloadDecisionAccept:
		status = models.WorkloadStatusAccepted
	case models.WorkloadDecisionReject:
		status = models.WorkloadStatusRejected
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be accept or reject")
	}
	reason := strings.TrimSpace(req.RejectionReason)
	if status == models.WorkloadStatusRejected && reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}

	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionRespond, workloadResource(assignment)) {
		return nil, appErrors.ErrForbidden
	}
	if assignment.Status != models.WorkloadStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "workload assignment has already been responded to")
	}

	params := repository.RespondParams{
		ID:          assignment.ID,
		Status:      status,
		RespondedAt: s.now().UTC(),
	}
	if status == models.WorkloadStatusRejected {
		params.RejectionReason = &reason
	}
	if err := s.repo.Respond(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// a concurrent responder won; the first response is final
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "workload assignment has already been responded to")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update workload assignment")
	}

	assignment.Status = status
	assignment.RespondedAt = &params.RespondedAt
	assignment.RejectionReason = params.RejectionReason
	s.notifyResponse(ctx, assignment)
	return assignment, nil
}

func (s *WorkloadService) load(ctx context.Context, id string) (*models.WorkloadDetail, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load workload assignment")
	}
	return assignment, nil
}

func (s *WorkloadService) notifyResponse(ctx context.Context, assignment *models.WorkloadDetail) {
	if s.notifier == nil {
		return
	}
	assigner, err := s.users.FindByID(ctx, assignment.AssignedBy)
	if err != nil {
		s.logger.Warn("skipping response notification", zap.String("assignment_id", assignment.ID), zap.Error(err))
		return
	}
	s.notifier.Notify(ctx, notify.Event{
		Kind:           notify.EventWorkloadResponded,
		RecipientEmail: assigner.Email,
		RecipientName:  assigner.Name,
		Subject:        "Workload assignment " + string(assignment.Status),
		Body: fmt.Sprintf("%s has %s the workload assignment of %.1f hours.",
			assignment.AssigneeName, assignment.Status, assignment.TotalHours),
	})
}

func workloadResource(assignment *models.WorkloadDetail) policy.Resource {
	return policy.WorkloadResource(assignment.AssignedTo, assignment.AssignedBy, assignment.Department, assignment.Status)
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facultydesk/leave-api/internal/dto"
	"github.com/facultydesk/leave-api/internal/models"
	"github.com/facultydesk/leave-api/internal/notify"
	"github.com/facultydesk/leave-api/internal/repository"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
)

type mockWorkloadStore struct {
	read       *models.WorkloadDetail
	getErr     error
	createErr  error
	respondErr error
	listErr    error
	listed     []models.WorkloadDetail

	created    *models.WorkloadAssignment
	responded  []repository.RespondParams
	listFilter models.WorkloadFilter
}

func (m *mockWorkloadStore) Create(_ context.Context, assignment *models.WorkloadAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	assignment.ID = "wl-1"
	m.created = assignment
	return nil
}

func (m *mockWorkloadStore) GetByID(_ context.Context, _ string) (*models.WorkloadDetail, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	assignment := *m.read
	return &assignment, nil
}

func (m *mockWorkloadStore) List(_ context.Context, filter models.WorkloadFilter) ([]models.WorkloadDetail, error) {
	m.listFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listed, nil
}

func (m *mockWorkloadStore) Respond(_ context.Context, params repository.RespondParams) error {
	m.responded = append(m.responded, params)
	return m.respondErr
}

type mockUserReader struct {
	users map[string]*models.User
}

func (m *mockUserReader) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func activeFaculty(id, department string) *models.User {
	return &models.User{
		ID:         id,
		Name:       "Member " + id,
		Email:      id + "@example.edu",
		Role:       models.RoleFaculty,
		Department: department,
		Active:     true,
	}
}

func pendingAssignment() *models.WorkloadDetail {
	return &models.WorkloadDetail{
		WorkloadAssignment: models.WorkloadAssignment{
			ID:         "wl-1",
			LeaveID:    "leave-1",
			AssignedTo: "fac-2",
			AssignedBy: "fac-1",
			Department: "physics",
			Subjects:   []string{"mechanics"},
			Classes:    []string{"PHY-101"},
			TotalHours: 6,
			Status:     models.WorkloadStatusPending,
		},
		AssigneeName: "Member fac-2",
		AssignerName: "Member fac-1",
	}
}

func newWorkloadServiceForTest(store *mockWorkloadStore, leaves *mockLeaveStore, users *mockUserReader, notifier *captureNotifier) *WorkloadService {
	var n leaveNotifier
	if notifier != nil {
		n = notifier
	}
	svc := NewWorkloadService(store, leaves, users, n, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestWorkloadServiceCreate(t *testing.T) {
	owner := models.Actor{ID: "fac-1", Role: models.RoleFaculty, Department: "physics"}

	validRequest := func() dto.CreateWorkloadRequest {
		return dto.CreateWorkloadRequest{
			LeaveID:    "leave-1",
			AssignedTo: "fac-2",
			Subjects:   []string{"mechanics"},
			Classes:    []string{"PHY-101"},
			TotalHours: 6,
		}
	}

	t.Run("stores a pending assignment and notifies the assignee", func(t *testing.T) {
		store := &mockWorkloadStore{}
		leaves := &mockLeaveStore{reads: []*models.LeaveDetail{pendingLeaveDetail()}}
		users := &mockUserReader{users: map[string]*models.User{"fac-2": activeFaculty("fac-2", "physics")}}
		notifier := &captureNotifier{}
		svc := newWorkloadServiceForTest(store, leaves, users, notifier)

		assignment, err := svc.Create(context.Background(), owner, validRequest())
		require.NoError(t, err)
		require.Equal(t, models.WorkloadStatusPending, assignment.Status)
		require.Equal(t, "fac-2", assignment.AssignedTo)
		require.Equal(t, "fac-1", assignment.AssignedBy)
		require.Equal(t, "physics", assignment.Department)

		require.Len(t, notifier.events, 1)
		require.Equal(t, notify.EventWorkloadAssigned, notifier.events[0].Kind)
		require.Equal(t, "fac-2@example.edu", notifier.events[0].RecipientEmail)
	})

	t.Run("requires subjects, classes and positive hours", func(t *testing.T) {
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, &mockLeaveStore{}, &mockUserReader{}, nil)

		req := validRequest()
		req.Subjects = nil
		_, err := svc.Create(context.Background(), owner, req)
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))

		req = validRequest()
		req.Classes = nil
		_, err = svc.Create(context.Background(), owner, req)
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))

		req = validRequest()
		req.TotalHours = 0
		_, err = svc.Create(context.Background(), owner, req)
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("missing leave maps to not found", func(t *testing.T) {
		leaves := &mockLeaveStore{getErr: sql.ErrNoRows}
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, leaves, &mockUserReader{}, nil)
		_, err := svc.Create(context.Background(), owner, validRequest())
		require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	})

	t.Run("rejected leave cannot spawn assignments", func(t *testing.T) {
		rejected := pendingLeaveDetail()
		rejected.Status = models.LeaveStatusRejected
		leaves := &mockLeaveStore{reads: []*models.LeaveDetail{rejected}}
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, leaves, &mockUserReader{}, nil)
		_, err := svc.Create(context.Background(), owner, validRequest())
		require.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
	})

	t.Run("assignee must be an active faculty member", func(t *testing.T) {
		inactive := activeFaculty("fac-2", "physics")
		inactive.Active = false
		leaves := &mockLeaveStore{reads: []*models.LeaveDetail{pendingLeaveDetail()}}
		users := &mockUserReader{users: map[string]*models.User{"fac-2": inactive}}
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, leaves, users, nil)
		_, err := svc.Create(context.Background(), owner, validRequest())
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("assignee cannot be the leave owner", func(t *testing.T) {
		leaves := &mockLeaveStore{reads: []*models.LeaveDetail{pendingLeaveDetail()}}
		users := &mockUserReader{users: map[string]*models.User{"fac-1": activeFaculty("fac-1", "physics")}}
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, leaves, users, nil)

		req := validRequest()
		req.AssignedTo = "fac-1"
		_, err := svc.Create(context.Background(), owner, req)
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("cross-department assignment is forbidden", func(t *testing.T) {
		leaves := &mockLeaveStore{reads: []*models.LeaveDetail{pendingLeaveDetail()}}
		users := &mockUserReader{users: map[string]*models.User{"fac-2": activeFaculty("fac-2", "chemistry")}}
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, leaves, users, nil)
		_, err := svc.Create(context.Background(), owner, validRequest())
		require.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	})

	t.Run("admin may assign across departments", func(t *testing.T) {
		leaves := &mockLeaveStore{reads: []*models.LeaveDetail{pendingLeaveDetail()}}
		users := &mockUserReader{users: map[string]*models.User{"fac-2": activeFaculty("fac-2", "chemistry")}}
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, leaves, users, nil)

		admin := models.Actor{ID: "adm-1", Role: models.RoleAdmin}
		assignment, err := svc.Create(context.Background(), admin, validRequest())
		require.NoError(t, err)
		require.Equal(t, "chemistry", assignment.Department)
	})
}

func TestWorkloadServiceListScoping(t *testing.T) {
	t.Run("faculty default view lists received assignments", func(t *testing.T) {
		store := &mockWorkloadStore{}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, &mockUserReader{}, nil)
		_, err := svc.List(context.Background(), models.Actor{ID: "fac-2", Role: models.RoleFaculty, Department: "physics"}, dto.WorkloadQuery{})
		require.NoError(t, err)
		require.Equal(t, "fac-2", store.listFilter.AssignedTo)
		require.Empty(t, store.listFilter.AssignedBy)
	})

	t.Run("faculty issued view lists assignments they created", func(t *testing.T) {
		store := &mockWorkloadStore{}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, &mockUserReader{}, nil)
		_, err := svc.List(context.Background(), models.Actor{ID: "fac-1", Role: models.RoleFaculty, Department: "physics"}, dto.WorkloadQuery{View: "issued"})
		require.NoError(t, err)
		require.Equal(t, "fac-1", store.listFilter.AssignedBy)
		require.Empty(t, store.listFilter.AssignedTo)
	})

	t.Run("hod is scoped to the department", func(t *testing.T) {
		store := &mockWorkloadStore{}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, &mockUserReader{}, nil)
		_, err := svc.List(context.Background(), models.Actor{ID: "hod-1", Role: models.RoleHOD, Department: "physics"}, dto.WorkloadQuery{})
		require.NoError(t, err)
		require.Equal(t, "physics", store.listFilter.Department)
	})
}

func TestWorkloadServiceRespond(t *testing.T) {
	assignee := models.Actor{ID: "fac-2", Role: models.RoleFaculty, Department: "physics"}

	t.Run("assignee accepts a pending assignment", func(t *testing.T) {
		store := &mockWorkloadStore{read: pendingAssignment()}
		users := &mockUserReader{users: map[string]*models.User{"fac-1": activeFaculty("fac-1", "physics")}}
		notifier := &captureNotifier{}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, users, notifier)

		assignment, err := svc.Respond(context.Background(), assignee, "wl-1", dto.RespondWorkloadRequest{Decision: models.WorkloadDecisionAccept})
		require.NoError(t, err)
		require.Equal(t, models.WorkloadStatusAccepted, assignment.Status)
		require.NotNil(t, assignment.RespondedAt)

		require.Len(t, store.responded, 1)
		require.Equal(t, models.WorkloadStatusAccepted, store.responded[0].Status)

		require.Len(t, notifier.events, 1)
		require.Equal(t, notify.EventWorkloadResponded, notifier.events[0].Kind)
		require.Equal(t, "fac-1@example.edu", notifier.events[0].RecipientEmail)
	})

	t.Run("rejecting requires a reason", func(t *testing.T) {
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, &mockLeaveStore{}, &mockUserReader{}, nil)
		_, err := svc.Respond(context.Background(), assignee, "wl-1", dto.RespondWorkloadRequest{Decision: models.WorkloadDecisionReject})
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("second response attempt fails", func(t *testing.T) {
		accepted := pendingAssignment()
		accepted.Status = models.WorkloadStatusAccepted
		store := &mockWorkloadStore{read: accepted}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, &mockUserReader{}, nil)

		_, err := svc.Respond(context.Background(), assignee, "wl-1", dto.RespondWorkloadRequest{Decision: models.WorkloadDecisionAccept})
		require.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
		require.Empty(t, store.responded)
	})

	t.Run("losing the respond race keeps the first response final", func(t *testing.T) {
		store := &mockWorkloadStore{read: pendingAssignment(), respondErr: sql.ErrNoRows}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, &mockUserReader{}, nil)

		_, err := svc.Respond(context.Background(), assignee, "wl-1", dto.RespondWorkloadRequest{Decision: models.WorkloadDecisionAccept})
		require.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
	})

	t.Run("unrelated faculty cannot respond", func(t *testing.T) {
		store := &mockWorkloadStore{read: pendingAssignment()}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, &mockUserReader{}, nil)

		other := models.Actor{ID: "fac-9", Role: models.RoleFaculty, Department: "physics"}
		_, err := svc.Respond(context.Background(), other, "wl-1", dto.RespondWorkloadRequest{Decision: models.WorkloadDecisionAccept})
		require.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	})

	t.Run("department hod may respond on the assignee's behalf", func(t *testing.T) {
		store := &mockWorkloadStore{read: pendingAssignment()}
		users := &mockUserReader{users: map[string]*models.User{"fac-1": activeFaculty("fac-1", "physics")}}
		svc := newWorkloadServiceForTest(store, &mockLeaveStore{}, users, nil)

		hod := models.Actor{ID: "hod-1", Role: models.RoleHOD, Department: "physics"}
		assignment, err := svc.Respond(context.Background(), hod, "wl-1", dto.RespondWorkloadRequest{Decision: models.WorkloadDecisionReject, RejectionReason: "overloaded"})
		require.NoError(t, err)
		require.Equal(t, models.WorkloadStatusRejected, assignment.Status)
		require.NotNil(t, assignment.RejectionReason)
	})

	t.Run("unknown decision is rejected", func(t *testing.T) {
		svc := newWorkloadServiceForTest(&mockWorkloadStore{}, &mockLeaveStore{}, &mockUserReader{}, nil)
		_, err := svc.Respond(context.Background(), assignee, "wl-1", dto.RespondWorkloadRequest{Decision: "defer"})
		require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})
}

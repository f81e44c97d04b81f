package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facultydesk/leave-api/internal/models"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
)

type mockLeaveStats struct {
	counts       models.LeaveStatusCounts
	approvedDays int
	filter       models.LeaveFilter
}

func (m *mockLeaveStats) StatusCounts(_ context.Context, filter models.LeaveFilter) (*models.LeaveStatusCounts, error) {
	m.filter = filter
	counts := m.counts
	return &counts, nil
}

func (m *mockLeaveStats) SumApprovedDays(_ context.Context, _ models.LeaveFilter) (int, error) {
	return m.approvedDays, nil
}

type mockWorkloadStats struct {
	counts models.WorkloadStatusCounts
	filter models.WorkloadFilter
}

func (m *mockWorkloadStats) StatusCounts(_ context.Context, filter models.WorkloadFilter) (*models.WorkloadStatusCounts, error) {
	m.filter = filter
	counts := m.counts
	return &counts, nil
}

type mockFacultyCounter struct {
	count      int
	department string
	calls      int
}

func (m *mockFacultyCounter) CountActiveFaculty(_ context.Context, department string) (int, error) {
	m.calls++
	m.department = department
	return m.count, nil
}

func TestDashboardServiceCompute(t *testing.T) {
	t.Run("faculty sees own counts and a remaining quota", func(t *testing.T) {
		leaves := &mockLeaveStats{counts: models.LeaveStatusCounts{Total: 4, Pending: 1, Approved: 2, Rejected: 1}, approvedDays: 6}
		workloads := &mockWorkloadStats{counts: models.WorkloadStatusCounts{Total: 2, Pending: 1, Accepted: 1}}
		counter := &mockFacultyCounter{}
		svc := NewDashboardService(leaves, workloads, counter, zap.NewNop(), DashboardServiceConfig{AnnualQuotaDays: 15})

		stats, err := svc.Compute(context.Background(), models.Actor{ID: "fac-1", Role: models.RoleFaculty, Department: "physics"})
		require.NoError(t, err)
		require.Equal(t, "fac-1", leaves.filter.FacultyID)
		require.Equal(t, "fac-1", workloads.filter.AssignedTo)
		require.Equal(t, 6, stats.ApprovedDays)
		require.Equal(t, 9, stats.RemainingDays)
		require.Zero(t, counter.calls)
	})

	t.Run("remaining quota never goes negative", func(t *testing.T) {
		leaves := &mockLeaveStats{approvedDays: 40}
		svc := NewDashboardService(leaves, &mockWorkloadStats{}, &mockFacultyCounter{}, zap.NewNop(), DashboardServiceConfig{AnnualQuotaDays: 15})

		stats, err := svc.Compute(context.Background(), models.Actor{ID: "fac-1", Role: models.RoleFaculty})
		require.NoError(t, err)
		require.Zero(t, stats.RemainingDays)
	})

	t.Run("hod sees department counts and headcount", func(t *testing.T) {
		leaves := &mockLeaveStats{}
		workloads := &mockWorkloadStats{}
		counter := &mockFacultyCounter{count: 12}
		svc := NewDashboardService(leaves, workloads, counter, zap.NewNop(), DashboardServiceConfig{})

		stats, err := svc.Compute(context.Background(), models.Actor{ID: "hod-1", Role: models.RoleHOD, Department: "physics"})
		require.NoError(t, err)
		require.Equal(t, "physics", leaves.filter.Department)
		require.Equal(t, "physics", workloads.filter.Department)
		require.Equal(t, 12, stats.FacultyHeadcount)
		require.Equal(t, "physics", stats.Department)
	})

	t.Run("admin is unscoped", func(t *testing.T) {
		leaves := &mockLeaveStats{}
		workloads := &mockWorkloadStats{}
		svc := NewDashboardService(leaves, workloads, &mockFacultyCounter{}, zap.NewNop(), DashboardServiceConfig{})

		_, err := svc.Compute(context.Background(), models.Actor{ID: "adm-1", Role: models.RoleAdmin})
		require.NoError(t, err)
		require.Empty(t, leaves.filter.FacultyID)
		require.Empty(t, leaves.filter.Department)
		require.Empty(t, workloads.filter.Department)
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		svc := NewDashboardService(&mockLeaveStats{}, &mockWorkloadStats{}, &mockFacultyCounter{}, zap.NewNop(), DashboardServiceConfig{})
		_, err := svc.Compute(context.Background(), models.Actor{ID: "x", Role: "guest"})
		require.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	})
}

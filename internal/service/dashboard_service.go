package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/facultydesk/leave-api/internal/models"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
)

type leaveStatsReader interface {
	StatusCounts(ctx context.Context, filter models.LeaveFilter) (*models.LeaveStatusCounts, error)
	SumApprovedDays(ctx context.Context, filter models.LeaveFilter) (int, error)
}

type workloadStatsReader interface {
	StatusCounts(ctx context.Context, filter models.WorkloadFilter) (*models.WorkloadStatusCounts, error)
}

type facultyCounter interface {
	CountActiveFaculty(ctx context.Context, department string) (int, error)
}

// DashboardServiceConfig tunes derived quota figures.
type DashboardServiceConfig struct {
	AnnualQuotaDays int
}

// DashboardService derives dashboard statistics on demand by reducing over
// the leave and workload collections scoped to the actor's visibility.
// Nothing is cached; every call reflects the store at read time.
type DashboardService struct {
	leaves    leaveStatsReader
	workloads workloadStatsReader
	users     facultyCounter
	logger    *zap.Logger
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs the service with defaults.
func NewDashboardService(leaves leaveStatsReader, workloads workloadStatsReader, users facultyCounter, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AnnualQuotaDays <= 0 {
		cfg.AnnualQuotaDays = 15
	}
	return &DashboardService{
		leaves:    leaves,
		workloads: workloads,
		users:     users,
		logger:    logger,
		cfg:       cfg,
	}
}

// Compute builds the stats visible to the actor: own records for faculty,
// department records for an HOD, everything for admin.
func (s *DashboardService) Compute(ctx context.Context, actor models.Actor) (*models.DashboardStats, error) {
	var (
		leaveFilter    models.LeaveFilter
		workloadFilter models.WorkloadFilter
		withHeadcount  bool
	)
	switch actor.Role {
	case models.RoleAdmin:
		// unscoped
	case models.RoleHOD:
		leaveFilter.Department = actor.Department
		workloadFilter.Department = actor.Department
		withHeadcount = true
	case models.RoleFaculty:
		leaveFilter.FacultyID = actor.ID
		workloadFilter.AssignedTo = actor.ID
	default:
		return nil, appErrors.ErrForbidden
	}

	leaveCounts, err := s.leaves.StatusCounts(ctx, leaveFilter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to aggregate leave counts")
	}
	approvedDays, err := s.leaves.SumApprovedDays(ctx, leaveFilter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to total approved days")
	}
	workloadCounts, err := s.workloads.StatusCounts(ctx, workloadFilter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to aggregate workload counts")
	}

	stats := &models.DashboardStats{
		Leaves:       *leaveCounts,
		Workloads:    *workloadCounts,
		ApprovedDays: approvedDays,
		QuotaDays:    s.cfg.AnnualQuotaDays,
	}
	if actor.Role == models.RoleFaculty {
		remaining := s.cfg.AnnualQuotaDays - approvedDays
		if remaining < 0 {
			remaining = 0
		}
		stats.RemainingDays = remaining
	}
	if withHeadcount {
		headcount, err := s.users.CountActiveFaculty(ctx, actor.Department)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to count faculty")
		}
		stats.FacultyHeadcount = headcount
		stats.Department = actor.Department
	}
	return stats, nil
}

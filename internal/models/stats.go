package models

// LeaveStatusCounts aggregates leave requests by lifecycle state.
type LeaveStatusCounts struct {
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Rejected int `db:"rejected" json:"rejected"`
}

// WorkloadStatusCounts aggregates workload assignments by lifecycle state.
type WorkloadStatusCounts struct {
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Accepted int `db:"accepted" json:"accepted"`
	Rejected int `db:"rejected" json:"rejected"`
}

// DashboardStats is the on-demand aggregation returned to callers, scoped
// to what the requesting actor may see.
type DashboardStats struct {
	Leaves           LeaveStatusCounts    `json:"leaves"`
	Workloads        WorkloadStatusCounts `json:"workloads"`
	ApprovedDays     int                  `json:"approved_days"`
	QuotaDays        int                  `json:"quota_days"`
	RemainingDays    int                  `json:"remaining_days"`
	FacultyHeadcount int                  `json:"faculty_headcount,omitempty"`
	Department       string               `json:"department,omitempty"`
}

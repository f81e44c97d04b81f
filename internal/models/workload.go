package models

import (
	"time"

	"github.com/lib/pq"
)

// WorkloadStatus captures the workload assignment lifecycle. Accepted and
// rejected are terminal; unlike leave approval there is no re-response.
type WorkloadStatus string

const (
	WorkloadStatusPending  WorkloadStatus = "pending"
	WorkloadStatusAccepted WorkloadStatus = "accepted"
	WorkloadStatusRejected WorkloadStatus = "rejected"
)

// WorkloadDecision is the action taken by an assignee (or an HOD on their
// behalf) on a pending assignment.
type WorkloadDecision string

const (
	WorkloadDecisionAccept WorkloadDecision = "accept"
	WorkloadDecisionReject WorkloadDecision = "reject"
)

// WorkloadAssignment covers a leave owner's teaching duties with a peer.
// AssignedTo must differ from the parent leave's owner and share the
// assigner's department.
type WorkloadAssignment struct {
	ID              string         `db:"id" json:"id"`
	LeaveID         string         `db:"leave_id" json:"leave_id"`
	AssignedTo      string         `db:"assigned_to" json:"assigned_to"`
	AssignedBy      string         `db:"assigned_by" json:"assigned_by"`
	Department      string         `db:"department" json:"department"`
	Subjects        pq.StringArray `db:"subjects" json:"subjects"`
	Classes         pq.StringArray `db:"classes" json:"classes"`
	TotalHours      float64        `db:"total_hours" json:"total_hours"`
	Status          WorkloadStatus `db:"status" json:"status"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	AssignedAt      time.Time      `db:"assigned_at" json:"assigned_at"`
	RespondedAt     *time.Time     `db:"responded_at" json:"responded_at,omitempty"`
}

// WorkloadDetail enriches an assignment with participant names for listings.
type WorkloadDetail struct {
	WorkloadAssignment
	AssigneeName string `db:"assignee_name" json:"assignee_name"`
	AssignerName string `db:"assigner_name" json:"assigner_name"`
}

// WorkloadFilter constrains assignment listing queries.
type WorkloadFilter struct {
	LeaveID    string
	AssignedTo string
	AssignedBy string
	Department string
	Status     []WorkloadStatus
	Limit      int
	Offset     int
}

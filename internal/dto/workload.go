package dto

import "github.com/facultydesk/leave-api/internal/models"

// CreateWorkloadRequest is the payload for covering a leave owner's duties.
type CreateWorkloadRequest struct {
	LeaveID    string   `json:"leave_id" validate:"required"`
	AssignedTo string   `json:"assigned_to" validate:"required"`
	Subjects   []string `json:"subjects" validate:"required,min=1,dive,required"`
	Classes    []string `json:"classes" validate:"required,min=1,dive,required"`
	TotalHours float64  `json:"total_hours" validate:"required,gt=0"`
}

// RespondWorkloadRequest records the assignee's (or HOD's) decision.
type RespondWorkloadRequest struct {
	Decision        models.WorkloadDecision `json:"decision" validate:"required,oneof=accept reject"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
}

// WorkloadQuery constrains assignment listings. View selects between
// assignments received by the actor and assignments the actor issued.
type WorkloadQuery struct {
	LeaveID string
	View    string
	Status  []models.WorkloadStatus
	Limit   int
	Offset  int
}

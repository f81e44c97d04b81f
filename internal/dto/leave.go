package dto

import "github.com/facultydesk/leave-api/internal/models"

// CreateLeaveRequest is the payload for submitting a leave request. Dates
// are date-only, inclusive, in ISO 8601 (2006-01-02).
type CreateLeaveRequest struct {
	LeaveType models.LeaveType `json:"leave_type" validate:"required"`
	StartDate string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string           `json:"reason" validate:"required"`
}

// ApproveLeaveRequest carries the optional approval note.
type ApproveLeaveRequest struct {
	Comments string `json:"comments,omitempty"`
}

// RejectLeaveRequest carries the mandatory rejection reason.
type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"required"`
}

// LeaveQuery constrains leave listings.
type LeaveQuery struct {
	Status []models.LeaveStatus
	SortBy string
	Limit  int
	Offset int
}

package models

import "time"

// LeaveType enumerates supported leave categories.
type LeaveType string

const (
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeCasual    LeaveType = "casual"
	LeaveTypeVacation  LeaveType = "vacation"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeOther     LeaveType = "other"
)

// Valid reports whether the leave type is one of the known values.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeSick, LeaveTypeCasual, LeaveTypeVacation,
		LeaveTypeEmergency, LeaveTypePersonal, LeaveTypeOther:
		return true
	}
	return false
}

// LeaveStatus captures the leave request lifecycle. Approved and rejected
// are terminal.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveRequest stores a faculty member's leave application.
type LeaveRequest struct {
	ID              string      `db:"id" json:"id"`
	FacultyID       string      `db:"faculty_id" json:"faculty_id"`
	LeaveType       LeaveType   `db:"leave_type" json:"leave_type"`
	StartDate       time.Time   `db:"start_date" json:"start_date"`
	EndDate         time.Time   `db:"end_date" json:"end_date"`
	TotalDays       int         `db:"total_days" json:"total_days"`
	Reason          string      `db:"reason" json:"reason"`
	Status          LeaveStatus `db:"status" json:"status"`
	ResolvedBy      *string     `db:"resolved_by" json:"resolved_by,omitempty"`
	RejectionReason *string     `db:"rejection_reason" json:"rejection_reason,omitempty"`
	Comments        *string     `db:"comments" json:"comments,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// LeaveDetail enriches a leave request with owner identity fields used by
// department-scoped listings and reports.
type LeaveDetail struct {
	LeaveRequest
	FacultyName       string  `db:"faculty_name" json:"faculty_name"`
	FacultyEmail      string  `db:"faculty_email" json:"faculty_email"`
	FacultyDepartment string  `db:"faculty_department" json:"faculty_department"`
	ResolverName      *string `db:"resolver_name" json:"resolver_name,omitempty"`
}

// LeaveFilter constrains leave listing queries.
type LeaveFilter struct {
	FacultyID  string
	Department string
	Status     []LeaveStatus
	SortBy     string
	Limit      int
	Offset     int
}

package models

import "time"

// UserRole represents the available roles for department-scoped access control.
type UserRole string

const (
	RoleFaculty UserRole = "faculty"
	RoleHOD     UserRole = "hod"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleFaculty, RoleHOD, RoleAdmin:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
// Each user holds exactly one role and belongs to exactly one department;
// at most one active user with role=hod may exist per department.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Department   string    `db:"department" json:"department"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role       UserRole
	Department string
	Active     *bool
	Limit      int
	Offset     int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

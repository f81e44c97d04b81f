// Package policy holds the pure access-control decisions consulted before
// every mutating operation. Decisions are an explicit match over
// (role, resource kind, action); the package never touches storage and has
// no side effects.
package policy

import "github.com/facultydesk/leave-api/internal/models"

// Action identifies an operation an actor wants to perform on a resource.
type Action string

const (
	ActionView    Action = "view"
	ActionEdit    Action = "edit"
	ActionCancel  Action = "cancel"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCreate  Action = "create"
	ActionRespond Action = "respond"
)

// Kind identifies the resource family a decision applies to.
type Kind string

const (
	KindLeave    Kind = "leave"
	KindWorkload Kind = "workload"
)

// Resource is the projection of an entity the decision table needs: who owns
// it, which department it belongs to, and whether it is still pending.
type Resource struct {
	Kind       Kind
	OwnerID    string
	AssigneeID string
	AssignerID string
	Department string
	Pending    bool
}

// LeaveResource builds the decision view of a leave request.
func LeaveResource(ownerID, ownerDepartment string, status models.LeaveStatus) Resource {
	return Resource{
		Kind:       KindLeave,
		OwnerID:    ownerID,
		Department: ownerDepartment,
		Pending:    status == models.LeaveStatusPending,
	}
}

// WorkloadResource builds the decision view of a workload assignment.
func WorkloadResource(assigneeID, assignerID, department string, status models.WorkloadStatus) Resource {
	return Resource{
		Kind:       KindWorkload,
		AssigneeID: assigneeID,
		AssignerID: assignerID,
		Department: department,
		Pending:    status == models.WorkloadStatusPending,
	}
}

// Allowed answers whether the actor may perform the action on the resource.
func Allowed(actor models.Actor, action Action, res Resource) bool {
	if actor.ID == "" {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}

	switch res.Kind {
	case KindLeave:
		return allowedOnLeave(actor, action, res)
	case KindWorkload:
		return allowedOnWorkload(actor, action, res)
	}
	return false
}

func allowedOnLeave(actor models.Actor, action Action, res Resource) bool {
	switch actor.Role {
	case models.RoleFaculty:
		if res.OwnerID != actor.ID {
			return false
		}
		switch action {
		case ActionView:
			return true
		case ActionEdit, ActionCancel:
			return res.Pending
		}
		return false
	case models.RoleHOD:
		switch action {
		case ActionView, ActionApprove, ActionReject:
			return res.Department == actor.Department
		}
		return false
	}
	return false
}

func allowedOnWorkload(actor models.Actor, action Action, res Resource) bool {
	switch actor.Role {
	case models.RoleFaculty:
		switch action {
		case ActionCreate:
			return res.Department == actor.Department
		case ActionRespond:
			return res.AssigneeID == actor.ID
		case ActionView:
			return res.AssigneeID == actor.ID || res.AssignerID == actor.ID
		}
		return false
	case models.RoleHOD:
		switch action {
		case ActionCreate, ActionView, ActionRespond:
			return res.Department == actor.Department
		}
		return false
	}
	return false
}

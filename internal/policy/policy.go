// Package policy implements the access-control core: given an authenticated
// principal, an action, and a resource snapshot, it produces an allow/deny
// decision and, for listings, a scope filter. Decisions are plain return
// values; the package performs no I/O and holds no state.
package policy

import "taskhub/internal/domain"

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionTaskList         Action = "task.list"
	ActionTaskRead         Action = "task.read"
	ActionTaskCreate       Action = "task.create"
	ActionTaskUpdate       Action = "task.update"
	ActionTaskUpdateStatus Action = "task.update_status"
	ActionTaskDelete       Action = "task.delete"
	ActionUserList         Action = "user.list"
	ActionUserRead         Action = "user.read"
	ActionUserCreate       Action = "user.create"
	ActionUserUpdate       Action = "user.update"
	ActionUserDelete       Action = "user.delete"
)

// Effect is the outcome class of a decision.
type Effect int

const (
	EffectDeny Effect = iota
	EffectAllow
	EffectAllowScoped
)

// TaskScope restricts a task listing to a single assignee.
type TaskScope struct {
	AssigneeID int64
}

// Decision is the result of an authorization check. Denial is a normal
// return value, not an error; callers turn it into a domain error via Err.
type Decision struct {
	Effect Effect
	Scope  *TaskScope // set only when Effect is EffectAllowScoped
	Reason string     // set only when Effect is EffectDeny

	selfDeletion bool
}

// Allow returns an unrestricted allow decision.
func Allow() Decision {
	return Decision{Effect: EffectAllow}
}

// AllowWithScope returns an allow decision carrying a listing scope.
func AllowWithScope(s TaskScope) Decision {
	return Decision{Effect: EffectAllowScoped, Scope: &s}
}

// Deny returns a deny decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Effect: EffectDeny, Reason: reason}
}

// DenySelfDeletion returns a deny decision that maps to the self-deletion
// error rather than a generic access denial.
func DenySelfDeletion(reason string) Decision {
	return Decision{Effect: EffectDeny, Reason: reason, selfDeletion: true}
}

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool { return d.Effect != EffectDeny }

// Err converts a deny decision into the matching domain error. It returns
// nil for allow decisions, so `if err := dec.Err(); err != nil` is the
// idiomatic caller check.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	if d.selfDeletion {
		return domain.ErrSelfDeletion("%s", d.Reason)
	}
	return domain.ErrAccessDenied("%s", d.Reason)
}

// Resource describes the target of an action. Only the fields an action
// needs are consulted: Task for task reads/mutations, UserID for user
// actions, Fields for updates.
type Resource struct {
	Task   *domain.Task
	UserID int64
	Fields []string
}

// TaskResource wraps a task snapshot.
func TaskResource(t *domain.Task) Resource { return Resource{Task: t} }

// UserResource wraps a target user id.
func UserResource(id int64) Resource { return Resource{UserID: id} }

// Authorize decides whether principal p may perform action on res.
// The rule set is the final, most restrictive revision: task create/delete
// and user listing are admin-only; non-admins see and mutate only tasks
// assigned to them, and only the status field at that.
func Authorize(p domain.ContextPrincipal, action Action, res Resource) Decision {
	switch action {
	case ActionTaskList:
		if p.IsAdmin {
			return Allow()
		}
		return AllowWithScope(TaskScope{AssigneeID: p.ID})

	case ActionTaskRead:
		if p.IsAdmin {
			return Allow()
		}
		if res.Task != nil && res.Task.AssigneeID == p.ID {
			return Allow()
		}
		return Deny("task is not assigned to you")

	case ActionTaskCreate:
		if p.IsAdmin {
			return Allow()
		}
		return Deny("only admins may create tasks")

	case ActionTaskUpdate:
		if p.IsAdmin {
			return Allow()
		}
		if res.Task == nil || res.Task.AssigneeID != p.ID {
			return Deny("task is not assigned to you")
		}
		if err := GuardTaskUpdate(p, res.Fields); err != nil {
			return Deny(err.Error())
		}
		return Allow()

	case ActionTaskUpdateStatus:
		if p.IsAdmin {
			return Allow()
		}
		if res.Task != nil && res.Task.AssigneeID == p.ID {
			return Allow()
		}
		return Deny("task is not assigned to you")

	case ActionTaskDelete:
		if p.IsAdmin {
			return Allow()
		}
		return Deny("only admins may delete tasks")

	case ActionUserList:
		if p.IsAdmin {
			return Allow()
		}
		return Deny("only admins may list users")

	case ActionUserCreate:
		if p.IsAdmin {
			return Allow()
		}
		return Deny("only admins may create accounts")

	case ActionUserRead:
		if p.IsAdmin || res.UserID == p.ID {
			return Allow()
		}
		return Deny("you may only view your own account")

	case ActionUserUpdate:
		if p.IsAdmin {
			return Allow()
		}
		if res.UserID != p.ID {
			return Deny("you may only update your own account")
		}
		if err := GuardUserUpdate(p, res.Fields); err != nil {
			return Deny(err.Error())
		}
		return Allow()

	case ActionUserDelete:
		if !p.IsAdmin {
			return Deny("only admins may delete users")
		}
		// Depends only on the request and principal, so it is checked
		// before any lookup of the target.
		if res.UserID == p.ID {
			return DenySelfDeletion("admins cannot delete their own account")
		}
		return Allow()

	default:
		return Deny("unknown action " + string(action))
	}
}

// GuardTaskUpdate restricts which task fields a principal may submit.
// Non-admins may submit only status; any other present field rejects the
// whole update rather than filtering field by field.
func GuardTaskUpdate(p domain.ContextPrincipal, fields []string) error {
	if p.IsAdmin {
		return nil
	}
	for _, f := range fields {
		if f != "status" {
			return domain.ErrAccessDenied("field %q is not updatable by the assignee, only status is", f)
		}
	}
	return nil
}

// GuardUserUpdate restricts which user fields a principal may submit.
// Non-admins may submit anything except is_admin; its presence is rejected
// regardless of the value it carries.
func GuardUserUpdate(p domain.ContextPrincipal, fields []string) error {
	if p.IsAdmin {
		return nil
	}
	for _, f := range fields {
		if f == "is_admin" {
			return domain.ErrAccessDenied("only admins may change the is_admin field")
		}
	}
	return nil
}

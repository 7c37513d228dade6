// Package access holds the authorization rules for tasks. Every decision
// takes an explicit AuthContext built from the session; nothing here
// reads ambient state.
package access

import (
	"github.com/beratcankara/inoflow/internal/models"

	"gorm.io/gorm"
)

// AuthContext identifies the caller of an operation.
type AuthContext struct {
	UserID string
	Name   string
	Email  string
	Role   models.UserRole
}

// RoleLookup resolves the role of the user a task is assigned to. It is
// only consulted for the assigner third-party view path, so callers can
// pass nil when that path cannot apply.
type RoleLookup func(userID string) (models.UserRole, error)

// CanView reports whether the caller may read the task.
//
// Admins see everything. Workers see only tasks assigned to them.
// Assigners see tasks they are assigned to or created, plus any task
// whose assignee is a worker (one extra lookup).
func CanView(ctx AuthContext, task *models.Task, lookup RoleLookup) bool {
	switch ctx.Role {
	case models.RoleAdmin:
		return true
	case models.RoleWorker:
		return task.AssignedTo == ctx.UserID
	case models.RoleAssigner:
		if task.AssignedTo == ctx.UserID || task.CreatedBy == ctx.UserID {
			return true
		}
		if lookup == nil {
			return false
		}
		role, err := lookup(task.AssignedTo)
		return err == nil && role == models.RoleWorker
	}
	return false
}

// CanEdit reports whether the caller may mutate the task's status,
// subtasks, notes and attachments. The assigner third-party view path
// grants read only, never edit.
func CanEdit(ctx AuthContext, task *models.Task) bool {
	switch ctx.Role {
	case models.RoleAdmin:
		return true
	case models.RoleWorker:
		return task.AssignedTo == ctx.UserID
	case models.RoleAssigner:
		return task.AssignedTo == ctx.UserID || task.CreatedBy == ctx.UserID
	}
	return false
}

// CanDelete reports whether the caller may delete the task. Delete
// authority is keyed on creation, not assignment: a worker can edit a
// task assigned to them yet not delete it.
func CanDelete(ctx AuthContext, task *models.Task) bool {
	if ctx.Role == models.RoleAdmin {
		return true
	}
	return task.CreatedBy == ctx.UserID
}

// ScopeList narrows a task list query to what the caller may see.
// hasAssigneeFilter is true when the caller supplied an explicit
// assigned_to filter; dashboard lifts the assigner narrowing entirely.
func ScopeList(q *gorm.DB, ctx AuthContext, dashboard, hasAssigneeFilter bool) *gorm.DB {
	switch ctx.Role {
	case models.RoleWorker:
		if !hasAssigneeFilter {
			q = q.Where("assigned_to = ?", ctx.UserID)
		}
	case models.RoleAssigner:
		if !dashboard && !hasAssigneeFilter {
			q = q.Where("assigned_to = ? OR created_by = ?", ctx.UserID, ctx.UserID)
		}
	}
	return q
}

// Package auth holds the client-local role model, the single authorization
// decision function and the persisted session and theme state.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden is returned when a role may not perform an action.
var ErrForbidden = errors.New("forbidden")

// Role is a coarse permission level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// Roles lists all roles from least to most privileged.
var Roles = []Role{RoleViewer, RoleManager, RoleAdmin}

// ParseRole normalizes s to a known role, falling back to RoleViewer.
func ParseRole(s string) Role {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	}
	return RoleViewer
}

// Label is the human-facing role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleManager:
		return "Manager"
	default:
		return "Employee"
	}
}

// Action is something a role may be allowed to do.
type Action string

const (
	ActionView             Action = "view"
	ActionManageProjects   Action = "manage_projects"
	ActionManageTeams      Action = "manage_teams"
	ActionManageMilestones Action = "manage_milestones"
)

// CanPerform reports whether role may perform action. Unknown actions are denied.
func CanPerform(role Role, action Action) bool {
	switch action {
	case ActionView:
		return true
	case ActionManageProjects, ActionManageTeams, ActionManageMilestones:
		return role == RoleManager || role == RoleAdmin
	}
	return false
}

// Authorize returns an ErrForbidden-wrapping error when CanPerform denies action.
func Authorize(role Role, action Action) error {
	if CanPerform(role, action) {
		return nil
	}
	return fmt.Errorf("%w: %s cannot %s (requires manager or admin)", ErrForbidden, role.Label(), strings.ReplaceAll(string(action), "_", " "))
}

package services

import (
	"github.com/sagile-io/sagile/backend/internal/models"
)

// Actor identifies the authenticated user performing an operation. Handlers
// build it from the JWT claims placed in the request context.
type Actor struct {
	ID       uint
	Username string
	Role     string
}

// IsManager reports whether the actor's global role bypasses project
// membership checks.
func (a Actor) IsManager() bool {
	return models.IsManagerRole(a.Role)
}

// CanAccessProject grants managers and active project members.
func CanAccessProject(a Actor, p *models.Project) bool {
	return a.IsManager() || p.IsMember(a.ID)
}

// CanModifyProject grants managers and the project creator. Covers update
// and delete.
func CanModifyProject(a Actor, p *models.Project) bool {
	return a.IsManager() || p.CreatedBy == a.ID
}

// CanManageMembers gates member role changes and removals. Managers only.
func CanManageMembers(a Actor) bool {
	return a.IsManager()
}

// CanAddMember grants managers and existing active members.
func CanAddMember(a Actor, p *models.Project) bool {
	return a.IsManager() || p.IsMember(a.ID)
}

// CanUpdateRepository follows project access.
func CanUpdateRepository(a Actor, p *models.Project) bool {
	return CanAccessProject(a, p)
}

// CanDeleteRepository grants managers and the repository creator.
func CanDeleteRepository(a Actor, r *models.Repository) bool {
	return a.IsManager() || r.CreatedBy == a.ID
}

// CanUpdateTask grants the assignee, the reporter, and managers.
func CanUpdateTask(a Actor, t *models.Task) bool {
	if a.IsManager() || t.ReporterID == a.ID {
		return true
	}
	return t.AssigneeID != nil && *t.AssigneeID == a.ID
}

// CanUpdateProgress grants the assignee and managers. Reporters do not get
// progress control unless they are also assigned.
func CanUpdateProgress(a Actor, t *models.Task) bool {
	if a.IsManager() {
		return true
	}
	return t.AssigneeID != nil && *t.AssigneeID == a.ID
}

// Package authz holds the pure access-control decisions for projects, tasks
// and project access rows. Every function works on a principal plus that
// principal's already-loaded membership set; nothing here touches the
// database, so the rules are trivially unit-testable and cannot diverge
// between handlers.
//
// The model is two-tier: any member (OWNER or MEMBER) has full read/write on
// a project and its tasks, while granting, changing or revoking membership is
// reserved for OWNERs of the row's project. Read-only operations on access
// rows need authentication only; list scoping already limits what is visible.
package authz

import (
	"github.com/taskhub-dev/taskhub/internal/models"
)

// Principal is the identity a request acts as. The zero value is anonymous.
type Principal struct {
	UserID        uint
	Authenticated bool
}

// Memberships maps project id to the principal's level in that project.
// It must be loaded fresh per request; membership can change between calls.
type Memberships map[uint]models.MembershipLevel

// Level reports the principal's level in a project, if any.
func (m Memberships) Level(projectID uint) (models.MembershipLevel, bool) {
	level, ok := m[projectID]
	return level, ok
}

// ProjectIDs returns the set of project ids the principal belongs to.
func (m Memberships) ProjectIDs() []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// DecideProject authorizes any operation on a project. Membership at either
// level is sufficient; project edits are not OWNER-gated.
func DecideProject(p Principal, m Memberships, projectID uint) Decision {
	if !p.Authenticated {
		return DenyUnauthenticated
	}
	if _, ok := m.Level(projectID); ok {
		return Allow
	}
	return DenyForbidden
}

// DecideTask authorizes any operation on a task. Tasks inherit the parent
// project's membership rule; task ownership grants nothing extra.
func DecideTask(p Principal, m Memberships, task models.Task) Decision {
	return DecideProject(p, m, task.ProjectID)
}

// DecideAccess authorizes an operation on a project access row. Safe
// (read-only) operations pass for any authenticated principal. Mutations
// require an OWNER row on the target's project, never the request body's.
func DecideAccess(p Principal, safe bool, m Memberships, target models.ProjectAccess) Decision {
	if !p.Authenticated {
		return DenyUnauthenticated
	}
	if safe {
		return Allow
	}
	if level, ok := m.Level(target.ProjectID); ok && level == models.LevelOwner {
		return Allow
	}
	return DenyForbidden
}

// DecideGrant authorizes creating a new access row on a project. Same rule
// as mutating an existing row: the caller must hold OWNER on the project.
func DecideGrant(p Principal, m Memberships, projectID uint) Decision {
	return DecideAccess(p, false, m, models.ProjectAccess{ProjectID: projectID})
}

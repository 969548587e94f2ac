package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskhub-dev/taskhub/internal/models"
)

var (
	anonymous = Principal{}
	alice     = Principal{UserID: 1, Authenticated: true}
)

func TestDecideProject(t *testing.T) {
	memberships := Memberships{
		10: models.LevelOwner,
		20: models.LevelMember,
	}

	tests := []struct {
		name      string
		principal Principal
		projectID uint
		want      Decision
	}{
		{"anonymous denied before lookup", anonymous, 10, DenyUnauthenticated},
		{"owner allowed", alice, 10, Allow},
		{"plain member allowed", alice, 20, Allow},
		{"non-member forbidden", alice, 30, DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideProject(tt.principal, memberships, tt.projectID))
		})
	}
}

func TestDecideProjectNoMemberships(t *testing.T) {
	assert.Equal(t, DenyForbidden, DecideProject(alice, Memberships{}, 10))
	assert.Equal(t, DenyForbidden, DecideProject(alice, nil, 10))
}

func TestDecideTaskInheritsProjectRule(t *testing.T) {
	memberships := Memberships{10: models.LevelMember}

	inScope := models.Task{ProjectID: 10}
	outOfScope := models.Task{ProjectID: 99}

	assert.Equal(t, Allow, DecideTask(alice, memberships, inScope))
	assert.Equal(t, DenyForbidden, DecideTask(alice, memberships, outOfScope))
	assert.Equal(t, DenyUnauthenticated, DecideTask(anonymous, memberships, inScope))
}

func TestDecideTaskOwnershipGrantsNothing(t *testing.T) {
	// Owning a task in a project the principal no longer belongs to must
	// not keep the task reachable.
	ownerID := alice.UserID
	task := models.Task{ProjectID: 10, OwnerID: &ownerID}

	assert.Equal(t, DenyForbidden, DecideTask(alice, Memberships{}, task))
}

func TestDecideAccess(t *testing.T) {
	target := models.ProjectAccess{ProjectID: 10}

	tests := []struct {
		name        string
		principal   Principal
		safe        bool
		memberships Memberships
		want        Decision
	}{
		{"anonymous read denied", anonymous, true, nil, DenyUnauthenticated},
		{"anonymous write denied", anonymous, false, nil, DenyUnauthenticated},
		{"authenticated read allowed without membership", alice, true, Memberships{}, Allow},
		{"member read allowed", alice, true, Memberships{10: models.LevelMember}, Allow},
		{"member write forbidden", alice, false, Memberships{10: models.LevelMember}, DenyForbidden},
		{"owner write allowed", alice, false, Memberships{10: models.LevelOwner}, Allow},
		{"owner of another project forbidden", alice, false, Memberships{20: models.LevelOwner}, DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideAccess(tt.principal, tt.safe, tt.memberships, target))
		})
	}
}

func TestDecideGrant(t *testing.T) {
	memberships := Memberships{
		10: models.LevelOwner,
		20: models.LevelMember,
	}

	assert.Equal(t, Allow, DecideGrant(alice, memberships, 10))
	assert.Equal(t, DenyForbidden, DecideGrant(alice, memberships, 20))
	assert.Equal(t, DenyForbidden, DecideGrant(alice, memberships, 30))
	assert.Equal(t, DenyUnauthenticated, DecideGrant(anonymous, memberships, 10))
}

func TestMembershipsLevel(t *testing.T) {
	memberships := Memberships{10: models.LevelOwner}

	level, ok := memberships.Level(10)
	assert.True(t, ok)
	assert.Equal(t, models.LevelOwner, level)

	_, ok = memberships.Level(11)
	assert.False(t, ok)
}

func TestMembershipsProjectIDs(t *testing.T) {
	memberships := Memberships{10: models.LevelOwner, 20: models.LevelMember}

	assert.ElementsMatch(t, []uint{10, 20}, memberships.ProjectIDs())
	assert.Empty(t, Memberships{}.ProjectIDs())
}

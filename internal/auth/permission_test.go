package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"maintenance-tracker/internal/model"
)

func TestIsHigherRole(t *testing.T) {
	ordered := []model.Role{
		model.RoleCustomer,
		model.RoleCustomerPersonnel,
		model.RoleEngineer,
		model.RoleShopTeamLeader,
		model.RoleTeamLeader,
		model.RoleDirector,
	}

	for i, lower := range ordered {
		for j, higher := range ordered {
			got := IsHigherRole(higher, lower)
			assert.Equal(t, j > i, got, "IsHigherRole(%s, %s)", higher, lower)
		}
	}
}

func TestIsHigherRoleNeverReflexive(t *testing.T) {
	for role := range roleRank {
		assert.False(t, IsHigherRole(role, role), "role %s outranks itself", role)
	}
}

func TestIsHigherRoleUnknownRanksLowest(t *testing.T) {
	unknown := model.Role("intern")
	assert.False(t, IsHigherRole(unknown, model.RoleCustomer))
	assert.True(t, IsHigherRole(model.RoleCustomer, unknown))
	assert.False(t, IsHigherRole(unknown, unknown))
}

func TestPermissionsForIsTotal(t *testing.T) {
	perms := DefaultRolePermissions()

	// Unknown roles get the empty set, never nil access or a panic.
	set := perms.PermissionsFor(model.Role("intern"))
	assert.NotNil(t, set)
	assert.False(t, set.Has(PermViewOwnTasks))
}

func TestDefaultRolePermissionsTable(t *testing.T) {
	perms := DefaultRolePermissions()

	assert.True(t, perms.PermissionsFor(model.RoleDirector).Has(PermSystemSettings))
	assert.True(t, perms.PermissionsFor(model.RoleDirector).Has(PermApproveAmendment))
	assert.True(t, perms.PermissionsFor(model.RoleTeamLeader).Has(PermApproveAmendment))
	assert.False(t, perms.PermissionsFor(model.RoleTeamLeader).Has(PermSystemSettings))

	assert.True(t, perms.PermissionsFor(model.RoleShopTeamLeader).Has(PermViewShopTasks))
	assert.False(t, perms.PermissionsFor(model.RoleShopTeamLeader).Has(PermViewAllTasks))
	assert.False(t, perms.PermissionsFor(model.RoleShopTeamLeader).Has(PermDeleteTask))

	assert.True(t, perms.PermissionsFor(model.RoleEngineer).Has(PermViewOwnTasks))
	assert.False(t, perms.PermissionsFor(model.RoleEngineer).Has(PermCreateTask))

	assert.True(t, perms.PermissionsFor(model.RoleCustomer).Has(PermCreateTask))
	assert.False(t, perms.PermissionsFor(model.RoleCustomer).Has(PermUpdateTaskStatus))
}

func TestPermissionSetList(t *testing.T) {
	set := setOf(PermViewReports, PermCreateTask, PermDeleteTask)
	list := set.List()

	assert.Equal(t, []Permission{PermCreateTask, PermDeleteTask, PermViewReports}, list)
}

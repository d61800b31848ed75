package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
)

// fakeUserFinder serves guard lookups from a map.
type fakeUserFinder map[uint]*model.User

func (f fakeUserFinder) FindByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := f[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func uintPtr(v uint) *uint { return &v }

func activeUser(id uint, role model.Role) *model.User {
	return &model.User{
		ID:           id,
		Role:         role,
		Status:       model.UserStatusActive,
		RecordStatus: model.RecordStatusActive,
	}
}

func TestHasPermissionFailsClosed(t *testing.T) {
	suspended := activeUser(2, model.RoleDirector)
	suspended.Status = model.UserStatusSuspended

	guard := NewGuard(fakeUserFinder{
		1: activeUser(1, model.RoleDirector),
		2: suspended,
	}, DefaultRolePermissions())
	ctx := context.Background()

	assert.True(t, guard.HasPermission(ctx, 1, PermSystemSettings))
	// A suspended account holds no permissions regardless of role.
	assert.False(t, guard.HasPermission(ctx, 2, PermSystemSettings))
	// A missing account is a deny, not an error.
	assert.False(t, guard.HasPermission(ctx, 99, PermViewOwnTasks))
}

func TestCanAccessTask(t *testing.T) {
	engineer := activeUser(1, model.RoleEngineer)
	otherEngineer := activeUser(2, model.RoleEngineer)
	teamLeader := activeUser(3, model.RoleTeamLeader)
	shopLeader := activeUser(4, model.RoleShopTeamLeader)
	shopLeader.ShopID = uintPtr(7)
	shopEngineer := activeUser(5, model.RoleEngineer)
	shopEngineer.ShopID = uintPtr(7)

	customer := activeUser(6, model.RoleCustomer)
	otherCustomer := activeUser(7, model.RoleCustomer)

	guard := NewGuard(fakeUserFinder{
		1: engineer, 2: otherEngineer, 3: teamLeader, 4: shopLeader, 5: shopEngineer,
		6: customer, 7: otherCustomer,
	}, DefaultRolePermissions())
	ctx := context.Background()

	ownTask := &model.Task{ID: 10, CreatedBy: 1}
	shopTask := &model.Task{ID: 11, CreatedBy: 5}
	customerTask := &model.Task{ID: 12, CreatedBy: 6}

	assert.True(t, guard.CanAccessTask(ctx, 1, ownTask), "creator sees own task")
	assert.False(t, guard.CanAccessTask(ctx, 2, ownTask), "unrelated engineer denied")
	assert.True(t, guard.CanAccessTask(ctx, 3, ownTask), "team leader sees everything")
	assert.True(t, guard.CanAccessTask(ctx, 4, shopTask), "shop leader sees shop member's task")
	assert.False(t, guard.CanAccessTask(ctx, 4, ownTask), "shop leader denied outside shop")
	assert.True(t, guard.CanAccessTask(ctx, 6, customerTask), "lowest-role creator still sees own task")
	assert.False(t, guard.CanAccessTask(ctx, 7, customerTask), "unrelated customer denied")
	assert.False(t, guard.CanAccessTask(ctx, 1, nil))
}

func TestCanManageUser(t *testing.T) {
	director := activeUser(1, model.RoleDirector)
	teamLeader := activeUser(2, model.RoleTeamLeader)
	engineer := activeUser(3, model.RoleEngineer)
	shopLeader := activeUser(4, model.RoleShopTeamLeader)
	shopLeader.ShopID = uintPtr(7)
	shopEngineer := activeUser(5, model.RoleEngineer)
	shopEngineer.ShopID = uintPtr(7)

	guard := NewGuard(fakeUserFinder{
		1: director, 2: teamLeader, 3: engineer, 4: shopLeader, 5: shopEngineer,
	}, DefaultRolePermissions())
	ctx := context.Background()

	assert.True(t, guard.CanManageUser(ctx, 1, 2), "director manages team leader")
	assert.True(t, guard.CanManageUser(ctx, 2, 3), "team leader manages lower role")
	assert.False(t, guard.CanManageUser(ctx, 2, 1), "team leader cannot manage director")
	assert.False(t, guard.CanManageUser(ctx, 3, 5), "engineer manages nobody")
	assert.False(t, guard.CanManageUser(ctx, 1, 1), "self-management always denied")
	assert.True(t, guard.CanManageUser(ctx, 4, 5), "shop leader manages own-shop lower role")
	assert.False(t, guard.CanManageUser(ctx, 4, 3), "shop leader denied outside shop")
}

func TestCanViewPerformance(t *testing.T) {
	director := activeUser(1, model.RoleDirector)
	engineer := activeUser(2, model.RoleEngineer)
	customer := activeUser(3, model.RoleCustomer)

	guard := NewGuard(fakeUserFinder{
		1: director, 2: engineer, 3: customer,
	}, DefaultRolePermissions())
	ctx := context.Background()

	assert.True(t, guard.CanViewPerformance(ctx, 1, uintPtr(2)))
	assert.True(t, guard.CanViewPerformance(ctx, 2, uintPtr(2)), "engineer views self")
	assert.False(t, guard.CanViewPerformance(ctx, 2, uintPtr(1)), "engineer denied others")
	assert.False(t, guard.CanViewPerformance(ctx, 3, nil), "customer denied")
}

func TestIsSupervisorOf(t *testing.T) {
	supervisor := activeUser(1, model.RoleTeamLeader)
	subordinate := activeUser(2, model.RoleEngineer)
	subordinate.SupervisorID = uintPtr(1)

	guard := NewGuard(fakeUserFinder{1: supervisor, 2: subordinate}, DefaultRolePermissions())
	ctx := context.Background()

	assert.True(t, guard.IsSupervisorOf(ctx, 1, 2))
	assert.False(t, guard.IsSupervisorOf(ctx, 2, 1))
	assert.False(t, guard.IsSupervisorOf(ctx, 1, 99))
}

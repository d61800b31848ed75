package auth

import (
	"context"

	"maintenance-tracker/internal/model"
)

// UserFinder is the slice of the user store the guard needs.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Guard answers allow/deny questions for one acting user and one action.
// Every predicate fails closed: a missing or inactive actor is a deny,
// never an error.
type Guard struct {
	users UserFinder
	perms RolePermissions
}

func NewGuard(users UserFinder, perms RolePermissions) *Guard {
	return &Guard{users: users, perms: perms}
}

func (g *Guard) lookup(ctx context.Context, userID uint) *model.User {
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}

// HasPermission reports whether the user is active and their role grants p.
func (g *Guard) HasPermission(ctx context.Context, userID uint, p Permission) bool {
	user := g.lookup(ctx, userID)
	if !user.Active() {
		return false
	}
	return g.perms.PermissionsFor(user.Role).Has(p)
}

// Permissions returns the acting user's capability set; empty for a
// missing or inactive user.
func (g *Guard) Permissions(ctx context.Context, userID uint) PermissionSet {
	user := g.lookup(ctx, userID)
	if !user.Active() {
		return PermissionSet{}
	}
	return g.perms.PermissionsFor(user.Role)
}

// CanAccessTask reports whether the actor may see the task: Directors and
// Team Leaders always, Shop Team Leaders when the task creator belongs to
// their shop, and the creator themselves regardless of role.
func (g *Guard) CanAccessTask(ctx context.Context, actorID uint, task *model.Task) bool {
	if task == nil {
		return false
	}
	actor := g.lookup(ctx, actorID)
	if !actor.Active() {
		return false
	}

	switch actor.Role {
	case model.RoleDirector, model.RoleTeamLeader:
		return true
	case model.RoleShopTeamLeader:
		if actor.ShopID != nil {
			creator := g.lookup(ctx, task.CreatedBy)
			if creator != nil && creator.ShopID != nil && *creator.ShopID == *actor.ShopID {
				return true
			}
		}
	}
	return task.CreatedBy == actor.ID
}

// CanManageUser reports whether the actor may manage the target account.
// Self-management is never allowed through this path.
func (g *Guard) CanManageUser(ctx context.Context, actorID, targetID uint) bool {
	if actorID == targetID {
		return false
	}
	actor := g.lookup(ctx, actorID)
	target := g.lookup(ctx, targetID)
	if !actor.Active() || target == nil {
		return false
	}

	switch actor.Role {
	case model.RoleDirector:
		return true
	case model.RoleTeamLeader:
		return IsHigherRole(actor.Role, target.Role)
	case model.RoleShopTeamLeader:
		return actor.ShopID != nil && target.ShopID != nil &&
			*actor.ShopID == *target.ShopID &&
			IsHigherRole(actor.Role, target.Role)
	}
	return false
}

// CanViewPerformance reports whether the actor may view performance data
// for targetUserID. A nil target means "the whole board". Engineers see
// only themselves.
func (g *Guard) CanViewPerformance(ctx context.Context, actorID uint, targetUserID *uint) bool {
	actor := g.lookup(ctx, actorID)
	if !actor.Active() {
		return false
	}

	switch actor.Role {
	case model.RoleDirector, model.RoleTeamLeader, model.RoleShopTeamLeader:
		return true
	case model.RoleEngineer:
		return targetUserID == nil || *targetUserID == actor.ID
	}
	return false
}

// CanAccessShop reports whether the actor may act within the given shop.
func (g *Guard) CanAccessShop(ctx context.Context, actorID, shopID uint) bool {
	actor := g.lookup(ctx, actorID)
	if !actor.Active() {
		return false
	}

	switch actor.Role {
	case model.RoleDirector, model.RoleTeamLeader:
		return true
	case model.RoleShopTeamLeader:
		return actor.ShopID != nil && *actor.ShopID == shopID
	}
	return false
}

// IsSupervisorOf reports whether supervisorID is the direct supervisor of
// subordinateID.
func (g *Guard) IsSupervisorOf(ctx context.Context, supervisorID, subordinateID uint) bool {
	subordinate := g.lookup(ctx, subordinateID)
	return subordinate != nil && subordinate.SupervisorID != nil &&
		*subordinate.SupervisorID == supervisorID
}

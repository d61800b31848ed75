package auth

import (
	"sort"

	"maintenance-tracker/internal/model"
)

// Permission is a named capability. Keeping these as a closed set of typed
// constants means an unknown permission is a compile error, not a silent
// deny at runtime.
type Permission string

const (
	// Task management.
	PermCreateTask       Permission = "create_task"
	PermViewAllTasks     Permission = "view_all_tasks"
	PermViewOwnTasks     Permission = "view_own_tasks"
	PermViewShopTasks    Permission = "view_shop_tasks"
	PermUpdateTaskStatus Permission = "update_task_status"
	PermDeleteTask       Permission = "delete_task"
	PermAssignTask       Permission = "assign_task"
	PermCompleteTask     Permission = "complete_task"
	PermRequestAmendment Permission = "request_amendment"
	PermApproveAmendment Permission = "approve_amendment"

	// User management.
	PermCreateUser   Permission = "create_user"
	PermViewAllUsers Permission = "view_all_users"
	PermUpdateUser   Permission = "update_user"
	PermDeleteUser   Permission = "delete_user"
	PermManageRoles  Permission = "manage_roles"

	// System management.
	PermManageCategories Permission = "manage_categories"
	PermManagePriorities Permission = "manage_priorities"
	PermViewReports      Permission = "view_reports"
	PermExportData       Permission = "export_data"
	PermSystemSettings   Permission = "system_settings"

	// Performance visibility tiers.
	PermViewPerformance     Permission = "view_performance"
	PermViewTeamPerformance Permission = "view_team_performance"
	PermViewAllPerformance  Permission = "view_all_performance"

	// Shop management.
	PermManageShopUsers Permission = "manage_shop_users"
)

// PermissionSet is the capability set granted to one role.
type PermissionSet map[Permission]struct{}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// List returns the set's members in stable order.
func (s PermissionSet) List() []Permission {
	perms := make([]Permission, 0, len(s))
	for p := range s {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

func setOf(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// RolePermissions is the static role → capability mapping. It is built once
// at process start and injected into the Guard; nothing mutates it afterwards.
type RolePermissions map[model.Role]PermissionSet

// DefaultRolePermissions returns the fixed permission table.
func DefaultRolePermissions() RolePermissions {
	return RolePermissions{
		model.RoleDirector: setOf(
			PermCreateTask, PermViewAllTasks, PermUpdateTaskStatus,
			PermDeleteTask, PermAssignTask, PermCompleteTask,
			PermRequestAmendment, PermApproveAmendment,
			PermCreateUser, PermViewAllUsers, PermUpdateUser,
			PermDeleteUser, PermManageRoles,
			PermManageCategories, PermManagePriorities,
			PermViewReports, PermExportData, PermSystemSettings,
			PermViewAllPerformance,
		),
		model.RoleTeamLeader: setOf(
			PermCreateTask, PermViewAllTasks, PermUpdateTaskStatus,
			PermDeleteTask, PermAssignTask, PermCompleteTask,
			PermRequestAmendment, PermApproveAmendment,
			PermCreateUser, PermViewAllUsers, PermUpdateUser,
			PermDeleteUser, PermManageRoles,
			PermManageCategories, PermManagePriorities,
			PermViewReports, PermExportData,
			PermViewTeamPerformance,
		),
		model.RoleShopTeamLeader: setOf(
			PermCreateTask, PermViewShopTasks, PermUpdateTaskStatus,
			PermAssignTask, PermCompleteTask, PermRequestAmendment,
			PermManageShopUsers, PermViewTeamPerformance,
		),
		model.RoleEngineer: setOf(
			PermViewOwnTasks, PermUpdateTaskStatus,
			PermRequestAmendment, PermViewPerformance,
		),
		model.RoleCustomerPersonnel: setOf(
			PermCreateTask, PermViewOwnTasks,
			PermUpdateTaskStatus, PermRequestAmendment,
		),
		model.RoleCustomer: setOf(
			PermCreateTask, PermViewOwnTasks,
		),
	}
}

// PermissionsFor returns the capability set for a role. Total: unknown
// roles map to the empty set, never nil panic, never an error.
func (rp RolePermissions) PermissionsFor(role model.Role) PermissionSet {
	if s, ok := rp[role]; ok {
		return s
	}
	return PermissionSet{}
}

// roleRank fixes the total order used by IsHigherRole.
var roleRank = map[model.Role]int{
	model.RoleCustomer:          1,
	model.RoleCustomerPersonnel: 2,
	model.RoleEngineer:          3,
	model.RoleShopTeamLeader:    4,
	model.RoleTeamLeader:        5,
	model.RoleDirector:          6,
}

// IsHigherRole reports whether a outranks b. Unknown roles rank lowest,
// so IsHigherRole(x, x) is always false.
func IsHigherRole(a, b model.Role) bool {
	return roleRank[a] > roleRank[b]
}

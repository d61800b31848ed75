package model

import "time"

// Role is a user's position in the fixed role hierarchy. The ordering
// (Customer lowest, Director highest) lives in the auth package.
type Role string

const (
	RoleCustomer          Role = "customer"
	RoleCustomerPersonnel Role = "customer_personnel"
	RoleEngineer          Role = "engineer"
	RoleShopTeamLeader    Role = "shop_team_leader"
	RoleTeamLeader        Role = "team_leader"
	RoleDirector          Role = "director"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleCustomerPersonnel, RoleEngineer,
		RoleShopTeamLeader, RoleTeamLeader, RoleDirector:
		return true
	}
	return false
}

// UserStatus is the account state; only active users may act.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User is an account in the system. Supervisor references form a tree;
// shop membership refines shop-scoped authorization.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Email        string `gorm:"size:100"`
	FullName     string `gorm:"size:100;not null"`

	Role   Role       `gorm:"size:30;not null"`
	Status UserStatus `gorm:"size:10;default:active"`

	SupervisorID *uint
	ShopID       *uint

	// TelegramChatID, when set, is where best-effort notifications for
	// this user are delivered.
	TelegramChatID int64

	RecordStatus RecordStatus `gorm:"size:10;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the account may act at all.
func (u *User) Active() bool {
	return u != nil && u.Status == UserStatusActive && u.RecordStatus == RecordStatusActive
}

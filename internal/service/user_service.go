package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
)

// UserInput is the caller-supplied account payload.
type UserInput struct {
	Username       string
	Password       string
	Email          string
	FullName       string
	Role           model.Role
	SupervisorID   *uint
	ShopID         *uint
	TelegramChatID int64
}

// UserService manages accounts. Every mutation on someone else's account
// goes through the authorization guard.
type UserService struct {
	users  *repository.UserRepository
	guard  *auth.Guard
	tokens *auth.TokenManager
}

func NewUserService(users *repository.UserRepository, guard *auth.Guard, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, guard: guard, tokens: tokens}
}

// Login verifies credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, unauthorized("invalid credentials")
	}
	if err != nil {
		return "", nil, serverError("load user: %v", err)
	}
	if !user.Active() || !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, serverError("issue token: %v", err)
	}
	return token, user, nil
}

// Create registers a new account. Requires the create_user capability; the
// actor must also outrank the new account unless they are a Director.
func (s *UserService) Create(ctx context.Context, actorID uint, input UserInput) (*model.User, error) {
	if !s.guard.HasPermission(ctx, actorID, auth.PermCreateUser) {
		return nil, unauthorized("not allowed to create users")
	}
	if input.Username == "" || input.Password == "" || input.FullName == "" {
		return nil, invalid("username, password and full name are required")
	}
	if !input.Role.Valid() {
		return nil, invalid("unknown role %q", input.Role)
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, unauthorized("not allowed to create users")
	}
	if actor.Role != model.RoleDirector && !auth.IsHigherRole(actor.Role, input.Role) {
		return nil, unauthorized("cannot create an account at or above your own role")
	}

	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, invalid("username %q is already taken", input.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, serverError("check username: %v", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, serverError("hash password: %v", err)
	}

	user := &model.User{
		Username:       input.Username,
		PasswordHash:   hash,
		Email:          input.Email,
		FullName:       input.FullName,
		Role:           input.Role,
		Status:         model.UserStatusActive,
		SupervisorID:   input.SupervisorID,
		ShopID:         input.ShopID,
		TelegramChatID: input.TelegramChatID,
		RecordStatus:   model.RecordStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, serverError("create user: %v", err)
	}
	return user, nil
}

// Get returns an account. Callers may always read themselves; anyone else
// needs view_all_users or management rights over the target.
func (s *UserService) Get(ctx context.Context, actorID, targetID uint) (*model.User, error) {
	if actorID != targetID &&
		!s.guard.HasPermission(ctx, actorID, auth.PermViewAllUsers) &&
		!s.guard.CanManageUser(ctx, actorID, targetID) {
		return nil, unauthorized("not allowed to view this user")
	}
	user, err := s.users.FindByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user %d not found", targetID)
	}
	if err != nil {
		return nil, serverError("load user: %v", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, actorID uint) ([]model.User, error) {
	if !s.guard.HasPermission(ctx, actorID, auth.PermViewAllUsers) {
		return nil, unauthorized("not allowed to list users")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, serverError("list users: %v", err)
	}
	return users, nil
}

// Update rewrites a managed account's profile fields. Passwords change only
// when a new one is supplied.
func (s *UserService) Update(ctx context.Context, actorID, targetID uint, input UserInput) (*model.User, error) {
	if !s.guard.CanManageUser(ctx, actorID, targetID) {
		return nil, unauthorized("not allowed to manage this user")
	}
	user, err := s.users.FindByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user %d not found", targetID)
	}
	if err != nil {
		return nil, serverError("load user: %v", err)
	}

	if input.Role != "" {
		if !input.Role.Valid() {
			return nil, invalid("unknown role %q", input.Role)
		}
		user.Role = input.Role
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, serverError("hash password: %v", err)
		}
		user.PasswordHash = hash
	}
	user.SupervisorID = input.SupervisorID
	user.ShopID = input.ShopID
	if input.TelegramChatID != 0 {
		user.TelegramChatID = input.TelegramChatID
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, serverError("update user: %v", err)
	}
	return user, nil
}

// SetStatus activates, deactivates or suspends a managed account.
func (s *UserService) SetStatus(ctx context.Context, actorID, targetID uint, status model.UserStatus) (*model.User, error) {
	switch status {
	case model.UserStatusActive, model.UserStatusInactive, model.UserStatusSuspended:
	default:
		return nil, invalid("unknown user status %q", status)
	}
	if !s.guard.CanManageUser(ctx, actorID, targetID) {
		return nil, unauthorized("not allowed to manage this user")
	}
	user, err := s.users.FindByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user %d not found", targetID)
	}
	if err != nil {
		return nil, serverError("load user: %v", err)
	}
	user.Status = status
	if err := s.users.Save(ctx, user); err != nil {
		return nil, serverError("update user status: %v", err)
	}
	return user, nil
}

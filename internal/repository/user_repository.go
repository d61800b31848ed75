package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Scopes(active).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Scopes(active).
		Order("full_name ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListActiveByRole returns active accounts holding the given role. Used to
// fan out role-addressed notifications.
func (r *UserRepository) ListActiveByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("role = ? AND status = ?", role, model.UserStatusActive).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// FindByFullName locates an active account by display name. Assignee lists
// carry names, not ids, so notification fan-out resolves through here.
func (r *UserRepository) FindByFullName(ctx context.Context, fullName string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("full_name = ?", fullName).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

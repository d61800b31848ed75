package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/repository"
)

// LookupService exposes the reference data: categories, sub-types, request
// types, priorities and shops. Reads are open to any authenticated user,
// writes are capability-gated.
type LookupService struct {
	lookups *repository.LookupRepository
	guard   *auth.Guard
}

func NewLookupService(lookups *repository.LookupRepository, guard *auth.Guard) *LookupService {
	return &LookupService{lookups: lookups, guard: guard}
}

func (s *LookupService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.lookups.ListCategories(ctx)
	if err != nil {
		return nil, serverError("list categories: %v", err)
	}
	return categories, nil
}

// SaveCategory creates or updates a category, including its target lead
// time in days.
func (s *LookupService) SaveCategory(ctx context.Context, actorID uint, category *model.Category) (*model.Category, error) {
	if !s.guard.HasPermission(ctx, actorID, auth.PermManageCategories) {
		return nil, unauthorized("not allowed to manage categories")
	}
	if category.Name == "" {
		return nil, invalid("category name is required")
	}
	if category.TargetDays < 0 {
		return nil, invalid("target days cannot be negative")
	}
	if category.RecordStatus == "" {
		category.RecordStatus = model.RecordStatusActive
	}
	if err := s.lookups.SaveCategory(ctx, category); err != nil {
		return nil, serverError("save category: %v", err)
	}
	return category, nil
}

func (s *LookupService) SubTypes(ctx context.Context, categoryID uint) ([]model.SubType, error) {
	subTypes, err := s.lookups.ListSubTypes(ctx, categoryID)
	if err != nil {
		return nil, serverError("list sub types: %v", err)
	}
	return subTypes, nil
}

func (s *LookupService) RequestTypes(ctx context.Context) ([]model.RequestType, error) {
	requestTypes, err := s.lookups.ListRequestTypes(ctx)
	if err != nil {
		return nil, serverError("list request types: %v", err)
	}
	return requestTypes, nil
}

func (s *LookupService) Priorities(ctx context.Context) ([]model.Priority, error) {
	priorities, err := s.lookups.ListPriorities(ctx)
	if err != nil {
		return nil, serverError("list priorities: %v", err)
	}
	return priorities, nil
}

func (s *LookupService) SavePriority(ctx context.Context, actorID uint, priority *model.Priority) (*model.Priority, error) {
	if !s.guard.HasPermission(ctx, actorID, auth.PermManagePriorities) {
		return nil, unauthorized("not allowed to manage priorities")
	}
	if priority.LevelName == "" {
		return nil, invalid("priority level name is required")
	}
	if priority.OrderRank < 1 {
		return nil, invalid("order rank must be at least 1")
	}
	if priority.RecordStatus == "" {
		priority.RecordStatus = model.RecordStatusActive
	}
	if err := s.lookups.SavePriority(ctx, priority); err != nil {
		return nil, serverError("save priority: %v", err)
	}
	return priority, nil
}

func (s *LookupService) Shops(ctx context.Context) ([]model.Shop, error) {
	shops, err := s.lookups.ListShops(ctx)
	if err != nil {
		return nil, serverError("list shops: %v", err)
	}
	return shops, nil
}

func (s *LookupService) SaveShop(ctx context.Context, actorID uint, shop *model.Shop) (*model.Shop, error) {
	if !s.guard.HasPermission(ctx, actorID, auth.PermSystemSettings) {
		return nil, unauthorized("not allowed to manage shops")
	}
	if shop.Name == "" {
		return nil, invalid("shop name is required")
	}
	if shop.RecordStatus == "" {
		shop.RecordStatus = model.RecordStatusActive
	}
	if err := s.lookups.SaveShop(ctx, shop); err != nil {
		return nil, serverError("save shop: %v", err)
	}
	return shop, nil
}

// Shop returns one shop by id.
func (s *LookupService) Shop(ctx context.Context, shopID uint) (*model.Shop, error) {
	shop, err := s.lookups.FindShop(ctx, shopID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("shop %d not found", shopID)
	}
	if err != nil {
		return nil, serverError("load shop: %v", err)
	}
	return shop, nil
}

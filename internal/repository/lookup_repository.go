package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
)

// LookupRepository serves the read-mostly reference data: categories,
// sub-types, request types, priorities and shops.
type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) FindCategory(ctx context.Context, categoryID uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Scopes(active).First(&category, categoryID).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *LookupRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Scopes(active).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *LookupRepository) SaveCategory(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (r *LookupRepository) ListSubTypes(ctx context.Context, categoryID uint) ([]model.SubType, error) {
	var subTypes []model.SubType
	if err := r.db.WithContext(ctx).Scopes(active).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&subTypes).Error; err != nil {
		return nil, fmt.Errorf("list sub types: %w", err)
	}
	return subTypes, nil
}

func (r *LookupRepository) ListRequestTypes(ctx context.Context) ([]model.RequestType, error) {
	var requestTypes []model.RequestType
	if err := r.db.WithContext(ctx).Scopes(active).
		Order("name ASC").
		Find(&requestTypes).Error; err != nil {
		return nil, fmt.Errorf("list request types: %w", err)
	}
	return requestTypes, nil
}

func (r *LookupRepository) FindPriority(ctx context.Context, priorityID uint) (*model.Priority, error) {
	var priority model.Priority
	if err := r.db.WithContext(ctx).Scopes(active).First(&priority, priorityID).Error; err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *LookupRepository) ListPriorities(ctx context.Context) ([]model.Priority, error) {
	var priorities []model.Priority
	if err := r.db.WithContext(ctx).Scopes(active).
		Order("order_rank ASC").
		Find(&priorities).Error; err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	return priorities, nil
}

func (r *LookupRepository) SavePriority(ctx context.Context, priority *model.Priority) error {
	if err := r.db.WithContext(ctx).Save(priority).Error; err != nil {
		return fmt.Errorf("save priority: %w", err)
	}
	return nil
}

func (r *LookupRepository) FindShop(ctx context.Context, shopID uint) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).Scopes(active).First(&shop, shopID).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *LookupRepository) ListShops(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	if err := r.db.WithContext(ctx).Scopes(active).
		Order("name ASC").
		Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	return shops, nil
}

func (r *LookupRepository) SaveShop(ctx context.Context, shop *model.Shop) error {
	if err := r.db.WithContext(ctx).Save(shop).Error; err != nil {
		return fmt.Errorf("save shop: %w", err)
	}
	return nil
}

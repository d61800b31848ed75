package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"maintenance-tracker/internal/model"
)

// Seed ensures the baseline reference data and the bootstrap director
// account exist. Idempotent: existing rows are left untouched.
func Seed(ctx context.Context, db *gorm.DB, directorPasswordHash string) error {
	categories := []model.Category{
		{Name: "AOG & CSD", Description: "Aircraft on ground and customer support desk", TargetDays: 5},
		{Name: "Routine Repair", Description: "Scheduled shop maintenance", TargetDays: 30},
		{Name: "Modification", Description: "Engineering change work", TargetDays: 45},
	}
	for i := range categories {
		if err := firstOrCreate(ctx, db, &categories[i], "name = ?", categories[i].Name); err != nil {
			return fmt.Errorf("seed category %q: %w", categories[i].Name, err)
		}
	}

	priorities := []model.Priority{
		{LevelName: "Critical", Description: "Work everything else stops for", OrderRank: 1},
		{LevelName: "High", OrderRank: 2},
		{LevelName: "Medium", OrderRank: 3},
		{LevelName: "Low", OrderRank: 4},
	}
	for i := range priorities {
		if err := firstOrCreate(ctx, db, &priorities[i], "level_name = ?", priorities[i].LevelName); err != nil {
			return fmt.Errorf("seed priority %q: %w", priorities[i].LevelName, err)
		}
	}

	requestTypes := []model.RequestType{
		{Name: "Customer Request"},
		{Name: "Internal"},
		{Name: "Warranty"},
	}
	for i := range requestTypes {
		if err := firstOrCreate(ctx, db, &requestTypes[i], "name = ?", requestTypes[i].Name); err != nil {
			return fmt.Errorf("seed request type %q: %w", requestTypes[i].Name, err)
		}
	}

	var existing model.User
	err := db.WithContext(ctx).Where("role = ?", model.RoleDirector).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check director account: %w", err)
	}

	director := model.User{
		Username:     "director",
		PasswordHash: directorPasswordHash,
		FullName:     "System Director",
		Role:         model.RoleDirector,
		Status:       model.UserStatusActive,
		RecordStatus: model.RecordStatusActive,
	}
	if err := db.WithContext(ctx).Create(&director).Error; err != nil {
		return fmt.Errorf("seed director account: %w", err)
	}
	log.Printf("[info] seeded bootstrap director account %q", director.Username)
	return nil
}

func firstOrCreate(ctx context.Context, db *gorm.DB, value any, query string, args ...any) error {
	return db.WithContext(ctx).Where(query, args...).FirstOrCreate(value).Error
}

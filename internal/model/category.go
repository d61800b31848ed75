package model

import "time"

// Category classifies tasks (e.g. "AOG & CSD", "Routine Repair").
// TargetDays, when positive, is the lead time used to derive a task's
// target completion date from its estimated date.
type Category struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:100;uniqueIndex;not null"`
	Description  string
	TargetDays   int          `gorm:"default:0"`
	RecordStatus RecordStatus `gorm:"size:10;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubType is an optional refinement of a category.
type SubType struct {
	ID           uint         `gorm:"primaryKey"`
	CategoryID   uint         `gorm:"index;not null"`
	Name         string       `gorm:"size:100;not null"`
	RecordStatus RecordStatus `gorm:"size:10;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RequestType classifies how a task entered the system.
type RequestType struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:100;not null"`
	RecordStatus RecordStatus `gorm:"size:10;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Priority is a task urgency level. OrderRank 1 is the most critical.
type Priority struct {
	ID           uint         `gorm:"primaryKey"`
	LevelName    string       `gorm:"size:50;uniqueIndex;not null"`
	Description  string
	OrderRank    int          `gorm:"not null"`
	RecordStatus RecordStatus `gorm:"size:10;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Shop is a maintenance shop; shop team leaders are scoped to one.
type Shop struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:100;uniqueIndex;not null"`
	Description  string
	TeamLeaderID *uint
	RecordStatus RecordStatus `gorm:"size:10;default:active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

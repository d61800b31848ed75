package model

import "time"

// Notification is a persisted message for one recipient. Delivery to an
// external transport is best effort and happens outside the row's lifecycle.
type Notification struct {
	ID          uint `gorm:"primaryKey"`
	RecipientID uint `gorm:"index;not null"`
	Message     string
	IsRead      bool `gorm:"default:false;index"`
	CreatedAt   time.Time
}

package models

import "time"

// LovItem is an admin curated catalog entry users can pick items from.
type LovItem struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;not null"`
	Type      string `gorm:"size:16;not null"`
	Photo     string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

package models

import "time"

const (
	ItemTypeVegetable = "VEGETABLE"
	ItemTypeOther     = "OTHER"
)

// Item is a good registered by a vendor. Every transaction references one.
type Item struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:64;not null"`
	Type      string `gorm:"size:16;not null"` // VEGETABLE or OTHER
	Photo     string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

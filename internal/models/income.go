package models

import "time"

// Income is a sale record. Totals are always the sums over the current
// IncomeDetail rows.
type Income struct {
	ID              uint    `gorm:"primaryKey"`
	UserID          uint    `gorm:"index;not null"`
	ItemID          uint    `gorm:"index;not null"`
	Total           int64   `gorm:"not null"`
	TotalQuantityKg float64 `gorm:"not null"`
	Note            *string `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Item    Item           `gorm:"foreignKey:ItemID"`
	Details []IncomeDetail `gorm:"foreignKey:IncomeID"`
}

// IncomeDetail is one sale line to a single buyer.
type IncomeDetail struct {
	ID         uint    `gorm:"primaryKey"`
	IncomeID   uint    `gorm:"index;not null"`
	BuyerName  string  `gorm:"size:30;not null"`
	QuantityKg float64 `gorm:"not null"`
	PricePerKg int64   `gorm:"not null"`
	TotalPrice int64   `gorm:"not null"`
	Note       *string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

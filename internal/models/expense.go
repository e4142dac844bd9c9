package models

import "time"

// Expense is a purchase record. Amounts are whole rupiah stored as int64.
// For VEGETABLE expenses Total and TotalQuantityKg are always the sums over
// the current VegetableExpenseDetail rows; for OTHER they are supplied
// directly and the expense carries no detail rows.
type Expense struct {
	ID              uint    `gorm:"primaryKey"`
	UserID          uint    `gorm:"index;not null"`
	ItemID          uint    `gorm:"index;not null"`
	Type            string  `gorm:"size:16;not null"` // VEGETABLE or OTHER
	Total           int64   `gorm:"not null"`
	TotalQuantityKg float64 `gorm:"not null"`
	Note            *string `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Item    Item                     `gorm:"foreignKey:ItemID"`
	Details []VegetableExpenseDetail `gorm:"foreignKey:ExpenseID"`
}

// VegetableExpenseDetail is one purchase line from a single farmer.
// TotalPrice = round(QuantityKg * PricePerKg), half-up.
type VegetableExpenseDetail struct {
	ID         uint    `gorm:"primaryKey"`
	ExpenseID  uint    `gorm:"index;not null"`
	FarmerName string  `gorm:"size:30;not null"`
	Phone      *string `gorm:"size:15"`
	Address    *string `gorm:"size:50"`
	QuantityKg float64 `gorm:"not null"`
	PricePerKg int64   `gorm:"not null"`
	TotalPrice int64   `gorm:"not null"`
	Note       *string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

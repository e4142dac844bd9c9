package models

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents application user.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt hash
	Role      string `gorm:"size:16;not null;default:USER"`
	Photo     string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

package database

import (
	"fmt"

	"github.com/exoream/sayur/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Expense{},
		&models.VegetableExpenseDetail{},
		&models.Income{},
		&models.IncomeDetail{},
		&models.LovItem{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

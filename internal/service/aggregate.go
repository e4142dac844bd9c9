package service

import (
	"math"

	"github.com/exoream/sayur/internal/models"
)

// LineTotal computes the price of one line, rounded half-up to the nearest
// rupiah. Create and update paths must both go through here so stored line
// totals round-trip identically.
func LineTotal(quantityKg float64, pricePerKg int64) int64 {
	return int64(math.Round(quantityKg * float64(pricePerKg)))
}

// SumExpenseDetails returns the parent totals for a set of expense lines.
// Summation happens in the integer domain after per-line rounding, never as
// a rounded grand product.
func SumExpenseDetails(details []models.VegetableExpenseDetail) (total int64, quantityKg float64) {
	for i := range details {
		total += details[i].TotalPrice
		quantityKg += details[i].QuantityKg
	}
	return total, quantityKg
}

// SumIncomeDetails returns the parent totals for a set of income lines.
func SumIncomeDetails(details []models.IncomeDetail) (total int64, quantityKg float64) {
	for i := range details {
		total += details[i].TotalPrice
		quantityKg += details[i].QuantityKg
	}
	return total, quantityKg
}

package service

import (
	"testing"

	"github.com/exoream/sayur/internal/models"
)

func TestLineTotal_Exact(t *testing.T) {
	if got := LineTotal(10, 5000); got != 50000 {
		t.Errorf("LineTotal(10, 5000) = %d, want 50000", got)
	}
	if got := LineTotal(3, 7000); got != 21000 {
		t.Errorf("LineTotal(3, 7000) = %d, want 21000", got)
	}
}

func TestLineTotal_RoundsHalfUp(t *testing.T) {
	// 2.5 kg * 1001 = 2502.5 -> 2503
	if got := LineTotal(2.5, 1001); got != 2503 {
		t.Errorf("LineTotal(2.5, 1001) = %d, want 2503", got)
	}
	// 1.4 kg * 1000 = 1400 exactly
	if got := LineTotal(1.4, 1000); got != 1400 {
		t.Errorf("LineTotal(1.4, 1000) = %d, want 1400", got)
	}
	// 3.33 kg * 1500 = 4995 exactly, 3.333 * 1500 = 4999.5 -> 5000
	if got := LineTotal(3.333, 1500); got != 5000 {
		t.Errorf("LineTotal(3.333, 1500) = %d, want 5000", got)
	}
}

func TestSumExpenseDetails(t *testing.T) {
	details := []models.VegetableExpenseDetail{
		{QuantityKg: 10, PricePerKg: 5000, TotalPrice: LineTotal(10, 5000)},
		{QuantityKg: 3, PricePerKg: 7000, TotalPrice: LineTotal(3, 7000)},
	}

	total, quantity := SumExpenseDetails(details)
	if total != 71000 {
		t.Errorf("total = %d, want 71000", total)
	}
	if quantity != 13 {
		t.Errorf("quantity = %v, want 13", quantity)
	}

	// removing the first line leaves the second line's sums
	total, quantity = SumExpenseDetails(details[1:])
	if total != 21000 {
		t.Errorf("total after removal = %d, want 21000", total)
	}
	if quantity != 3 {
		t.Errorf("quantity after removal = %v, want 3", quantity)
	}
}

func TestSumExpenseDetails_Empty(t *testing.T) {
	total, quantity := SumExpenseDetails(nil)
	if total != 0 || quantity != 0 {
		t.Errorf("empty sums = (%d, %v), want (0, 0)", total, quantity)
	}
}

func TestSumIncomeDetails(t *testing.T) {
	details := []models.IncomeDetail{
		{QuantityKg: 2, PricePerKg: 8000, TotalPrice: LineTotal(2, 8000)},
		{QuantityKg: 1.5, PricePerKg: 6000, TotalPrice: LineTotal(1.5, 6000)},
	}

	total, quantity := SumIncomeDetails(details)
	if total != 25000 {
		t.Errorf("total = %d, want 25000", total)
	}
	if quantity != 3.5 {
		t.Errorf("quantity = %v, want 3.5", quantity)
	}
}

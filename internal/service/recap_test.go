package service

import (
	"testing"

	"github.com/exoream/sayur/internal/models"
)

func TestBuildUserRecap(t *testing.T) {
	user := models.User{ID: 1, Name: "Penjual", Email: "penjual@example.com"}
	kangkung := models.Item{ID: 1, Name: "Kangkung", Type: models.ItemTypeVegetable}
	bensin := models.Item{ID: 2, Name: "Bensin", Type: models.ItemTypeOther}

	items := []models.Item{kangkung, bensin}
	expenses := []models.Expense{
		{ItemID: 1, Type: models.ItemTypeVegetable, Total: 50000, TotalQuantityKg: 10, Item: kangkung},
		{ItemID: 1, Type: models.ItemTypeVegetable, Total: 21000, TotalQuantityKg: 3, Item: kangkung},
		{ItemID: 2, Type: models.ItemTypeOther, Total: 20000, Note: strPtr("isi bensin"), Item: bensin},
	}
	incomes := []models.Income{
		{ItemID: 1, Total: 25000, TotalQuantityKg: 3.5, Item: kangkung},
	}

	recap := BuildUserRecap(user, items, expenses, incomes)

	if recap.UserID != 1 || recap.Email != "penjual@example.com" {
		t.Errorf("identity = (%d, %q)", recap.UserID, recap.Email)
	}
	if len(recap.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(recap.Items))
	}

	if len(recap.Expenses) != 2 {
		t.Fatalf("len(expenses) = %d, want 2", len(recap.Expenses))
	}
	if recap.Expenses[0].TotalPrice != 71000 || recap.Expenses[0].TotalQuantityKg != 13 {
		t.Errorf("vegetable expense group = %+v", recap.Expenses[0])
	}
	if recap.Expenses[0].Note != nil {
		t.Errorf("vegetable group note = %v, want nil", recap.Expenses[0].Note)
	}
	if recap.Expenses[1].Note == nil || *recap.Expenses[1].Note != "isi bensin" {
		t.Errorf("other group note = %v, want %q", recap.Expenses[1].Note, "isi bensin")
	}

	if len(recap.Incomes) != 1 {
		t.Fatalf("len(incomes) = %d, want 1", len(recap.Incomes))
	}
	if recap.Incomes[0].TotalPrice != 25000 {
		t.Errorf("income group = %+v", recap.Incomes[0])
	}
}

func TestBuildUserRecap_Empty(t *testing.T) {
	user := models.User{ID: 2, Name: "Baru", Email: "baru@example.com"}

	recap := BuildUserRecap(user, nil, nil, nil)
	if len(recap.Items) != 0 || len(recap.Expenses) != 0 || len(recap.Incomes) != 0 {
		t.Errorf("recap = %+v, want empty slices", recap)
	}
}

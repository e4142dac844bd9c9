package service

import (
	"github.com/exoream/sayur/internal/models"
)

// ItemRecap is one item's grouped transaction sums inside a user recap.
// Note is only carried for OTHER-type expense groups.
type ItemRecap struct {
	ItemID          uint    `json:"itemId"`
	ItemName        string  `json:"itemName"`
	ItemType        string  `json:"itemType"`
	TotalQuantityKg float64 `json:"totalQuantityKg"`
	TotalPrice      int64   `json:"totalPrice"`
	Note            *string `json:"note,omitempty"`
}

// RecapItem is a plain item listing inside a user recap.
type RecapItem struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Photo string `json:"photo"`
}

// UserRecap is the denormalized cross-user reporting view for one user.
type UserRecap struct {
	UserID   uint        `json:"userId"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Items    []RecapItem `json:"items"`
	Expenses []ItemRecap `json:"expenses"`
	Incomes  []ItemRecap `json:"incomes"`
}

// BuildUserRecap groups one user's expenses and incomes per item.
// Vegetable expense groups carry no note at this level.
func BuildUserRecap(user models.User, items []models.Item, expenses []models.Expense, incomes []models.Income) UserRecap {
	recap := UserRecap{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Items:    make([]RecapItem, 0, len(items)),
		Expenses: make([]ItemRecap, 0),
		Incomes:  make([]ItemRecap, 0),
	}

	for i := range items {
		recap.Items = append(recap.Items, RecapItem{
			ID:    items[i].ID,
			Name:  items[i].Name,
			Type:  items[i].Type,
			Photo: items[i].Photo,
		})
	}

	expenseIndex := make(map[uint]int)
	for i := range expenses {
		e := &expenses[i]
		pos, ok := expenseIndex[e.ItemID]
		if !ok {
			pos = len(recap.Expenses)
			expenseIndex[e.ItemID] = pos
			recap.Expenses = append(recap.Expenses, ItemRecap{
				ItemID:   e.ItemID,
				ItemName: e.Item.Name,
				ItemType: e.Item.Type,
			})
		}
		recap.Expenses[pos].TotalQuantityKg += e.TotalQuantityKg
		recap.Expenses[pos].TotalPrice += e.Total
		if e.Type == models.ItemTypeOther && recap.Expenses[pos].Note == nil {
			recap.Expenses[pos].Note = e.Note
		}
	}

	incomeIndex := make(map[uint]int)
	for i := range incomes {
		in := &incomes[i]
		pos, ok := incomeIndex[in.ItemID]
		if !ok {
			pos = len(recap.Incomes)
			incomeIndex[in.ItemID] = pos
			recap.Incomes = append(recap.Incomes, ItemRecap{
				ItemID:   in.ItemID,
				ItemName: in.Item.Name,
				ItemType: in.Item.Type,
			})
		}
		recap.Incomes[pos].TotalQuantityKg += in.TotalQuantityKg
		recap.Incomes[pos].TotalPrice += in.Total
	}

	return recap
}

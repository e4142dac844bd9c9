package service

import (
	"sort"
	"time"

	"github.com/exoream/sayur/internal/models"
	"github.com/exoream/sayur/internal/util"
)

// DayRange resolves a YYYY-MM-DD string to the half-open window
// [midnight, next midnight) of that calendar day in the reporting timezone.
// Bounds are normalized to UTC: created_at is persisted as UTC text and
// SQLite compares timestamp strings without interpreting offsets, so both
// sides of the comparison must share the UTC format.
func DayRange(dateStr string, loc *time.Location) (time.Time, time.Time, error) {
	if err := util.ValidateDate(dateStr); err != nil {
		return time.Time{}, time.Time{}, util.ErrValidation(err.Error())
	}
	start, _ := time.ParseInLocation("2006-01-02", dateStr, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
}

// MonthRange validates month/year and resolves them to the calendar month
// window in the reporting timezone, normalized to UTC. Validation happens
// before any query.
func MonthRange(month, year int, loc *time.Location) (time.Time, time.Time, error) {
	if month < 1 || month > 12 || year <= 0 {
		return time.Time{}, time.Time{}, util.ErrValidation("Parameter month atau year tidak valid")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC(), nil
}

// YearRange validates a year and resolves it to the calendar year window,
// normalized to UTC.
func YearRange(year int, loc *time.Location) (time.Time, time.Time, error) {
	if year < 1970 || year > 3000 {
		return time.Time{}, time.Time{}, util.ErrValidation("Parameter year tidak valid")
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(1, 0, 0).UTC(), nil
}

// ExpenseGroup is one (item, type) bucket of a per-day expense rollup.
type ExpenseGroup struct {
	ItemID          uint    `json:"itemId"`
	ItemName        string  `json:"itemName"`
	ItemType        string  `json:"itemType"`
	Type            string  `json:"type"`
	TotalQuantityKg float64 `json:"totalQuantityKg"`
	TotalPrice      int64   `json:"totalPrice"`
	Note            *string `json:"note"`
}

// GroupExpensesByItem buckets expenses by (itemId, type). Quantity only
// accumulates for VEGETABLE rows; amount accumulates unconditionally.
// Buckets keep first-appearance order.
func GroupExpensesByItem(expenses []models.Expense) []ExpenseGroup {
	groups := make([]ExpenseGroup, 0)
	index := make(map[[2]interface{}]int)

	for i := range expenses {
		e := &expenses[i]
		key := [2]interface{}{e.ItemID, e.Type}

		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, ExpenseGroup{
				ItemID:   e.ItemID,
				ItemName: e.Item.Name,
				ItemType: e.Item.Type,
				Type:     e.Type,
				Note:     e.Note,
			})
		}

		if e.Type == models.ItemTypeVegetable {
			groups[pos].TotalQuantityKg += e.TotalQuantityKg
		}
		groups[pos].TotalPrice += e.Total
	}

	return groups
}

// IncomeGroup is one item bucket of a per-day income rollup.
type IncomeGroup struct {
	ItemID          uint    `json:"itemId"`
	ItemName        string  `json:"itemName"`
	ItemType        string  `json:"itemType"`
	TotalQuantityKg float64 `json:"totalQuantityKg"`
	TotalPrice      int64   `json:"totalPrice"`
}

// GroupIncomesByItem buckets incomes by itemId, first-appearance order.
func GroupIncomesByItem(incomes []models.Income) []IncomeGroup {
	groups := make([]IncomeGroup, 0)
	index := make(map[uint]int)

	for i := range incomes {
		in := &incomes[i]

		pos, ok := index[in.ItemID]
		if !ok {
			pos = len(groups)
			index[in.ItemID] = pos
			groups = append(groups, IncomeGroup{
				ItemID:   in.ItemID,
				ItemName: in.Item.Name,
				ItemType: in.Item.Type,
			})
		}

		groups[pos].TotalQuantityKg += in.TotalQuantityKg
		groups[pos].TotalPrice += in.Total
	}

	return groups
}

// ExpenseDetailEntry is one flattened line of a single-item day detail:
// a farmer line for VEGETABLE expenses, the parent record itself otherwise.
type ExpenseDetailEntry struct {
	ID              uint       `json:"id"`
	FarmerName      string     `json:"farmerName,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Address         *string    `json:"address,omitempty"`
	QuantityKg      float64    `json:"quantityKg,omitempty"`
	PricePerKg      int64      `json:"pricePerKg,omitempty"`
	TotalQuantityKg *float64   `json:"totalQuantityKg,omitempty"`
	TotalPrice      int64      `json:"totalPrice"`
	Note            *string    `json:"note"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

// ExpenseDayDetail merges all of one item's expenses for a single day.
type ExpenseDayDetail struct {
	ItemID          uint                 `json:"itemId"`
	ItemName        string               `json:"itemName"`
	ItemType        string               `json:"itemType"`
	Type            string               `json:"type"`
	TotalQuantityKg float64              `json:"totalQuantityKg"`
	TotalPrice      int64                `json:"totalPrice"`
	Note            *string              `json:"note"`
	Details         []ExpenseDetailEntry `json:"details"`
}

// MergeExpenseDay flattens a non-empty day's expenses for one item into a
// single record: merged parent totals plus one detail entry per farmer line
// (VEGETABLE) or per parent record (OTHER).
func MergeExpenseDay(expenses []models.Expense) ExpenseDayDetail {
	first := &expenses[0]
	result := ExpenseDayDetail{
		ItemID:   first.ItemID,
		ItemName: first.Item.Name,
		ItemType: first.Item.Type,
		Type:     first.Type,
		Details:  make([]ExpenseDetailEntry, 0),
	}

	for i := range expenses {
		e := &expenses[i]
		if e.Type == models.ItemTypeVegetable {
			result.TotalQuantityKg += e.TotalQuantityKg
		}
		result.TotalPrice += e.Total
		if result.Note == nil {
			result.Note = e.Note
		}

		if e.Type == models.ItemTypeVegetable && len(e.Details) > 0 {
			for j := range e.Details {
				d := &e.Details[j]
				result.Details = append(result.Details, ExpenseDetailEntry{
					ID:         d.ID,
					FarmerName: d.FarmerName,
					Phone:      d.Phone,
					Address:    d.Address,
					QuantityKg: d.QuantityKg,
					PricePerKg: d.PricePerKg,
					TotalPrice: d.TotalPrice,
					Note:       d.Note,
				})
			}
		} else {
			qty := e.TotalQuantityKg
			createdAt := e.CreatedAt
			result.Details = append(result.Details, ExpenseDetailEntry{
				ID:              e.ID,
				TotalQuantityKg: &qty,
				TotalPrice:      e.Total,
				Note:            e.Note,
				CreatedAt:       &createdAt,
			})
		}
	}

	return result
}

// DailyNet is one day bucket of a monthly summary.
type DailyNet struct {
	Date    string `json:"date"`
	Expense int64  `json:"expense"`
	Income  int64  `json:"income"`
	Net     int64  `json:"net"`
}

// MonthlySummary is a whole month: per-day buckets plus month totals.
type MonthlySummary struct {
	SummaryPerDay []DailyNet `json:"summaryPerDay"`
	TotalExpense  int64      `json:"totalExpense"`
	TotalIncome   int64      `json:"totalIncome"`
	TotalNet      int64      `json:"totalNet"`
}

// SummarizeMonth buckets a month's transactions per calendar day in the
// reporting timezone. The bucket set is the union of days that have at least
// one expense or income; silent days are omitted.
func SummarizeMonth(expenses []models.Expense, incomes []models.Income, loc *time.Location) MonthlySummary {
	expenseByDate := make(map[string]int64)
	incomeByDate := make(map[string]int64)

	var summary MonthlySummary
	for i := range expenses {
		key := expenses[i].CreatedAt.In(loc).Format("2006-01-02")
		expenseByDate[key] += expenses[i].Total
		summary.TotalExpense += expenses[i].Total
	}
	for i := range incomes {
		key := incomes[i].CreatedAt.In(loc).Format("2006-01-02")
		incomeByDate[key] += incomes[i].Total
		summary.TotalIncome += incomes[i].Total
	}
	summary.TotalNet = summary.TotalIncome - summary.TotalExpense

	dates := make([]string, 0, len(expenseByDate)+len(incomeByDate))
	seen := make(map[string]bool)
	for d := range expenseByDate {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	for d := range incomeByDate {
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	summary.SummaryPerDay = make([]DailyNet, 0, len(dates))
	for _, d := range dates {
		expense := expenseByDate[d]
		income := incomeByDate[d]
		summary.SummaryPerDay = append(summary.SummaryPerDay, DailyNet{
			Date:    d,
			Expense: expense,
			Income:  income,
			Net:     income - expense,
		})
	}

	return summary
}

// MonthlyNet is one month bucket of a yearly summary.
type MonthlyNet struct {
	Month   string `json:"month"`
	Expense int64  `json:"expense"`
	Income  int64  `json:"income"`
	Net     int64  `json:"net"`
}

// SummarizeYear returns exactly 12 buckets, January through December,
// zero-filled for months without activity.
func SummarizeYear(year int, expenses []models.Expense, incomes []models.Income, loc *time.Location) []MonthlyNet {
	expenseByMonth := make(map[string]int64)
	incomeByMonth := make(map[string]int64)

	for i := range expenses {
		key := expenses[i].CreatedAt.In(loc).Format("2006-01")
		expenseByMonth[key] += expenses[i].Total
	}
	for i := range incomes {
		key := incomes[i].CreatedAt.In(loc).Format("2006-01")
		incomeByMonth[key] += incomes[i].Total
	}

	result := make([]MonthlyNet, 0, 12)
	for m := time.January; m <= time.December; m++ {
		key := time.Date(year, m, 1, 0, 0, 0, 0, loc).Format("2006-01")
		expense := expenseByMonth[key]
		income := incomeByMonth[key]
		result = append(result, MonthlyNet{
			Month:   key,
			Expense: expense,
			Income:  income,
			Net:     income - expense,
		})
	}

	return result
}

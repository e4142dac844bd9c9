package service

import (
	"testing"
	"time"

	"github.com/exoream/sayur/internal/models"
)

var testLoc = time.FixedZone("WITA", 8*3600)

func TestDayRange(t *testing.T) {
	start, end, err := DayRange("2024-03-05", testLoc)
	if err != nil {
		t.Fatalf("DayRange error = %v, want nil", err)
	}

	wantStart := time.Date(2024, 3, 5, 0, 0, 0, 0, testLoc)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("end = %v, want %v", end, wantStart.AddDate(0, 0, 1))
	}
}

// Bounds must come back in UTC: created_at is stored as UTC text, and SQLite
// compares timestamp strings byte-wise, so offset-formatted bounds would
// bucket rows near midnight into the wrong calendar day.
func TestRangeBounds_NormalizedToUTC(t *testing.T) {
	dayStart, dayEnd, err := DayRange("2024-03-05", testLoc)
	if err != nil {
		t.Fatalf("DayRange error = %v", err)
	}
	if dayStart.Location() != time.UTC || dayEnd.Location() != time.UTC {
		t.Errorf("DayRange locations = (%v, %v), want UTC", dayStart.Location(), dayEnd.Location())
	}
	if got := dayStart.Format(time.RFC3339); got != "2024-03-04T16:00:00Z" {
		t.Errorf("day start = %s, want 2024-03-04T16:00:00Z", got)
	}

	monthStart, monthEnd, err := MonthRange(3, 2024, testLoc)
	if err != nil {
		t.Fatalf("MonthRange error = %v", err)
	}
	if monthStart.Location() != time.UTC || monthEnd.Location() != time.UTC {
		t.Errorf("MonthRange locations = (%v, %v), want UTC", monthStart.Location(), monthEnd.Location())
	}

	yearStart, yearEnd, err := YearRange(2024, testLoc)
	if err != nil {
		t.Fatalf("YearRange error = %v", err)
	}
	if yearStart.Location() != time.UTC || yearEnd.Location() != time.UTC {
		t.Errorf("YearRange locations = (%v, %v), want UTC", yearStart.Location(), yearEnd.Location())
	}
}

func TestDayRange_Invalid(t *testing.T) {
	testCases := []string{"", "05-03-2024", "2024-03-32", "not-a-date"}

	for _, d := range testCases {
		if _, _, err := DayRange(d, testLoc); err == nil {
			t.Errorf("DayRange(%q) error = nil, want error", d)
		}
	}
}

func TestDayRange_TimezoneBoundary(t *testing.T) {
	start, end, err := DayRange("2024-03-05", testLoc)
	if err != nil {
		t.Fatalf("DayRange error = %v", err)
	}

	// 23:30 UTC on March 4th is already March 5th in UTC+8
	lateUTC := time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC)
	if lateUTC.Before(start) || !lateUTC.Before(end) {
		t.Errorf("%v should fall inside [%v, %v)", lateUTC, start, end)
	}

	// 17:00 UTC on March 5th is already March 6th in UTC+8
	nextUTC := time.Date(2024, 3, 5, 17, 0, 0, 0, time.UTC)
	if nextUTC.Before(end) {
		t.Errorf("%v should fall outside [%v, %v)", nextUTC, start, end)
	}
}

func TestMonthRange_Invalid(t *testing.T) {
	testCases := []struct {
		month, year int
	}{
		{0, 2024},
		{13, 2024},
		{5, 0},
		{5, -1},
	}

	for _, tc := range testCases {
		if _, _, err := MonthRange(tc.month, tc.year, testLoc); err == nil {
			t.Errorf("MonthRange(%d, %d) error = nil, want error", tc.month, tc.year)
		}
	}
}

func TestYearRange_Invalid(t *testing.T) {
	for _, year := range []int{0, 1969, 3001} {
		if _, _, err := YearRange(year, testLoc); err == nil {
			t.Errorf("YearRange(%d) error = nil, want error", year)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestGroupExpensesByItem(t *testing.T) {
	kangkung := models.Item{ID: 1, Name: "Kangkung", Type: models.ItemTypeVegetable}
	bensin := models.Item{ID: 2, Name: "Bensin", Type: models.ItemTypeOther}

	expenses := []models.Expense{
		{ItemID: 1, Type: models.ItemTypeVegetable, Total: 50000, TotalQuantityKg: 10, Item: kangkung},
		{ItemID: 2, Type: models.ItemTypeOther, Total: 20000, Note: strPtr("isi bensin"), Item: bensin},
		{ItemID: 1, Type: models.ItemTypeVegetable, Total: 21000, TotalQuantityKg: 3, Item: kangkung},
	}

	groups := GroupExpensesByItem(expenses)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	if groups[0].ItemID != 1 || groups[0].TotalPrice != 71000 || groups[0].TotalQuantityKg != 13 {
		t.Errorf("vegetable group = %+v, want itemId 1, total 71000, quantity 13", groups[0])
	}
	if groups[1].ItemID != 2 || groups[1].TotalPrice != 20000 {
		t.Errorf("other group = %+v, want itemId 2, total 20000", groups[1])
	}
	// quantity never accumulates for OTHER records
	if groups[1].TotalQuantityKg != 0 {
		t.Errorf("other group quantity = %v, want 0", groups[1].TotalQuantityKg)
	}
}

func TestGroupIncomesByItem(t *testing.T) {
	kangkung := models.Item{ID: 1, Name: "Kangkung", Type: models.ItemTypeVegetable}

	incomes := []models.Income{
		{ItemID: 1, Total: 15000, TotalQuantityKg: 2, Item: kangkung},
		{ItemID: 1, Total: 10000, TotalQuantityKg: 1.5, Item: kangkung},
	}

	groups := GroupIncomesByItem(incomes)
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	if groups[0].TotalPrice != 25000 || groups[0].TotalQuantityKg != 3.5 {
		t.Errorf("group = %+v, want total 25000, quantity 3.5", groups[0])
	}
}

func TestMergeExpenseDay_Vegetable(t *testing.T) {
	kangkung := models.Item{ID: 1, Name: "Kangkung", Type: models.ItemTypeVegetable}

	expenses := []models.Expense{
		{
			ID: 10, ItemID: 1, Type: models.ItemTypeVegetable,
			Total: 50000, TotalQuantityKg: 10, Item: kangkung,
			Details: []models.VegetableExpenseDetail{
				{ID: 100, FarmerName: "Pak Budi", QuantityKg: 10, PricePerKg: 5000, TotalPrice: 50000},
			},
		},
		{
			ID: 11, ItemID: 1, Type: models.ItemTypeVegetable,
			Total: 21000, TotalQuantityKg: 3, Item: kangkung,
			Details: []models.VegetableExpenseDetail{
				{ID: 101, FarmerName: "Bu Siti", QuantityKg: 3, PricePerKg: 7000, TotalPrice: 21000},
			},
		},
	}

	merged := MergeExpenseDay(expenses)
	if merged.TotalPrice != 71000 || merged.TotalQuantityKg != 13 {
		t.Errorf("merged totals = (%d, %v), want (71000, 13)", merged.TotalPrice, merged.TotalQuantityKg)
	}
	if len(merged.Details) != 2 {
		t.Fatalf("len(details) = %d, want 2", len(merged.Details))
	}
	if merged.Details[0].FarmerName != "Pak Budi" || merged.Details[1].FarmerName != "Bu Siti" {
		t.Errorf("details order = %q, %q", merged.Details[0].FarmerName, merged.Details[1].FarmerName)
	}
}

func TestMergeExpenseDay_Other(t *testing.T) {
	bensin := models.Item{ID: 2, Name: "Bensin", Type: models.ItemTypeOther}
	now := time.Now()

	expenses := []models.Expense{
		{ID: 20, ItemID: 2, Type: models.ItemTypeOther, Total: 20000,
			Note: strPtr("isi bensin"), CreatedAt: now, Item: bensin},
		{ID: 21, ItemID: 2, Type: models.ItemTypeOther, Total: 15000,
			Note: strPtr("parkir pasar"), CreatedAt: now, Item: bensin},
	}

	merged := MergeExpenseDay(expenses)
	if merged.TotalPrice != 35000 {
		t.Errorf("merged total = %d, want 35000", merged.TotalPrice)
	}
	if merged.TotalQuantityKg != 0 {
		t.Errorf("merged quantity = %v, want 0 for OTHER", merged.TotalQuantityKg)
	}
	// first record's note wins at the merged level
	if merged.Note == nil || *merged.Note != "isi bensin" {
		t.Errorf("merged note = %v, want %q", merged.Note, "isi bensin")
	}
	if len(merged.Details) != 2 {
		t.Fatalf("len(details) = %d, want 2", len(merged.Details))
	}
	if merged.Details[0].TotalPrice != 20000 || merged.Details[1].TotalPrice != 15000 {
		t.Errorf("detail totals = %d, %d", merged.Details[0].TotalPrice, merged.Details[1].TotalPrice)
	}
}

func TestSummarizeMonth(t *testing.T) {
	day5 := time.Date(2024, 3, 5, 10, 0, 0, 0, testLoc)
	day7 := time.Date(2024, 3, 7, 9, 0, 0, 0, testLoc)

	expenses := []models.Expense{
		{Total: 10000, CreatedAt: day5},
	}
	incomes := []models.Income{
		{Total: 15000, CreatedAt: day5},
		{Total: 5000, CreatedAt: day7},
	}

	summary := SummarizeMonth(expenses, incomes, testLoc)

	if summary.TotalExpense != 10000 || summary.TotalIncome != 20000 || summary.TotalNet != 10000 {
		t.Errorf("totals = (%d, %d, %d), want (10000, 20000, 10000)",
			summary.TotalExpense, summary.TotalIncome, summary.TotalNet)
	}

	// only days with activity appear, in ascending date order
	if len(summary.SummaryPerDay) != 2 {
		t.Fatalf("len(summaryPerDay) = %d, want 2", len(summary.SummaryPerDay))
	}
	d5 := summary.SummaryPerDay[0]
	if d5.Date != "2024-03-05" || d5.Expense != 10000 || d5.Income != 15000 || d5.Net != 5000 {
		t.Errorf("day 5 = %+v, want expense 10000, income 15000, net 5000", d5)
	}
	d7 := summary.SummaryPerDay[1]
	if d7.Date != "2024-03-07" || d7.Net != 5000 {
		t.Errorf("day 7 = %+v, want net 5000", d7)
	}
}

func TestSummarizeMonth_Empty(t *testing.T) {
	summary := SummarizeMonth(nil, nil, testLoc)
	if len(summary.SummaryPerDay) != 0 {
		t.Errorf("len(summaryPerDay) = %d, want 0", len(summary.SummaryPerDay))
	}
	if summary.TotalNet != 0 {
		t.Errorf("totalNet = %d, want 0", summary.TotalNet)
	}
}

func TestSummarizeYear_AlwaysTwelveBuckets(t *testing.T) {
	march := time.Date(2024, 3, 5, 10, 0, 0, 0, testLoc)

	expenses := []models.Expense{{Total: 10000, CreatedAt: march}}
	incomes := []models.Income{{Total: 25000, CreatedAt: march}}

	result := SummarizeYear(2024, expenses, incomes, testLoc)
	if len(result) != 12 {
		t.Fatalf("len(result) = %d, want 12", len(result))
	}

	if result[0].Month != "2024-01" || result[11].Month != "2024-12" {
		t.Errorf("month keys = %q..%q, want 2024-01..2024-12", result[0].Month, result[11].Month)
	}

	for i, m := range result {
		if i == 2 {
			if m.Expense != 10000 || m.Income != 25000 || m.Net != 15000 {
				t.Errorf("march = %+v, want expense 10000, income 25000, net 15000", m)
			}
			continue
		}
		if m.Expense != 0 || m.Income != 0 || m.Net != 0 {
			t.Errorf("month %s = %+v, want zeros", m.Month, m)
		}
	}
}

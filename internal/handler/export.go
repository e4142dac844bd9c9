package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/exoream/sayur/internal/models"
	"github.com/exoream/sayur/internal/service"
	"github.com/exoream/sayur/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler writes the admin recap as a spreadsheet.
type ExportHandler struct {
	DB  *gorm.DB
	Loc *time.Location
}

func NewExportHandler(db *gorm.DB, loc *time.Location) *ExportHandler {
	return &ExportHandler{DB: db, Loc: loc}
}

// RecapXLSX exports every USER account's per-item totals as one XLSX sheet.
// Optional month and year query params narrow the window; both must be
// present to take effect.
func (h *ExportHandler) RecapXLSX(c *gin.Context) {
	var start, end time.Time
	filtered := false

	monthStr, yearStr := c.Query("month"), c.Query("year")
	if monthStr != "" || yearStr != "" {
		month, _ := strconv.Atoi(monthStr)
		year, _ := strconv.Atoi(yearStr)
		var err error
		start, end, err = service.MonthRange(month, year, h.Loc)
		if err != nil {
			util.Fail(c, err)
			return
		}
		filtered = true
	}

	var users []models.User
	if err := h.DB.Where("role = ?", models.RoleUser).
		Order("id ASC").
		Find(&users).Error; err != nil {
		util.Fail(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Rekaptulasi"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Fail(c, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Nama", "Email", "Item", "Tipe Item", "Jenis", "Total Kg", "Total Harga"}
	for i, head := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	row := 2
	for i := range users {
		user := &users[i]

		expenseQuery := h.DB.Preload("Item").Where("user_id = ?", user.ID)
		incomeQuery := h.DB.Preload("Item").Where("user_id = ?", user.ID)
		if filtered {
			expenseQuery = expenseQuery.Where("created_at >= ? AND created_at < ?", start, end)
			incomeQuery = incomeQuery.Where("created_at >= ? AND created_at < ?", start, end)
		}

		var expenses []models.Expense
		if err := expenseQuery.Find(&expenses).Error; err != nil {
			util.Fail(c, err)
			return
		}
		var incomes []models.Income
		if err := incomeQuery.Find(&incomes).Error; err != nil {
			util.Fail(c, err)
			return
		}

		recap := service.BuildUserRecap(*user, nil, expenses, incomes)
		for _, e := range recap.Expenses {
			writeRecapRow(f, sheetName, row, user, e, "PENGELUARAN")
			row++
		}
		for _, in := range recap.Incomes {
			writeRecapRow(f, sheetName, row, user, in, "PEMASUKAN")
			row++
		}
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 10)
	f.SetColWidth(sheetName, "G", "G", 14)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"rekaptulasi_%s.xlsx\"",
		time.Now().In(h.Loc).Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Fail(c, util.NewResponseError("Gagal mengekspor rekaptulasi", http.StatusInternalServerError))
	}
}

func writeRecapRow(f *excelize.File, sheetName string, row int, user *models.User, recap service.ItemRecap, kind string) {
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), user.Name)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), user.Email)
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), recap.ItemName)
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), recap.ItemType)
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), kind)
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), recap.TotalQuantityKg)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), recap.TotalPrice)
}

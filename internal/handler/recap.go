package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/exoream/sayur/internal/middleware"
	"github.com/exoream/sayur/internal/models"
	"github.com/exoream/sayur/internal/service"
	"github.com/exoream/sayur/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecapHandler serves the monthly and yearly summaries plus the admin
// cross-user recap.
type RecapHandler struct {
	DB  *gorm.DB
	Loc *time.Location
}

func NewRecapHandler(db *gorm.DB, loc *time.Location) *RecapHandler {
	return &RecapHandler{DB: db, Loc: loc}
}

func (h *RecapHandler) fetchWindow(userID uint, start, end time.Time) ([]models.Expense, []models.Income, error) {
	var expenses []models.Expense
	if err := h.DB.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Find(&expenses).Error; err != nil {
		return nil, nil, err
	}

	var incomes []models.Income
	if err := h.DB.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Find(&incomes).Error; err != nil {
		return nil, nil, err
	}
	return expenses, incomes, nil
}

// Monthly returns the caller's per-day net summary for one month.
func (h *RecapHandler) Monthly(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))
	start, end, err := service.MonthRange(month, year, h.Loc)
	if err != nil {
		util.Fail(c, err)
		return
	}

	expenses, incomes, err := h.fetchWindow(caller.UserID, start, end)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan ringkasan bulanan",
		service.SummarizeMonth(expenses, incomes, h.Loc))
}

// Yearly returns the caller's twelve month buckets for one year.
func (h *RecapHandler) Yearly(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	year, _ := strconv.Atoi(c.Query("year"))
	start, end, err := service.YearRange(year, h.Loc)
	if err != nil {
		util.Fail(c, err)
		return
	}

	expenses, incomes, err := h.fetchWindow(caller.UserID, start, end)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan ringkasan tahunan", gin.H{
		"year":            year,
		"summaryPerMonth": service.SummarizeYear(year, expenses, incomes, h.Loc),
	})
}

// UserInputs recaps every USER account's catalog and transactions for
// admin review.
func (h *RecapHandler) UserInputs(c *gin.Context) {
	var users []models.User
	if err := h.DB.Where("role = ?", models.RoleUser).
		Order("id ASC").
		Find(&users).Error; err != nil {
		util.Fail(c, err)
		return
	}

	recaps := make([]service.UserRecap, 0, len(users))
	for i := range users {
		user := &users[i]

		var items []models.Item
		if err := h.DB.Where("user_id = ?", user.ID).
			Order("id ASC").
			Find(&items).Error; err != nil {
			util.Fail(c, err)
			return
		}

		var expenses []models.Expense
		if err := h.DB.Preload("Item").
			Where("user_id = ?", user.ID).
			Find(&expenses).Error; err != nil {
			util.Fail(c, err)
			return
		}

		var incomes []models.Income
		if err := h.DB.Preload("Item").
			Where("user_id = ?", user.ID).
			Find(&incomes).Error; err != nil {
			util.Fail(c, err)
			return
		}

		recaps = append(recaps, service.BuildUserRecap(*user, items, expenses, incomes))
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan rekaptulasi pengguna", recaps)
}

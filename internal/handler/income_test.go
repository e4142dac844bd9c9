package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/exoream/sayur/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createIncome(t *testing.T, r *gin.Engine, token string, itemID uint) uint {
	t.Helper()

	body := gin.H{
		"itemId": itemID,
		"incomesDetails": []gin.H{
			{"buyerName": "Bu Ani", "quantityKg": 2, "pricePerKg": 8000},
			{"buyerName": "Pak Joko", "quantityKg": 1.5, "pricePerKg": 6000},
		},
	}
	w, env := doJSON(t, r, http.MethodPost, "/incomes", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Status)

	var resp struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp.ID
}

func TestIncomeCreate_Totals(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	user, token := seedUser(t, db, "a@example.com")
	item := seedItem(t, db, user.ID, "Kangkung", models.ItemTypeVegetable)

	incomeID := createIncome(t, r, token, item.ID)

	var income models.Income
	require.NoError(t, db.Preload("Details").First(&income, incomeID).Error)
	require.Equal(t, int64(25000), income.Total)
	require.Equal(t, 3.5, income.TotalQuantityKg)
	require.Len(t, income.Details, 2)
}

func TestIncomeCreate_RequiresDetails(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	user, token := seedUser(t, db, "a@example.com")
	item := seedItem(t, db, user.ID, "Kangkung", models.ItemTypeVegetable)

	body := gin.H{"itemId": item.ID}
	w, env := doJSON(t, r, http.MethodPost, "/incomes", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Status)
}

func TestIncomeCreate_UnknownItem(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	_, token := seedUser(t, db, "a@example.com")

	body := gin.H{
		"itemId": 999,
		"incomesDetails": []gin.H{
			{"buyerName": "Bu Ani", "quantityKg": 2, "pricePerKg": 8000},
		},
	}
	w, _ := doJSON(t, r, http.MethodPost, "/incomes", token, body)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestIncomeDetailByDate_EmptyIsSuccess(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	user, token := seedUser(t, db, "a@example.com")
	item := seedItem(t, db, user.ID, "Kangkung", models.ItemTypeVegetable)

	w, env := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/incomes/%d?date=2024-03-05", item.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Status)

	var data []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Empty(t, data)
}

func TestIncomeUpdateDetail_RecomputesParent(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	user, token := seedUser(t, db, "a@example.com")
	item := seedItem(t, db, user.ID, "Kangkung", models.ItemTypeVegetable)
	incomeID := createIncome(t, r, token, item.ID)

	var details []models.IncomeDetail
	require.NoError(t, db.Where("income_id = ?", incomeID).Order("id ASC").Find(&details).Error)
	require.Len(t, details, 2)

	// 2 kg -> 5 kg on the first line: 5*8000 + 9000 = 49000
	body := gin.H{"quantityKg": 5}
	w, env := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/incomes/detail/%d", details[0].ID), token, body)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Status)

	var income models.Income
	require.NoError(t, db.First(&income, incomeID).Error)
	require.Equal(t, int64(49000), income.Total)
	require.Equal(t, 6.5, income.TotalQuantityKg)
}

func TestIncomeUpdate_ReplacesDetails(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	user, token := seedUser(t, db, "a@example.com")
	item := seedItem(t, db, user.ID, "Kangkung", models.ItemTypeVegetable)
	incomeID := createIncome(t, r, token, item.ID)

	body := gin.H{
		"incomesDetails": []gin.H{
			{"buyerName": "Bu Rina", "quantityKg": 4, "pricePerKg": 7000},
		},
	}
	w, env := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/incomes/%d", incomeID), token, body)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Status)

	var income models.Income
	require.NoError(t, db.Preload("Details").First(&income, incomeID).Error)
	require.Equal(t, int64(28000), income.Total)
	require.Equal(t, float64(4), income.TotalQuantityKg)
	require.Len(t, income.Details, 1)
	require.Equal(t, "Bu Rina", income.Details[0].BuyerName)
}

func TestIncomeDeleteDetail_RecomputesParent(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	user, token := seedUser(t, db, "a@example.com")
	item := seedItem(t, db, user.ID, "Kangkung", models.ItemTypeVegetable)
	incomeID := createIncome(t, r, token, item.ID)

	var details []models.IncomeDetail
	require.NoError(t, db.Where("income_id = ?", incomeID).Order("id ASC").Find(&details).Error)

	w, _ := doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/incomes/detail/%d", details[0].ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var income models.Income
	require.NoError(t, db.First(&income, incomeID).Error)
	require.Equal(t, int64(9000), income.Total)
	require.Equal(t, 1.5, income.TotalQuantityKg)
}

func TestIncomeDelete_CascadesDetails(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	user, token := seedUser(t, db, "a@example.com")
	item := seedItem(t, db, user.ID, "Kangkung", models.ItemTypeVegetable)
	incomeID := createIncome(t, r, token, item.ID)

	w, _ := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/incomes/%d", incomeID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var income models.Income
	err := db.First(&income, incomeID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.IncomeDetail{}).
		Where("income_id = ?", incomeID).Count(&count).Error)
	require.Zero(t, count)
}

func TestIncome_CrossUserIsolation(t *testing.T) {
	db := newTestDB(t)
	r := newTestEngine(db)
	owner, ownerToken := seedUser(t, db, "owner@example.com")
	item := seedItem(t, db, owner.ID, "Kangkung", models.ItemTypeVegetable)
	incomeID := createIncome(t, r, ownerToken, item.ID)
	_, intruderToken := seedUser(t, db, "intruder@example.com")

	w, _ := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/incomes/detail/%d", incomeID), intruderToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/incomes/%d", incomeID), intruderToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

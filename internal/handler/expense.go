package handler

import (
	"fmt"
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

// ExpenseHandler serves purchase records and their farmer lines.
type ExpenseHandler struct {
	DB  *gorm.DB
	Loc *time.Location
}

func NewExpenseHandler(db *gorm.DB, loc *time.Location) *ExpenseHandler {
	return &ExpenseHandler{DB: db, Loc: loc}
}

// ---------- request/response shapes ----------

type vegetableDetailReq struct {
	FarmerName string  `json:"farmerName"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	QuantityKg float64 `json:"quantityKg"`
	PricePerKg int64   `json:"pricePerKg"`
	Note       *string `json:"note"`
}

type expenseReq struct {
	ItemID           uint                 `json:"itemId"`
	Type             string               `json:"type"`
	Total            *int64               `json:"total"`
	Note             *string              `json:"note"`
	VegetableDetails []vegetableDetailReq `json:"vegetableDetails"`
}

type updateExpenseDetailReq struct {
	FarmerName *string  `json:"farmerName"`
	Phone      *string  `json:"phone"`
	Address    *string  `json:"address"`
	QuantityKg *float64 `json:"quantityKg"`
	PricePerKg *int64   `json:"pricePerKg"`
	Note       *string  `json:"note"`
}

type expenseDetailResp struct {
	ID         uint    `json:"id"`
	FarmerName string  `json:"farmerName"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	QuantityKg float64 `json:"quantityKg"`
	PricePerKg int64   `json:"pricePerKg"`
	TotalPrice int64   `json:"totalPrice"`
	Note       *string `json:"note"`
}

type expenseResp struct {
	ID              uint                `json:"id"`
	ItemID          uint                `json:"itemId"`
	Type            string              `json:"type"`
	Total           int64               `json:"total"`
	TotalQuantityKg float64             `json:"totalQuantityKg"`
	Note            *string             `json:"note"`
	CreatedAt       time.Time           `json:"createdAt"`
	Details         []expenseDetailResp `json:"details"`
}

func toExpenseDetailResp(d *models.VegetableExpenseDetail) expenseDetailResp {
	return expenseDetailResp{
		ID:         d.ID,
		FarmerName: d.FarmerName,
		Phone:      d.Phone,
		Address:    d.Address,
		QuantityKg: d.QuantityKg,
		PricePerKg: d.PricePerKg,
		TotalPrice: d.TotalPrice,
		Note:       d.Note,
	}
}

func toExpenseResp(e *models.Expense) expenseResp {
	resp := expenseResp{
		ID:              e.ID,
		ItemID:          e.ItemID,
		Type:            e.Type,
		Total:           e.Total,
		TotalQuantityKg: e.TotalQuantityKg,
		Note:            e.Note,
		CreatedAt:       e.CreatedAt,
		Details:         make([]expenseDetailResp, 0, len(e.Details)),
	}
	for i := range e.Details {
		resp.Details = append(resp.Details, toExpenseDetailResp(&e.Details[i]))
	}
	return resp
}

// ---------- validation ----------

func validateVegetableDetail(d *vegetableDetailReq) error {
	if err := util.ValidatePersonName("nama petani", d.FarmerName); err != nil {
		return util.ErrValidation(err.Error())
	}
	if d.Phone != nil {
		if err := util.ValidatePhone(*d.Phone); err != nil {
			return util.ErrValidation(err.Error())
		}
	}
	if d.Address != nil {
		if err := util.ValidateAddress(*d.Address); err != nil {
			return util.ErrValidation(err.Error())
		}
	}
	if err := util.ValidateQuantityKg(d.QuantityKg); err != nil {
		return util.ErrValidation(err.Error())
	}
	if err := util.ValidatePricePerKg(d.PricePerKg); err != nil {
		return util.ErrValidation(err.Error())
	}
	if d.Note != nil {
		if err := util.ValidateNote(*d.Note); err != nil {
			return util.ErrValidation(err.Error())
		}
	}
	return nil
}

// validateExpenseReq enforces the per-type rules: VEGETABLE needs lines,
// OTHER needs a direct total and a mandatory note.
func validateExpenseReq(req *expenseReq) error {
	if req.ItemID == 0 {
		return util.ErrValidation("Item ID wajib diisi")
	}
	switch req.Type {
	case models.ItemTypeVegetable:
		if len(req.VegetableDetails) == 0 {
			return util.ErrValidation("vegetableDetails wajib diisi untuk tipe VEGETABLE")
		}
		for i := range req.VegetableDetails {
			if err := validateVegetableDetail(&req.VegetableDetails[i]); err != nil {
				return err
			}
		}
	case models.ItemTypeOther:
		if req.Total == nil || *req.Total <= 0 {
			return util.ErrValidation("Total wajib diisi untuk tipe OTHER")
		}
		if req.Note == nil {
			return util.ErrValidation("Catatan wajib diisi untuk tipe OTHER")
		}
		if err := util.ValidateNote(*req.Note); err != nil {
			return util.ErrValidation(err.Error())
		}
	default:
		return util.ErrValidation("Tipe item harus VEGETABLE atau OTHER")
	}
	return nil
}

func buildExpenseDetails(reqs []vegetableDetailReq) []models.VegetableExpenseDetail {
	details := make([]models.VegetableExpenseDetail, 0, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		details = append(details, models.VegetableExpenseDetail{
			FarmerName: r.FarmerName,
			Phone:      r.Phone,
			Address:    r.Address,
			QuantityKg: r.QuantityKg,
			PricePerKg: r.PricePerKg,
			TotalPrice: service.LineTotal(r.QuantityKg, r.PricePerKg),
			Note:       r.Note,
		})
	}
	return details
}

// recalcExpenseTotals refreshes the parent totals from a full aggregate over
// its current lines, zero when none remain.
func recalcExpenseTotals(tx *gorm.DB, expenseID uint) error {
	var sums struct {
		Total      int64
		QuantityKg float64
	}
	if err := tx.Model(&models.VegetableExpenseDetail{}).
		Select("COALESCE(SUM(total_price), 0) AS total, COALESCE(SUM(quantity_kg), 0) AS quantity_kg").
		Where("expense_id = ?", expenseID).
		Scan(&sums).Error; err != nil {
		return err
	}
	return tx.Model(&models.Expense{}).
		Where("id = ?", expenseID).
		Updates(map[string]interface{}{
			"total":             sums.Total,
			"total_quantity_kg": sums.QuantityKg,
		}).Error
}

func (h *ExpenseHandler) findOwnedItem(itemID, userID uint) (*models.Item, error) {
	var item models.Item
	err := h.DB.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNotFound("Item tidak ditemukan atau bukan milik Anda")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ---------- handlers ----------

// Create persists an expense and its farmer lines as one transaction.
func (h *ExpenseHandler) Create(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}
	if err := validateExpenseReq(&req); err != nil {
		util.Fail(c, err)
		return
	}

	item, err := h.findOwnedItem(req.ItemID, caller.UserID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if item.Type != req.Type {
		util.Fail(c, util.ErrValidation(fmt.Sprintf(
			"Tipe item '%s' tidak sesuai dengan tipe pengeluaran '%s'", item.Type, req.Type)))
		return
	}

	expense := models.Expense{
		UserID: caller.UserID,
		ItemID: req.ItemID,
		Type:   req.Type,
		Note:   req.Note,
	}

	var details []models.VegetableExpenseDetail
	if req.Type == models.ItemTypeVegetable {
		details = buildExpenseDetails(req.VegetableDetails)
		expense.Total, expense.TotalQuantityKg = service.SumExpenseDetails(details)
	} else {
		expense.Total = *req.Total
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].ExpenseID = expense.ID
		}
		if len(details) > 0 {
			if err := tx.Create(&details).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	expense.Details = details
	util.Success(c, http.StatusCreated, "Berhasil membuat pengeluaran", toExpenseResp(&expense))
}

// ByDate returns the caller's expenses for one calendar day, grouped per
// (item, type).
func (h *ExpenseHandler) ByDate(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	start, end, err := service.DayRange(c.Query("date"), h.Loc)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var expenses []models.Expense
	if err := h.DB.Preload("Item").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", caller.UserID, start, end).
		Find(&expenses).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan semua pengeluaran",
		service.GroupExpensesByItem(expenses))
}

// DetailByDateAndItem merges one item's expenses for a single day into one
// record with flattened lines.
func (h *ExpenseHandler) DetailByDateAndItem(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || itemID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter itemId harus berupa angka"))
		return
	}

	dateStr := c.Query("date")
	start, end, err := service.DayRange(dateStr, h.Loc)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var expenses []models.Expense
	if err := h.DB.Preload("Item").Preload("Details").
		Where("user_id = ? AND item_id = ? AND created_at >= ? AND created_at < ?",
			caller.UserID, itemID, start, end).
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		util.Fail(c, err)
		return
	}

	if len(expenses) == 0 {
		util.Fail(c, util.ErrNotFound(fmt.Sprintf(
			"Tidak ada data pengeluaran untuk itemId %d pada tanggal %s", itemID, dateStr)))
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan pengeluaran",
		service.MergeExpenseDay(expenses))
}

// AllByItem lists every expense of one item, newest first.
func (h *ExpenseHandler) AllByItem(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || itemID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter itemId tidak valid"))
		return
	}

	var expenses []models.Expense
	if err := h.DB.Preload("Item").Preload("Details").
		Where("user_id = ? AND item_id = ?", caller.UserID, itemID).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		util.Fail(c, err)
		return
	}

	if len(expenses) == 0 {
		util.Fail(c, util.ErrNotFound(fmt.Sprintf(
			"Tidak ada data pengeluaran untuk itemId %d", itemID)))
		return
	}

	items := make([]expenseResp, 0, len(expenses))
	for i := range expenses {
		items = append(items, toExpenseResp(&expenses[i]))
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan semua pengeluaran", gin.H{
		"itemId":   itemID,
		"itemName": expenses[0].Item.Name,
		"itemType": expenses[0].Item.Type,
		"items":    items,
	})
}

// DetailByID returns a single expense with its lines.
func (h *ExpenseHandler) DetailByID(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	expenseID, err := strconv.Atoi(c.Param("expenseId"))
	if err != nil || expenseID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter expenseId tidak valid"))
		return
	}

	var expense models.Expense
	if err := h.DB.Preload("Item").Preload("Details").
		Where("id = ? AND user_id = ?", expenseID, caller.UserID).
		First(&expense).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound("Data pengeluaran tidak ditemukan"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	resp := toExpenseResp(&expense)
	util.Success(c, http.StatusOK, "Berhasil mendapatkan detail pengeluaran", gin.H{
		"id":              resp.ID,
		"itemId":          resp.ItemID,
		"itemName":        expense.Item.Name,
		"itemType":        expense.Item.Type,
		"type":            resp.Type,
		"totalQuantityKg": resp.TotalQuantityKg,
		"totalPrice":      resp.Total,
		"note":            resp.Note,
		"details":         resp.Details,
	})
}

// Update is the full-record update: the existing lines are replaced by the
// submitted set and the totals recomputed, all in one transaction.
func (h *ExpenseHandler) Update(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	expenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || expenseID <= 0 {
		util.Fail(c, util.ErrValidation("ID pengeluaran tidak valid"))
		return
	}

	var expense models.Expense
	if err := h.DB.Where("id = ? AND user_id = ?", expenseID, caller.UserID).
		First(&expense).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound("Pengeluaran tidak ditemukan"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}
	if req.ItemID == 0 {
		req.ItemID = expense.ItemID
	}
	if req.Type == "" {
		req.Type = expense.Type
	}
	if err := validateExpenseReq(&req); err != nil {
		util.Fail(c, err)
		return
	}

	// Ownership of a changed item reference is re-checked; the item/type
	// match is only validated at creation time.
	if req.ItemID != expense.ItemID {
		if _, err := h.findOwnedItem(req.ItemID, caller.UserID); err != nil {
			util.Fail(c, err)
			return
		}
	}

	expense.ItemID = req.ItemID
	expense.Type = req.Type
	expense.Note = req.Note

	var details []models.VegetableExpenseDetail
	if req.Type == models.ItemTypeVegetable {
		details = buildExpenseDetails(req.VegetableDetails)
		expense.Total, expense.TotalQuantityKg = service.SumExpenseDetails(details)
	} else {
		expense.Total = *req.Total
		expense.TotalQuantityKg = 0
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).
			Delete(&models.VegetableExpenseDetail{}).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].ExpenseID = expense.ID
		}
		if len(details) > 0 {
			if err := tx.Create(&details).Error; err != nil {
				return err
			}
		}
		return tx.Save(&expense).Error
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	expense.Details = details
	util.Success(c, http.StatusOK, "Berhasil memperbarui pengeluaran", toExpenseResp(&expense))
}

// UpdateDetail merges partial fields onto one farmer line, recomputes its
// total and re-aggregates the parent.
func (h *ExpenseHandler) UpdateDetail(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	detailID, err := strconv.Atoi(c.Param("expenseDetailId"))
	if err != nil || detailID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter expenseDetailId tidak valid"))
		return
	}

	var req updateExpenseDetailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}

	var detail models.VegetableExpenseDetail
	if err := h.DB.
		Joins("JOIN expenses ON expenses.id = vegetable_expense_details.expense_id").
		Where("vegetable_expense_details.id = ? AND expenses.user_id = ?", detailID, caller.UserID).
		First(&detail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Detail pengeluaran dengan id %d tidak ditemukan", detailID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	// merge: absent fields keep their prior value
	if req.FarmerName != nil {
		if err := util.ValidatePersonName("nama petani", *req.FarmerName); err != nil {
			util.Fail(c, util.ErrValidation(err.Error()))
			return
		}
		detail.FarmerName = *req.FarmerName
	}
	if req.QuantityKg != nil {
		if err := util.ValidateQuantityKg(*req.QuantityKg); err != nil {
			util.Fail(c, util.ErrValidation(err.Error()))
			return
		}
		detail.QuantityKg = *req.QuantityKg
	}
	if req.PricePerKg != nil {
		if err := util.ValidatePricePerKg(*req.PricePerKg); err != nil {
			util.Fail(c, util.ErrValidation(err.Error()))
			return
		}
		detail.PricePerKg = *req.PricePerKg
	}
	if req.Phone != nil {
		if err := util.ValidatePhone(*req.Phone); err != nil {
			util.Fail(c, util.ErrValidation(err.Error()))
			return
		}
		detail.Phone = req.Phone
	}
	if req.Address != nil {
		if err := util.ValidateAddress(*req.Address); err != nil {
			util.Fail(c, util.ErrValidation(err.Error()))
			return
		}
		detail.Address = req.Address
	}
	if req.Note != nil {
		if err := util.ValidateNote(*req.Note); err != nil {
			util.Fail(c, util.ErrValidation(err.Error()))
			return
		}
		detail.Note = req.Note
	}
	detail.TotalPrice = service.LineTotal(detail.QuantityKg, detail.PricePerKg)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&detail).Error; err != nil {
			return err
		}
		return recalcExpenseTotals(tx, detail.ExpenseID)
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil memperbarui pengeluaran", toExpenseDetailResp(&detail))
}

// DeleteDetail removes one farmer line and re-aggregates the parent totals.
func (h *ExpenseHandler) DeleteDetail(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	detailID, err := strconv.Atoi(c.Param("expenseDetailId"))
	if err != nil || detailID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter expenseDetailId tidak valid"))
		return
	}

	var detail models.VegetableExpenseDetail
	if err := h.DB.
		Joins("JOIN expenses ON expenses.id = vegetable_expense_details.expense_id").
		Where("vegetable_expense_details.id = ? AND expenses.user_id = ?", detailID, caller.UserID).
		First(&detail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Detail pengeluaran dengan id %d tidak ditemukan", detailID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.VegetableExpenseDetail{}, detail.ID).Error; err != nil {
			return err
		}
		return recalcExpenseTotals(tx, detail.ExpenseID)
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil menghapus detail pengeluaran", nil)
}

// Delete removes an expense together with all of its lines.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	expenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || expenseID <= 0 {
		util.Fail(c, util.ErrValidation("ID pengeluaran tidak valid"))
		return
	}

	var expense models.Expense
	if err := h.DB.Where("id = ? AND user_id = ?", expenseID, caller.UserID).
		First(&expense).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound("Pengeluaran tidak ditemukan"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).
			Delete(&models.VegetableExpenseDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Expense{}, expense.ID).Error
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil menghapus pengeluaran", nil)
}

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

// IncomeHandler serves sale records and their buyer lines.
type IncomeHandler struct {
	DB  *gorm.DB
	Loc *time.Location
}

func NewIncomeHandler(db *gorm.DB, loc *time.Location) *IncomeHandler {
	return &IncomeHandler{DB: db, Loc: loc}
}

// ---------- request/response shapes ----------

type incomeDetailReq struct {
	BuyerName  string  `json:"buyerName"`
	QuantityKg float64 `json:"quantityKg"`
	PricePerKg int64   `json:"pricePerKg"`
	Note       *string `json:"note"`
}

type incomeReq struct {
	ItemID         uint              `json:"itemId"`
	Note           *string           `json:"note"`
	IncomesDetails []incomeDetailReq `json:"incomesDetails"`
}

type updateIncomeDetailReq struct {
	BuyerName  *string  `json:"buyerName"`
	QuantityKg *float64 `json:"quantityKg"`
	PricePerKg *int64   `json:"pricePerKg"`
	Note       *string  `json:"note"`
}

type incomeDetailResp struct {
	ID         uint    `json:"id"`
	BuyerName  string  `json:"buyerName"`
	QuantityKg float64 `json:"quantityKg"`
	PricePerKg int64   `json:"pricePerKg"`
	TotalPrice int64   `json:"totalPrice"`
	Note       *string `json:"note"`
}

type incomeResp struct {
	ID              uint               `json:"id"`
	ItemID          uint               `json:"itemId"`
	Total           int64              `json:"totalPrice"`
	TotalQuantityKg float64            `json:"totalQuantityKg"`
	Note            *string            `json:"note"`
	CreatedAt       time.Time          `json:"createdAt"`
	IncomeDetails   []incomeDetailResp `json:"incomeDetails"`
}

func toIncomeDetailResp(d *models.IncomeDetail) incomeDetailResp {
	return incomeDetailResp{
		ID:         d.ID,
		BuyerName:  d.BuyerName,
		QuantityKg: d.QuantityKg,
		PricePerKg: d.PricePerKg,
		TotalPrice: d.TotalPrice,
		Note:       d.Note,
	}
}

func toIncomeResp(in *models.Income) incomeResp {
	resp := incomeResp{
		ID:              in.ID,
		ItemID:          in.ItemID,
		Total:           in.Total,
		TotalQuantityKg: in.TotalQuantityKg,
		Note:            in.Note,
		CreatedAt:       in.CreatedAt,
		IncomeDetails:   make([]incomeDetailResp, 0, len(in.Details)),
	}
	for i := range in.Details {
		resp.IncomeDetails = append(resp.IncomeDetails, toIncomeDetailResp(&in.Details[i]))
	}
	return resp
}

// ---------- validation ----------

func validateIncomeDetail(d *incomeDetailReq) error {
	if err := util.ValidatePersonName("nama pembeli", d.BuyerName); err != nil {
		return util.ErrValidation(err.Error())
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

func buildIncomeDetails(reqs []incomeDetailReq) []models.IncomeDetail {
	details := make([]models.IncomeDetail, 0, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		details = append(details, models.IncomeDetail{
			BuyerName:  r.BuyerName,
			QuantityKg: r.QuantityKg,
			PricePerKg: r.PricePerKg,
			TotalPrice: service.LineTotal(r.QuantityKg, r.PricePerKg),
			Note:       r.Note,
		})
	}
	return details
}

func recalcIncomeTotals(tx *gorm.DB, incomeID uint) error {
	var sums struct {
		Total      int64
		QuantityKg float64
	}
	if err := tx.Model(&models.IncomeDetail{}).
		Select("COALESCE(SUM(total_price), 0) AS total, COALESCE(SUM(quantity_kg), 0) AS quantity_kg").
		Where("income_id = ?", incomeID).
		Scan(&sums).Error; err != nil {
		return err
	}
	return tx.Model(&models.Income{}).
		Where("id = ?", incomeID).
		Updates(map[string]interface{}{
			"total":             sums.Total,
			"total_quantity_kg": sums.QuantityKg,
		}).Error
}

// ---------- handlers ----------

// Create persists an income and its buyer lines as one transaction.
// Incomes always carry at least one line.
func (h *IncomeHandler) Create(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	var req incomeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}
	if len(req.IncomesDetails) == 0 {
		util.Fail(c, util.ErrValidation("incomesDetails wajib berupa array dan tidak boleh kosong"))
		return
	}
	for i := range req.IncomesDetails {
		if err := validateIncomeDetail(&req.IncomesDetails[i]); err != nil {
			util.Fail(c, err)
			return
		}
	}

	var item models.Item
	if err := h.DB.Where("id = ? AND user_id = ?", req.ItemID, caller.UserID).
		First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound("Item tidak ditemukan"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	details := buildIncomeDetails(req.IncomesDetails)
	income := models.Income{
		UserID: caller.UserID,
		ItemID: req.ItemID,
		Note:   req.Note,
	}
	income.Total, income.TotalQuantityKg = service.SumIncomeDetails(details)

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&income).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].IncomeID = income.ID
		}
		return tx.Create(&details).Error
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	income.Details = details
	util.Success(c, http.StatusCreated, "Berhasil membuat pemasukan", toIncomeResp(&income))
}

// ByDate returns the caller's incomes for one calendar day, grouped per item.
func (h *IncomeHandler) ByDate(c *gin.Context) {
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

	var incomes []models.Income
	if err := h.DB.Preload("Item").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", caller.UserID, start, end).
		Find(&incomes).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan semua pemasukan",
		service.GroupIncomesByItem(incomes))
}

// DetailByDateAndItem merges one item's incomes for a single day. A day
// without rows is an empty success payload, not an error.
func (h *IncomeHandler) DetailByDateAndItem(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil || itemID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter itemId wajib diisi"))
		return
	}

	dateStr := c.Query("date")
	start, end, err := service.DayRange(dateStr, h.Loc)
	if err != nil {
		util.Fail(c, err)
		return
	}

	var incomes []models.Income
	if err := h.DB.Preload("Item").Preload("Details").
		Where("user_id = ? AND item_id = ? AND created_at >= ? AND created_at < ?",
			caller.UserID, itemID, start, end).
		Order("created_at ASC").
		Find(&incomes).Error; err != nil {
		util.Fail(c, err)
		return
	}

	if len(incomes) == 0 {
		util.Success(c, http.StatusOK, fmt.Sprintf(
			"Tidak ada income dengan itemId %d pada tanggal %s", itemID, dateStr), []gin.H{})
		return
	}

	var totalQuantityKg float64
	var totalPrice int64
	list := make([]incomeResp, 0, len(incomes))
	for i := range incomes {
		totalQuantityKg += incomes[i].TotalQuantityKg
		totalPrice += incomes[i].Total
		list = append(list, toIncomeResp(&incomes[i]))
	}

	util.Success(c, http.StatusOK, fmt.Sprintf(
		"Detail income untuk itemId %d pada tanggal %s", itemID, dateStr), gin.H{
		"itemId":          itemID,
		"itemName":        incomes[0].Item.Name,
		"itemType":        incomes[0].Item.Type,
		"totalQuantityKg": totalQuantityKg,
		"totalPrice":      totalPrice,
		"incomes":         list,
	})
}

// AllByItem lists every income of one item, newest first.
func (h *IncomeHandler) AllByItem(c *gin.Context) {
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

	var incomes []models.Income
	if err := h.DB.Preload("Item").Preload("Details").
		Where("user_id = ? AND item_id = ?", caller.UserID, itemID).
		Order("created_at DESC").
		Find(&incomes).Error; err != nil {
		util.Fail(c, err)
		return
	}

	if len(incomes) == 0 {
		util.Success(c, http.StatusOK, "Belum ada data income", []gin.H{})
		return
	}

	list := make([]incomeResp, 0, len(incomes))
	for i := range incomes {
		list = append(list, toIncomeResp(&incomes[i]))
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan semua pemasukan", list)
}

// DetailByID returns a single income with its lines.
func (h *IncomeHandler) DetailByID(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	incomeID, err := strconv.Atoi(c.Param("incomeId"))
	if err != nil || incomeID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter incomeId wajib diisi"))
		return
	}

	var income models.Income
	if err := h.DB.Preload("Item").Preload("Details").
		Where("id = ? AND user_id = ?", incomeID, caller.UserID).
		First(&income).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Income dengan id %d tidak ditemukan", incomeID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	resp := toIncomeResp(&income)
	util.Success(c, http.StatusOK, "Berhasil mendapatkan detail pemasukan", gin.H{
		"id":              resp.ID,
		"itemId":          resp.ItemID,
		"itemName":        income.Item.Name,
		"itemType":        income.Item.Type,
		"totalQuantityKg": resp.TotalQuantityKg,
		"totalPrice":      resp.Total,
		"note":            resp.Note,
		"incomeDetails":   resp.IncomeDetails,
	})
}

// Update is the full-record update: the existing lines are replaced by the
// submitted set and the totals recomputed, all in one transaction.
func (h *IncomeHandler) Update(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	incomeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || incomeID <= 0 {
		util.Fail(c, util.ErrValidation("ID pemasukan tidak valid"))
		return
	}

	var income models.Income
	if err := h.DB.Where("id = ? AND user_id = ?", incomeID, caller.UserID).
		First(&income).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Income dengan id %d tidak ditemukan atau bukan milik Anda", incomeID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	var req incomeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}
	if len(req.IncomesDetails) == 0 {
		util.Fail(c, util.ErrValidation("incomesDetails wajib berupa array dan tidak boleh kosong"))
		return
	}
	for i := range req.IncomesDetails {
		if err := validateIncomeDetail(&req.IncomesDetails[i]); err != nil {
			util.Fail(c, err)
			return
		}
	}

	if req.ItemID != 0 && req.ItemID != income.ItemID {
		var item models.Item
		if err := h.DB.Where("id = ? AND user_id = ?", req.ItemID, caller.UserID).
			First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Fail(c, util.ErrNotFound("Item tidak ditemukan"))
			} else {
				util.Fail(c, err)
			}
			return
		}
		income.ItemID = req.ItemID
	}

	details := buildIncomeDetails(req.IncomesDetails)
	income.Note = req.Note
	income.Total, income.TotalQuantityKg = service.SumIncomeDetails(details)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("income_id = ?", income.ID).
			Delete(&models.IncomeDetail{}).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].IncomeID = income.ID
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		return tx.Save(&income).Error
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	income.Details = details
	util.Success(c, http.StatusOK, "Berhasil memperbarui pemasukan", toIncomeResp(&income))
}

// UpdateDetail merges partial fields onto one buyer line, recomputes its
// total and re-aggregates the parent.
func (h *IncomeHandler) UpdateDetail(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	detailID, err := strconv.Atoi(c.Param("incomeDetailId"))
	if err != nil || detailID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter incomeDetailId wajib diisi"))
		return
	}

	var req updateIncomeDetailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}

	var detail models.IncomeDetail
	if err := h.DB.
		Joins("JOIN incomes ON incomes.id = income_details.income_id").
		Where("income_details.id = ? AND incomes.user_id = ?", detailID, caller.UserID).
		First(&detail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"IncomeDetail dengan id %d tidak ditemukan atau bukan milik Anda", detailID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	if req.BuyerName != nil {
		if err := util.ValidatePersonName("nama pembeli", *req.BuyerName); err != nil {
			util.Fail(c, util.ErrValidation(err.Error()))
			return
		}
		detail.BuyerName = *req.BuyerName
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
		return recalcIncomeTotals(tx, detail.IncomeID)
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil memperbarui pemasukan", toIncomeDetailResp(&detail))
}

// DeleteDetail removes one buyer line and re-aggregates the parent totals.
func (h *IncomeHandler) DeleteDetail(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	detailID, err := strconv.Atoi(c.Param("incomeDetailId"))
	if err != nil || detailID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter incomeDetailId wajib diisi"))
		return
	}

	var detail models.IncomeDetail
	if err := h.DB.
		Joins("JOIN incomes ON incomes.id = income_details.income_id").
		Where("income_details.id = ? AND incomes.user_id = ?", detailID, caller.UserID).
		First(&detail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"IncomeDetail dengan id %d tidak ditemukan atau bukan milik Anda", detailID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.IncomeDetail{}, detail.ID).Error; err != nil {
			return err
		}
		return recalcIncomeTotals(tx, detail.IncomeID)
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil menghapus detail pemasukan", nil)
}

// Delete removes an income together with all of its lines.
func (h *IncomeHandler) Delete(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	incomeID, err := strconv.Atoi(c.Param("incomeId"))
	if err != nil || incomeID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter incomeId wajib diisi"))
		return
	}

	var income models.Income
	if err := h.DB.Where("id = ? AND user_id = ?", incomeID, caller.UserID).
		First(&income).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Income dengan id %d tidak ditemukan atau bukan milik Anda", incomeID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("income_id = ?", income.ID).
			Delete(&models.IncomeDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Income{}, income.ID).Error
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil menghapus pemasukan", nil)
}

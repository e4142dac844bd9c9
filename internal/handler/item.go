package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/exoream/sayur/internal/middleware"
	"github.com/exoream/sayur/internal/models"
	"github.com/exoream/sayur/internal/storage"
	"github.com/exoream/sayur/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ItemHandler serves the per-user item catalog.
type ItemHandler struct {
	DB       *gorm.DB
	Uploader storage.Uploader
}

func NewItemHandler(db *gorm.DB, uploader storage.Uploader) *ItemHandler {
	return &ItemHandler{DB: db, Uploader: uploader}
}

type itemResp struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Photo string `json:"photo"`
}

func toItemResp(item *models.Item) itemResp {
	return itemResp{
		ID:    item.ID,
		Name:  item.Name,
		Type:  item.Type,
		Photo: item.Photo,
	}
}

func validateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return util.ErrValidation("Nama item wajib diisi")
	}
	if len(name) > 30 {
		return util.ErrValidation("Nama item maksimal 30 karakter")
	}
	if strings.ContainsAny(name, "0123456789") {
		return util.ErrValidation("Nama item tidak boleh mengandung angka")
	}
	return nil
}

func validateItemType(itemType string) error {
	if itemType != models.ItemTypeVegetable && itemType != models.ItemTypeOther {
		return util.ErrValidation("Tipe item harus VEGETABLE atau OTHER")
	}
	return nil
}

// Create registers a new item from a multipart form. Names are unique per
// user; the photo is optional.
func (h *ItemHandler) Create(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	name := c.PostForm("name")
	itemType := c.PostForm("type")
	if err := validateItemName(name); err != nil {
		util.Fail(c, err)
		return
	}
	if err := validateItemType(itemType); err != nil {
		util.Fail(c, err)
		return
	}

	var count int64
	if err := h.DB.Model(&models.Item{}).
		Where("user_id = ? AND name = ?", caller.UserID, name).
		Count(&count).Error; err != nil {
		util.Fail(c, err)
		return
	}
	if count > 0 {
		util.Fail(c, util.ErrValidation("Item dengan nama ini sudah ada"))
		return
	}

	item := models.Item{
		UserID: caller.UserID,
		Name:   name,
		Type:   itemType,
	}

	if file, err := c.FormFile("photo"); err == nil {
		if err := validatePhotoUpload(file, maxItemPhotoBytes); err != nil {
			util.Fail(c, err)
			return
		}
		url, err := h.Uploader.Upload(file, "items")
		if err != nil {
			util.Fail(c, util.ErrUpload("Gagal mengunggah foto"))
			return
		}
		item.Photo = url
	}

	if err := h.DB.Create(&item).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusCreated, "Berhasil membuat item", toItemResp(&item))
}

// List returns the caller's items split by type.
func (h *ItemHandler) List(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	var items []models.Item
	if err := h.DB.Where("user_id = ?", caller.UserID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		util.Fail(c, err)
		return
	}

	vegetables := make([]itemResp, 0)
	others := make([]itemResp, 0)
	for i := range items {
		resp := toItemResp(&items[i])
		if items[i].Type == models.ItemTypeVegetable {
			vegetables = append(vegetables, resp)
		} else {
			others = append(others, resp)
		}
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan semua item", gin.H{
		"vegetables": vegetables,
		"others":     others,
	})
}

// Update changes an item's name, type or photo via multipart form.
func (h *ItemHandler) Update(c *gin.Context) {
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

	var item models.Item
	if err := h.DB.Where("id = ? AND user_id = ?", itemID, caller.UserID).
		First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Item dengan id %d tidak ditemukan atau bukan milik Anda", itemID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	if name := c.PostForm("name"); name != "" {
		if err := validateItemName(name); err != nil {
			util.Fail(c, err)
			return
		}
		if name != item.Name {
			var count int64
			if err := h.DB.Model(&models.Item{}).
				Where("user_id = ? AND name = ? AND id <> ?", caller.UserID, name, item.ID).
				Count(&count).Error; err != nil {
				util.Fail(c, err)
				return
			}
			if count > 0 {
				util.Fail(c, util.ErrValidation("Item dengan nama ini sudah ada"))
				return
			}
		}
		item.Name = name
	}

	if itemType := c.PostForm("type"); itemType != "" {
		if err := validateItemType(itemType); err != nil {
			util.Fail(c, err)
			return
		}
		item.Type = itemType
	}

	if file, err := c.FormFile("photo"); err == nil {
		if err := validatePhotoUpload(file, maxItemPhotoBytes); err != nil {
			util.Fail(c, err)
			return
		}
		url, err := h.Uploader.Upload(file, "items")
		if err != nil {
			util.Fail(c, util.ErrUpload("Gagal mengunggah foto"))
			return
		}
		item.Photo = url
	}

	if err := h.DB.Save(&item).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil memperbarui item", toItemResp(&item))
}

// Delete removes an item owned by the caller.
func (h *ItemHandler) Delete(c *gin.Context) {
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

	var item models.Item
	if err := h.DB.Where("id = ? AND user_id = ?", itemID, caller.UserID).
		First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Item dengan id %d tidak ditemukan atau bukan milik Anda", itemID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil menghapus item", nil)
}

package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/exoream/sayur/internal/models"
	"github.com/exoream/sayur/internal/storage"
	"github.com/exoream/sayur/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LovHandler serves the shared list-of-values item catalog. Reads are open
// to every signed-in user; mutations are admin only.
type LovHandler struct {
	DB       *gorm.DB
	Uploader storage.Uploader
}

func NewLovHandler(db *gorm.DB, uploader storage.Uploader) *LovHandler {
	return &LovHandler{DB: db, Uploader: uploader}
}

type lovItemResp struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Photo string `json:"photo"`
}

func toLovItemResp(item *models.LovItem) lovItemResp {
	return lovItemResp{
		ID:    item.ID,
		Name:  item.Name,
		Type:  item.Type,
		Photo: item.Photo,
	}
}

// Create registers a catalog item. The photo is required here, unlike
// user-owned items.
func (h *LovHandler) Create(c *gin.Context) {
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

	file, err := c.FormFile("photo")
	if err != nil {
		util.Fail(c, util.ErrValidation("Foto wajib diunggah"))
		return
	}
	if err := validatePhotoUpload(file, maxLovPhotoBytes); err != nil {
		util.Fail(c, err)
		return
	}

	var count int64
	if err := h.DB.Model(&models.LovItem{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		util.Fail(c, err)
		return
	}
	if count > 0 {
		util.Fail(c, util.ErrValidation("Item dengan nama ini sudah ada"))
		return
	}

	url, err := h.Uploader.Upload(file, "lov")
	if err != nil {
		util.Fail(c, util.ErrUpload("Gagal mengunggah foto"))
		return
	}

	item := models.LovItem{
		Name:  name,
		Type:  itemType,
		Photo: url,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusCreated, "Berhasil membuat item LOV", toLovItemResp(&item))
}

// List returns the whole catalog, newest first.
func (h *LovHandler) List(c *gin.Context) {
	var items []models.LovItem
	if err := h.DB.Order("created_at DESC").Find(&items).Error; err != nil {
		util.Fail(c, err)
		return
	}

	list := make([]lovItemResp, 0, len(items))
	for i := range items {
		list = append(list, toLovItemResp(&items[i]))
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan semua item LOV", list)
}

// GetByID returns a single catalog item.
func (h *LovHandler) GetByID(c *gin.Context) {
	lovID, err := strconv.Atoi(c.Param("lovId"))
	if err != nil || lovID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter lovId tidak valid"))
		return
	}

	var item models.LovItem
	if err := h.DB.First(&item, lovID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound("LovItem tidak ditemukan"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan item LOV", toLovItemResp(&item))
}

// Update changes a catalog item's name, type or photo.
func (h *LovHandler) Update(c *gin.Context) {
	lovID, err := strconv.Atoi(c.Param("lovId"))
	if err != nil || lovID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter lovId tidak valid"))
		return
	}

	var item models.LovItem
	if err := h.DB.First(&item, lovID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Item LOV dengan id %d tidak ditemukan", lovID)))
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
		if err := validatePhotoUpload(file, maxLovPhotoBytes); err != nil {
			util.Fail(c, err)
			return
		}
		url, err := h.Uploader.Upload(file, "lov")
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

	util.Success(c, http.StatusOK, "Berhasil memperbarui item LOV", toLovItemResp(&item))
}

// Delete removes a catalog item.
func (h *LovHandler) Delete(c *gin.Context) {
	lovID, err := strconv.Atoi(c.Param("lovId"))
	if err != nil || lovID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter lovId tidak valid"))
		return
	}

	var item models.LovItem
	if err := h.DB.First(&item, lovID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Item LOV dengan id %d tidak ditemukan", lovID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil menghapus item LOV", nil)
}

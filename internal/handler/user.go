package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/exoream/sayur/internal/middleware"
	"github.com/exoream/sayur/internal/models"
	"github.com/exoream/sayur/internal/storage"
	"github.com/exoream/sayur/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler serves registration, login and profile management.
type UserHandler struct {
	DB        *gorm.DB
	Uploader  storage.Uploader
	JWTSecret string
	JWTTTL    time.Duration
}

func NewUserHandler(db *gorm.DB, uploader storage.Uploader, jwtSecret string, jwtTTL time.Duration) *UserHandler {
	return &UserHandler{DB: db, Uploader: uploader, JWTSecret: jwtSecret, JWTTTL: jwtTTL}
}

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z ]+$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type userResp struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Photo string `json:"photo"`
}

func toUserResp(u *models.User) userResp {
	return userResp{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Photo: u.Photo,
	}
}

func validateUserName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 50 {
		return util.ErrValidation("Nama harus 2 sampai 50 karakter")
	}
	if !nameRe.MatchString(name) {
		return util.ErrValidation("Nama hanya boleh berisi huruf dan spasi")
	}
	return nil
}

// Register creates a USER account with a bcrypt-hashed password.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}

	if err := validateUserName(req.Name); err != nil {
		util.Fail(c, err)
		return
	}
	if !emailRe.MatchString(req.Email) {
		util.Fail(c, util.ErrValidation("Format email tidak valid"))
		return
	}
	if len(req.Password) < 8 {
		util.Fail(c, util.ErrValidation("Password minimal 8 karakter"))
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ?", req.Email).Count(&count).Error; err != nil {
		util.Fail(c, err)
		return
	}
	if count > 0 {
		util.Fail(c, util.ErrValidation("Email sudah terdaftar"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		util.Fail(c, err)
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusCreated, "Registrasi berhasil", toUserResp(&user))
}

// Login verifies credentials and issues a signed token carrying the role.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}
	if req.Email == "" || req.Password == "" {
		util.Fail(c, util.ErrValidation("Email dan password wajib diisi"))
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrValidation("Email atau password salah"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		util.Fail(c, util.ErrValidation("Email atau password salah"))
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, user.Role, h.JWTTTL)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Login berhasil", gin.H{
		"token": token,
		"user":  toUserResp(&user),
	})
}

// GetProfile returns the caller's own account.
func (h *UserHandler) GetProfile(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	var user models.User
	if err := h.DB.First(&user, caller.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound("Pengguna tidak ditemukan"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan profil", toUserResp(&user))
}

// UpdateProfile changes name, email or photo via multipart form.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	var user models.User
	if err := h.DB.First(&user, caller.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound("Pengguna tidak ditemukan"))
		} else {
			util.Fail(c, err)
		}
		return
	}

	if name := c.PostForm("name"); name != "" {
		if err := validateUserName(name); err != nil {
			util.Fail(c, err)
			return
		}
		user.Name = strings.TrimSpace(name)
	}

	if email := c.PostForm("email"); email != "" && email != user.Email {
		if !emailRe.MatchString(email) {
			util.Fail(c, util.ErrValidation("Format email tidak valid"))
			return
		}
		var count int64
		if err := h.DB.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, user.ID).
			Count(&count).Error; err != nil {
			util.Fail(c, err)
			return
		}
		if count > 0 {
			util.Fail(c, util.ErrValidation("Email sudah terdaftar"))
			return
		}
		user.Email = email
	}

	if file, err := c.FormFile("photo"); err == nil {
		if err := validatePhotoUpload(file, maxItemPhotoBytes); err != nil {
			util.Fail(c, err)
			return
		}
		url, err := h.Uploader.Upload(file, "users")
		if err != nil {
			util.Fail(c, util.ErrUpload("Gagal mengunggah foto"))
			return
		}
		user.Photo = url
	}

	if err := h.DB.Save(&user).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil memperbarui profil", toUserResp(&user))
}

// UpdatePassword verifies the old password before storing a new hash.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
		return
	}

	var req updatePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrValidation("Permintaan tidak valid"))
		return
	}
	if len(req.NewPassword) < 8 {
		util.Fail(c, util.ErrValidation("Password minimal 8 karakter"))
		return
	}

	var user models.User
	if err := h.DB.First(&user, caller.UserID).Error; err != nil {
		util.Fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		util.Fail(c, util.ErrValidation("Password lama salah"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, "Berhasil memperbarui password", nil)
}

// ListUsers pages through accounts, optionally filtered by name or email.
// Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := h.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Fail(c, err)
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		util.Fail(c, err)
		return
	}

	list := make([]userResp, 0, len(users))
	for i := range users {
		list = append(list, toUserResp(&users[i]))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	util.Success(c, http.StatusOK, "Berhasil mendapatkan daftar pengguna", gin.H{
		"users":      list,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": totalPages,
	})
}

// GetUserByID returns one account. Admin only.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || userID <= 0 {
		util.Fail(c, util.ErrValidation("Parameter userId tidak valid"))
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, util.ErrNotFound(fmt.Sprintf(
				"Pengguna dengan id %d tidak ditemukan", userID)))
		} else {
			util.Fail(c, err)
		}
		return
	}

	util.Success(c, http.StatusOK, "Berhasil mendapatkan pengguna", toUserResp(&user))
}

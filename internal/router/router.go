package router

import (
	"net/http"
	"time"

	"github.com/exoream/sayur/internal/config"
	"github.com/exoream/sayur/internal/handler"
	"github.com/exoream/sayur/internal/middleware"
	"github.com/exoream/sayur/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, middleware and all routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// uploaded photos are served as static files
	r.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	loc := loadReportLocation(cfg.Report.Timezone)
	uploader := storage.NewDiskUploader(cfg.Upload.Dir, cfg.Upload.BaseURL)
	jwtTTL := time.Duration(cfg.JWT.ExpireHours) * time.Hour

	userHandler := handler.NewUserHandler(db, uploader, cfg.JWT.Secret, jwtTTL)
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	protected := r.Group("")
	protected.Use(middleware.Auth(cfg.JWT.Secret))

	protected.GET("/profile", userHandler.GetProfile)
	protected.PUT("/profile", userHandler.UpdateProfile)
	protected.PATCH("/profile", userHandler.UpdatePassword)

	itemHandler := handler.NewItemHandler(db, uploader)
	protected.POST("/items", itemHandler.Create)
	protected.GET("/items", itemHandler.List)
	protected.PUT("/items/:itemId", itemHandler.Update)
	protected.DELETE("/items/:itemId", itemHandler.Delete)

	expenseHandler := handler.NewExpenseHandler(db, loc)
	protected.POST("/expenses", expenseHandler.Create)
	protected.GET("/expenses", expenseHandler.ByDate)
	protected.GET("/expenses/:itemId", expenseHandler.DetailByDateAndItem)
	protected.GET("/expenses/all/:itemId", expenseHandler.AllByItem)
	protected.GET("/expenses/detail/:expenseId", expenseHandler.DetailByID)
	protected.PUT("/expenses/:id", expenseHandler.Update)
	protected.PUT("/expenses/detail/:expenseDetailId", expenseHandler.UpdateDetail)
	protected.DELETE("/expenses/:id", expenseHandler.Delete)
	protected.DELETE("/expenses/detail/:expenseDetailId", expenseHandler.DeleteDetail)

	incomeHandler := handler.NewIncomeHandler(db, loc)
	protected.POST("/incomes", incomeHandler.Create)
	protected.GET("/incomes", incomeHandler.ByDate)
	protected.GET("/incomes/:itemId", incomeHandler.DetailByDateAndItem)
	protected.GET("/incomes/all/:itemId", incomeHandler.AllByItem)
	protected.GET("/incomes/detail/:incomeId", incomeHandler.DetailByID)
	protected.PUT("/incomes/:id", incomeHandler.Update)
	protected.PUT("/incomes/detail/:incomeDetailId", incomeHandler.UpdateDetail)
	protected.DELETE("/incomes/:incomeId", incomeHandler.Delete)
	protected.DELETE("/incomes/detail/:incomeDetailId", incomeHandler.DeleteDetail)

	recapHandler := handler.NewRecapHandler(db, loc)
	protected.GET("/rekaptulasi", recapHandler.Monthly)
	protected.GET("/rekaptulasi/profit", recapHandler.Yearly)

	lovHandler := handler.NewLovHandler(db, uploader)
	protected.GET("/lov-items", lovHandler.List)
	protected.GET("/lov-items/:lovId", lovHandler.GetByID)

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:userId", userHandler.GetUserByID)
	admin.GET("/rekaptulasi/user-inputs", recapHandler.UserInputs)

	exportHandler := handler.NewExportHandler(db, loc)
	admin.GET("/rekaptulasi/export", exportHandler.RecapXLSX)

	admin.POST("/lov-items", lovHandler.Create)
	admin.PUT("/lov-items/:lovId", lovHandler.Update)
	admin.DELETE("/lov-items/:lovId", lovHandler.Delete)

	return r
}

// loadReportLocation resolves the reporting timezone, falling back to a
// fixed UTC+8 zone when tzdata lookup fails.
func loadReportLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.WithError(err).WithField("timezone", name).
			Warn("failed to load report timezone, falling back to UTC+8")
		return time.FixedZone("WITA", 8*3600)
	}
	return loc
}

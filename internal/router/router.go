// internal/router/router.go
package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/config"
	"github.com/javajoker/museum-backend/internal/handlers"
	"github.com/javajoker/museum-backend/internal/middleware"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	historyService := services.NewHistoryService(db)
	authService := services.NewAuthService(db, cfg)
	categoryService := services.NewCategoryService(db, historyService)
	exhibitService := services.NewExhibitService(db, historyService, storageService)
	photoService := services.NewPhotoService(db, historyService, storageService)
	documentService := services.NewDocumentService(db, historyService, storageService)
	catalogService := services.NewCatalogService(db, storageService)
	exportService := services.NewExportService(db, exhibitService)
	userService := services.NewUserService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	exhibitHandler := handlers.NewExhibitAdminHandler(exhibitService, historyService, exportService)
	categoryHandler := handlers.NewCategoryAdminHandler(categoryService)
	mediaHandler := handlers.NewMediaAdminHandler(photoService, documentService, storageService)
	historyHandler := handlers.NewHistoryAdminHandler(historyService)
	userHandler := handlers.NewUserHandler(userService, authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.PerSecond(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	loginLimiter := middleware.PerMinute(cfg.RateLimit.LoginPerMinute)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(generalLimiter.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": "1.0.0",
		})
	})

	// Uploaded media served from disk
	if cfg.Storage.Backend == "local" && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		r.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalPath)
	}

	// Public catalog
	public := r.Group("")
	public.Use(middleware.OptionalAuth())
	{
		public.GET("/", catalogHandler.ListExhibits)
		public.GET("/exhibit/:id/", catalogHandler.GetExhibit)
		public.GET("/category/:id/", catalogHandler.GetCategory)
		public.GET("/categories/", catalogHandler.ListCategories)
		public.GET("/featured/", catalogHandler.Featured)
		public.GET("/search/", catalogHandler.Search)
		public.GET("/stats/", catalogHandler.Stats)
	}

	// Authentication routes
	auth := r.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		auth.PUT("/me", middleware.AuthRequired(), userHandler.UpdateProfile)
		auth.POST("/password", middleware.AuthRequired(), loginLimiter.Middleware(), userHandler.ChangePassword)
	}

	// Staff-only catalog management
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.StaffRequired(userService))
	{
		categories := admin.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		exhibits := admin.Group("/exhibits")
		{
			exhibits.GET("", exhibitHandler.ListExhibits)
			exhibits.POST("", exhibitHandler.CreateExhibit)
			exhibits.GET("/stats", exhibitHandler.StatusCounts)
			exhibits.GET("/export", exhibitHandler.ExportExhibits)
			exhibits.POST("/import", exhibitHandler.ImportExhibits)
			exhibits.GET("/:id", exhibitHandler.GetExhibit)
			exhibits.PUT("/:id", exhibitHandler.UpdateExhibit)
			exhibits.PATCH("/:id/status", exhibitHandler.ChangeStatus)
			exhibits.DELETE("/:id", exhibitHandler.DeleteExhibit)
			exhibits.GET("/:id/history", exhibitHandler.GetHistory)

			exhibits.GET("/:id/photos", mediaHandler.ListPhotos)
			exhibits.POST("/:id/photos", mediaHandler.AddPhoto)
			exhibits.GET("/:id/documents", mediaHandler.ListDocuments)
			exhibits.POST("/:id/documents", mediaHandler.AddDocument)
		}

		photos := admin.Group("/photos")
		{
			photos.PATCH("/:id", mediaHandler.UpdatePhoto)
			photos.POST("/:id/primary", mediaHandler.SetPrimaryPhoto)
			photos.DELETE("/:id", mediaHandler.DeletePhoto)
		}

		admin.DELETE("/documents/:id", mediaHandler.DeleteDocument)
		admin.GET("/history", historyHandler.ListHistory)

		staff := admin.Group("/staff")
		{
			staff.GET("", userHandler.ListUsers)
			staff.POST("", userHandler.CreateUser)
			staff.GET("/:id", userHandler.GetUser)
			staff.PATCH("/:id/active", userHandler.SetActive)
		}
	}

	return r, nil
}

package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/config"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/database"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/handlers"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/middleware"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/repository"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Session middleware: identity lives in an authenticated cookie
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Wire repositories, services, handlers
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	rowRepo := repository.NewRowRepository(db)

	authService := services.NewAuthService(userRepo)
	importService := services.NewImportService(rowRepo)
	reportService := services.NewReportService(rowRepo)

	authHandler := handlers.NewAuthHandler(authService)
	uploadHandler := handlers.NewUploadHandler(importService, rowRepo)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "DVI dashboard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
			auth.DELETE("/account", middleware.RequireAuth(), authHandler.DeleteAccount)
		}

		// Upload routes (protected)
		uploads := api.Group("/uploads")
		uploads.Use(middleware.RequireAuth())
		{
			uploads.POST("/preview", uploadHandler.Preview)
			uploads.POST("", uploadHandler.Create)
			uploads.GET("", middleware.RequireAdmin(), uploadHandler.List)
			uploads.DELETE("/:id", middleware.RequireAdmin(), uploadHandler.Delete)
		}

		// Report routes (protected)
		reports := api.Group("/reports")
		reports.Use(middleware.RequireAuth())
		{
			reports.GET("/rows", reportHandler.Rows)
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/export/csv", reportHandler.ExportCSV)
			reports.GET("/export/pdf", reportHandler.ExportPDF)
			reports.GET("/orgs", reportHandler.Orgs)
			reports.GET("/locations", reportHandler.Locations)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

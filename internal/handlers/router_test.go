package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/database"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/middleware"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/repository"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	rowRepo     repository.RowRepository
}

// setupTestEnv wires the full route table against an in-memory database,
// mirroring the server wiring in cmd/server.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Upload{}, &models.DataRow{}))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	rowRepo := repository.NewRowRepository(db)
	authService := services.NewAuthService(userRepo)
	importService := services.NewImportService(rowRepo)
	reportService := services.NewReportService(rowRepo)

	authHandler := NewAuthHandler(authService)
	uploadHandler := NewUploadHandler(importService, rowRepo)
	reportHandler := NewReportHandler(reportService)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
			auth.DELETE("/account", middleware.RequireAuth(), authHandler.DeleteAccount)
		}

		uploads := api.Group("/uploads")
		uploads.Use(middleware.RequireAuth())
		{
			uploads.POST("/preview", uploadHandler.Preview)
			uploads.POST("", uploadHandler.Create)
			uploads.GET("", middleware.RequireAdmin(), uploadHandler.List)
			uploads.DELETE("/:id", middleware.RequireAdmin(), uploadHandler.Delete)
		}

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

	return &testEnv{
		db:          db,
		router:      r,
		authService: authService,
		rowRepo:     rowRepo,
	}
}

// createAdmin provisions an admin account directly, the way cmd/createadmin
// does in production.
func (e *testEnv) createAdmin(t *testing.T, username, password string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, e.db.Create(&models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}).Error)
}

// login authenticates through the real endpoint and returns the session
// cookies for follow-up requests.
func (e *testEnv) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (e *testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

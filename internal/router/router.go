package router

import (
	"database/sql"

	"pharmacy_backend/internal/classification"
	"pharmacy_backend/internal/config"
	"pharmacy_backend/internal/handlers"
	"pharmacy_backend/internal/middleware"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cfg config.Config) {
	// Initialize Repositories
	medicineRepo := repositories.NewMedicineRepository(db)
	userRepo := repositories.NewUserRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	engineCfg := classification.Config{
		HorizonDays:      cfg.ExpiryHorizonDays,
		Thresholds:       cfg.StockThresholds,
		DefaultThreshold: cfg.DefaultStockThreshold,
		DefaultUnit:      cfg.DefaultUnit,
	}

	// Initialize Services
	authService := services.NewAuthService(userRepo, db, cfg.JWTSecret, cfg.JWTExpiration)
	userService := services.NewUserService(userRepo, db)
	medicineService := services.NewMedicineService(medicineRepo, activityRepo, engineCfg)
	reportService := services.NewReportService(medicineRepo, activityRepo, engineCfg, cfg.CurrencySymbol)
	notificationService := services.NewNotificationService(medicineRepo, notificationRepo, engineCfg)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	medicineHandler := handlers.NewMedicineHandler(medicineService)
	reportHandler := handlers.NewReportHandler(reportService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, notificationService)
	activityHandler := handlers.NewActivityHandler(activityRepo)

	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRateMax, cfg.LoginRateWindow)
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, userRepo)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler, authMiddleware, loginLimiter)

	authenticated := apiV1.Group("")
	authenticated.Use(authMiddleware)
	{
		SetupMedicineRoutes(authenticated, medicineHandler)
		SetupUserRoutes(authenticated, userHandler)
		SetupDashboardRoutes(authenticated, reportHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupNotificationRoutes(authenticated, notificationHandler)
		SetupActivityRoutes(authenticated, activityHandler)
	}
}

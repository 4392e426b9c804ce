package router

import (
	"pharmacy_backend/internal/handlers"
	"pharmacy_backend/internal/middleware"
	"pharmacy_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Login sits behind the
// per-caller rate limiter; /me and /logout require a valid token.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, authMiddleware gin.HandlerFunc, loginLimiter *middleware.LoginRateLimiter) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", loginLimiter.Middleware(), authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(authMiddleware)
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupMedicineRoutes sets up the medicine inventory routes.
// Note: write operations are restricted to admins and pharmacists; any
// authenticated role may read.
func SetupMedicineRoutes(authenticatedGroup *gin.RouterGroup, medicineHandler *handlers.MedicineHandler) {
	medicineWriteRoutes := authenticatedGroup.Group("/medicines")
	medicineWriteRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RolePharmacist))
	{
		medicineWriteRoutes.POST("", medicineHandler.CreateMedicine)
		medicineWriteRoutes.PUT("/:id", medicineHandler.UpdateMedicine)
		medicineWriteRoutes.DELETE("/:id", medicineHandler.DeleteMedicine)
	}

	authenticatedGroup.GET("/medicines", medicineHandler.GetMedicines)
	authenticatedGroup.GET("/medicines/expiry-status", medicineHandler.GetExpiryStatus)
	authenticatedGroup.GET("/medicines/:id", medicineHandler.GetMedicineByID)
}

// SetupUserRoutes sets up the user management routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		userRoutes.POST("", userHandler.CreateUser)
		userRoutes.GET("", userHandler.GetUsers)
		userRoutes.GET("/:id", userHandler.GetUserByID)
		userRoutes.PUT("/:id", userHandler.UpdateUser)
		userRoutes.DELETE("/:id", userHandler.DeleteUser)
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	{
		dashboardRoutes.GET("/summary", reportHandler.GetDashboardSummary)
	}
}

// SetupReportRoutes sets up the report export routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RolePharmacist))
	{
		reportRoutes.GET("/export", reportHandler.ExportReport)
	}
}

// SetupNotificationRoutes sets up the notification routes.
func SetupNotificationRoutes(authenticatedGroup *gin.RouterGroup, notificationHandler *handlers.NotificationHandler) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.GetNotifications)
		notificationRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RolePharmacist), notificationHandler.CreateNotification)
		notificationRoutes.POST("/expiry-scan", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RolePharmacist), notificationHandler.GenerateExpiryAlerts)
		notificationRoutes.PATCH("/:id/read", notificationHandler.MarkNotificationRead)
		notificationRoutes.DELETE("", middleware.RoleAuthMiddleware(models.RoleAdmin), notificationHandler.ClearNotifications)
	}
}

// SetupActivityRoutes sets up the recent-activity log routes.
func SetupActivityRoutes(authenticatedGroup *gin.RouterGroup, activityHandler *handlers.ActivityHandler) {
	activityRoutes := authenticatedGroup.Group("/activities")
	{
		activityRoutes.GET("", activityHandler.GetRecentActivities)
		activityRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RolePharmacist), activityHandler.CreateActivity)
		activityRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), activityHandler.DeleteActivity)
	}
}

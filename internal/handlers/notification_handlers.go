package handlers

import (
	"errors"
	"net/http"

	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/internal/services"
	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves stored notifications and the expiry alert scan.
// Plain CRUD goes straight to the repository; only the scan needs a service.
type NotificationHandler struct {
	notificationRepo    repositories.NotificationRepository
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(repo repositories.NotificationRepository, ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationRepo: repo, notificationService: ns}
}

type createNotificationRequest struct {
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
}

// CreateNotification records a new notification.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	notification := models.Notification{Message: req.Message, Type: req.Type}
	if _, err := h.notificationRepo.Create(&notification); err != nil {
		utils.LogError(err, "CreateNotification: failed to store notification")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create notification.", ""))
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// GetNotifications lists all notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.notificationRepo.GetAll()
	if err != nil {
		utils.LogError(err, "GetNotifications: failed to list notifications")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch notifications.", ""))
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flags a single notification as read.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid notification ID", ""))
		return
	}

	notification, err := h.notificationRepo.MarkRead(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Notification not found.", ""))
			return
		}
		utils.LogError(err, "MarkNotificationRead: failed to update notification")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update notification.", ""))
		return
	}
	c.JSON(http.StatusOK, notification)
}

// GenerateExpiryAlerts runs an expiry scan over the inventory and stores one
// notification per expired or soon-to-expire medicine.
func (h *NotificationHandler) GenerateExpiryAlerts(c *gin.Context) {
	created, err := h.notificationService.GenerateExpiryAlerts()
	if err != nil {
		utils.LogError(err, "GenerateExpiryAlerts: expiry scan failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to generate expiry alerts.", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// ClearNotifications removes all notifications.
func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	if err := h.notificationRepo.DeleteAll(); err != nil {
		utils.LogError(err, "ClearNotifications: failed to clear notifications")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to clear notifications.", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}

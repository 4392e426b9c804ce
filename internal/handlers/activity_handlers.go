package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ActivityHandler works directly against the activity-log repository.
type ActivityHandler struct {
	activityRepo repositories.ActivityRepository
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(repo repositories.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activityRepo: repo}
}

type createActivityRequest struct {
	Action       string `json:"action" binding:"required"`
	MedicineName string `json:"medicine_name" binding:"required"`
	Details      string `json:"details"`
}

// CreateActivity records an activity entry directly. Inventory operations
// write their own entries; this exists for external events like stocktakes.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	activity := models.RecentActivity{Action: req.Action, MedicineName: req.MedicineName, Details: req.Details}
	if _, err := h.activityRepo.Create(&activity); err != nil {
		utils.LogError(err, "CreateActivity: failed to store activity entry")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record activity.", ""))
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// GetRecentActivities lists the most recent inventory actions.
// ?limit=N caps the result, defaulting to 10.
func (h *ActivityHandler) GetRecentActivities(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest,
				"Query parameter 'limit' must be a positive integer", ""))
			return
		}
		limit = parsed
	}

	activities, err := h.activityRepo.GetRecent(limit)
	if err != nil {
		utils.LogError(err, "GetRecentActivities: failed to list activities")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch activities.", ""))
		return
	}
	c.JSON(http.StatusOK, activities)
}

// DeleteActivity removes a single activity entry.
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid activity ID", ""))
		return
	}

	if err := h.activityRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Activity entry not found.", ""))
			return
		}
		utils.LogError(err, "DeleteActivity: failed to delete activity entry")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete activity.", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted"})
}

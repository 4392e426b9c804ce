package handlers

import (
	"errors"
	"net/http"

	"pharmacy_backend/internal/services"
	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user management service.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// CreateUser handles admin-driven user creation.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		h.respondUserError(c, err, "CreateUser")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUsers handles fetching all users.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		utils.LogError(err, "GetUsers: failed to list users")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch users.", ""))
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID handles fetching a single user.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid user ID", ""))
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		h.respondUserError(c, err, "GetUserByID")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles updating an existing user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid user ID", ""))
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(id, req)
	if err != nil {
		h.respondUserError(c, err, "UpdateUser")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles deleting a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid user ID", ""))
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		h.respondUserError(c, err, "DeleteUser")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *UserHandler) respondUserError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", ""))
	case errors.Is(err, services.ErrUsernameExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists.", ""))
	case errors.Is(err, services.ErrEmailExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already exists.", ""))
	case errors.Is(err, services.ErrRoleNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Specified role not found.", ""))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	default:
		utils.LogError(err, op+": unexpected error from userService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "User operation failed.", ""))
	}
}

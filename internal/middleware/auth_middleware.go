package middleware

import (
	"errors"
	"net/http"
	"strings"

	"pharmacy_backend/internal/models"
	"pharmacy_backend/internal/repositories"
	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "username"
	CtxUserRoleKey = "userRole"
)

// AuthMiddleware creates a Gin middleware for JWT bearer authentication.
// Besides verifying the token it re-checks the referenced account: a token
// for a deleted or deactivated user is as invalid as a forged one.
func AuthMiddleware(jwtSecret string, userRepo repositories.UserRepository) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeMissingCredential,
				"Authorization header required", ""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeMissingCredential,
				"Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(secret, parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeInvalidCredential,
				"Invalid or expired token", ""))
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeInvalidCredential,
					"User not found or inactive", ""))
				return
			}
			utils.LogError(err, "AuthMiddleware: user lookup failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeUpstreamError,
				"Could not verify credentials", ""))
			return
		}
		if !user.IsActive {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeInvalidCredential,
				"User not found or inactive", ""))
			return
		}

		// Set user information in the context for downstream handlers.
		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxUsernameKey, user.Username)
		c.Set(CtxUserRoleKey, user.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks the authenticated user's role against the allowed set.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(CtxUserRoleKey)
		if !exists {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
				"User role not found in request context. Ensure AuthMiddleware runs first.", ""))
			return
		}

		role, ok := roleRaw.(models.Role)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError,
				"User role has unexpected type", ""))
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource", ""))
	}
}

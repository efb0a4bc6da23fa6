package middleware

import (
	"errors"
	"net/http"
	"strings"

	"relocare/database/repository"
	userRepo "relocare/database/repository/user"
	"relocare/models"
	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by SessionAuth.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// SessionAuth resolves the caller from a Bearer session token. The role is
// read from the user record (through the role cache), never from the token,
// so a role change takes effect on the next request.
func SessionAuth(secret string, users userRepo.UserRepository, roles utils.RoleCache) gin.HandlerFunc {
	if roles == nil {
		roles = utils.NewRedisRoleCache(nil)
	}
	return func(c *gin.Context) {
		logger := utils.ContextLogger(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		userID, err := utils.ExtractIDFromToken(secret, tokenString)
		if err != nil {
			logger.Debug("rejected session token", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := c.Request.Context()
		role, cached := roles.GetRole(ctx, userID)
		if !cached {
			usr, err := users.GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
					return
				}
				utils.RespondError(c, err)
				return
			}
			role = usr.Role
			roles.SetRole(ctx, userID, role)
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// CurrentUserID returns the caller's id, or "" outside SessionAuth.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// CurrentRole returns the caller's role, or "" outside SessionAuth.
func CurrentRole(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}

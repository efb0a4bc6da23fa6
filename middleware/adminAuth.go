package middleware

import (
	"net/http"

	"relocare/models"
	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAdmin must run after SessionAuth. A caller without a session gets
// 401, a signed-in non-admin gets 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if CurrentRole(c) != models.RoleAdmin {
			utils.ContextLogger(c).Warn("admin access denied",
				zap.String("userID", userID),
				zap.String("path", c.FullPath()),
			)
			utils.JSONError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

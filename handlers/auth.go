package handlers

import (
	"net/http"

	"relocare/middleware"
	"relocare/services/user"
	"relocare/utils"

	"github.com/gin-gonic/gin"
)

// SessionHandler reports who the caller is.
type SessionHandler struct {
	UserService user.UserService
}

func NewSessionHandler(us user.UserService) *SessionHandler {
	return &SessionHandler{UserService: us}
}

// GetSession handles GET /api/auth/session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	u, err := h.UserService.GetUserByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if utils.IsKind(err, utils.KindNotFound) {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    u,
		"isAdmin": u.IsAdmin(),
	})
}

// Health handles GET /health using the last result of the background monitor.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{
		"status":     state,
		"components": status.Components,
		"checkedAt":  status.CheckedAt,
	})
}

package handlers

import (
	"net/http"

	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger set by middleware.RequestLogger.
func getLogger(c *gin.Context) *zap.Logger {
	return utils.ContextLogger(c)
}

// bindJSON decodes the request body and reports a malformed one as a validation error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Debug("invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP prefers the first parseable X-Forwarded-For hop, then
// X-Real-IP, then the socket address.
func getClientIP(c *gin.Context) string {
	for _, hop := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(hop); net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	addr := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

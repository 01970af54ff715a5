package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetCallerAddress extracts the original caller's network address from the
// request. It prioritizes X-Real-IP, then the first entry of the
// X-Forwarded-For chain (the original caller, not intermediate proxies),
// and finally falls back to c.ClientIP().
func GetCallerAddress(c *gin.Context) string {
	// Try X-Real-IP header first (most reliable)
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	// Try X-Forwarded-For header next
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Fall back to Gin's built-in method
	return c.ClientIP()
}

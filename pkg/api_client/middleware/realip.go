package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// RealIP resolves the client address once per request. When trust is set the
// X-Real-IP header of the reverse proxy wins over the socket address.
func RealIP(trust bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ""
		if trust {
			ip = strings.TrimSpace(c.GetHeader("X-Real-IP"))
		}
		if ip == "" {
			ip = c.RemoteIP()
		}
		c.Set(clientIPKey, ip)
		c.Next()
	}
}

// ClientIP returns the address stored by RealIP.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(clientIPKey); ip != "" {
		return ip
	}
	return c.RemoteIP()
}

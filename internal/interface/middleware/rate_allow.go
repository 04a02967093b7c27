package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the limiter for loopback and RFC 1918 / RFC 4193 clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ClientIP(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}

// AllowRoles bypasses the limiter for authenticated callers holding one of roles.
func AllowRoles(roles ...string) AllowFunc {
	return func(c *gin.Context) bool {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			return false
		}
		for _, r := range roles {
			if r == role {
				return true
			}
		}
		return false
	}
}

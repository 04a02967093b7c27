package middleware

import (
	"github.com/gin-gonic/gin"
)

// CtxRealIPKey holds the resolved client address set by RealIP.
const CtxRealIPKey = "real_ip"

// clientIPHeaders are read in order, and only when the socket peer is a trusted proxy.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// TrustProxies limits forwarding headers to requests whose socket peer falls
// inside proxies (IPs or CIDRs). With no proxies every header is ignored and
// the socket address is the client.
func TrustProxies(engine *gin.Engine, proxies []string) error {
	engine.ForwardedByClientIP = true
	engine.RemoteIPHeaders = clientIPHeaders
	engine.TrustedPlatform = ""
	if len(proxies) == 0 {
		return engine.SetTrustedProxies(nil)
	}
	return engine.SetTrustedProxies(proxies)
}

// RealIP stores the client address under CtxRealIPKey. Forwarding headers
// count only as far as TrustProxies allows.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, c.ClientIP())
		c.Next()
	}
}

// ClientIP returns the address stored by RealIP, then the socket address, then "unknown".
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.RemoteIP(); ip != "" {
		return ip
	}
	return "unknown"
}

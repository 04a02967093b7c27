package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-platform/pkg/helpers"
	"github.com/oksasatya/go-blog-platform/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxRoleKey   = "role"
)

// TokenParser validates a session token. helpers.JWTManager implements it.
type TokenParser interface {
	ParseToken(token string) (*helpers.Claims, error)
}

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}
	if tok, err := c.Cookie(helpers.SessionCookieName); err == nil {
		return tok
	}
	return ""
}

// Auth validates the session token from the Authorization header or the
// access_token cookie and sets userID and role in the Gin context.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := tokens.ParseToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0 outside Auth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}

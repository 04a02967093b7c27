package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-platform/internal/container"
	handlers "github.com/oksasatya/go-blog-platform/internal/interface/http"
	"github.com/oksasatya/go-blog-platform/internal/interface/middleware"
)

// AuthModule wires credential routes.
// Public: POST /api/login, POST /api/register, POST /api/password/reset
// Protected: POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  middleware.TokenParser
}

func NewAuthModule(h *handlers.AuthHandler, tokens middleware.TokenParser) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/password/reset", resetLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}

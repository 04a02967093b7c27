package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-platform/internal/container"
	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	handlers "github.com/oksasatya/go-blog-platform/internal/interface/http"
	"github.com/oksasatya/go-blog-platform/internal/interface/middleware"
)

// UserModule wires profile routes.
// Public: GET /api/user?id=, GET /api/users/:username
// Protected: GET /api/profile, PUT /api/profile, POST /api/profile/avatar, GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenParser
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenParser) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/user", publicLimiter, m.Handler.ByID)
	rg.GET("/users/:username", publicLimiter, m.Handler.ByUsername)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	// softer per-IP limiter, then per user; admins skip the per-user one
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowRoles(string(entity.RoleAdmin))),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}
}

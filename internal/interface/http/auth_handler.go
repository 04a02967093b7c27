package handlers

import (
	"errors"
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-blog-platform/internal/application"
	"github.com/oksasatya/go-blog-platform/internal/interface/middleware"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
	"github.com/oksasatya/go-blog-platform/pkg/response"
	"github.com/oksasatya/go-blog-platform/pkg/validation"
)

// authStats is served under "auth" by the debug vars endpoint.
var authStats = expvar.NewMap("auth")

type AuthHandler struct {
	Svc     AuthUseCases
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AuthUseCases, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,alphanum,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type resetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), userapp.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		IP:         middleware.ClientIP(c),
		UserAgent:  c.GetHeader("User-Agent"),
	})
	if err != nil {
		authStats.Add("login_failed", 1)
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	authStats.Add("login_ok", 1)
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt, req.RememberMe)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"expires_at": res.ExpiresAt})
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, userapp.ErrRegistrationFailed) {
			status = http.StatusConflict
		}
		response.Error[any](c, status, "registration failed", nil)
		return
	}
	authStats.Add("registered", 1)
	response.Success(c, http.StatusCreated, u, "registered", nil)
}

// ResetPassword POST /api/password/reset
// The body reports only whether a new password was mailed.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if !h.Svc.RequestPasswordReset(c.Request.Context(), req.Email) {
		authStats.Add("reset_failed", 1)
		response.Error[any](c, http.StatusBadRequest, "password reset failed", nil)
		return
	}
	authStats.Add("reset_ok", 1)
	response.Success[any](c, http.StatusOK, nil, "a new password has been sent", nil)
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

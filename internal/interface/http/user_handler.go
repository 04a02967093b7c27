package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-blog-platform/internal/application"
	"github.com/oksasatya/go-blog-platform/internal/interface/middleware"
	"github.com/oksasatya/go-blog-platform/pkg/response"
	"github.com/oksasatya/go-blog-platform/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    UserUseCases
	Logger *logrus.Logger
}

func NewUserHandler(svc UserUseCases, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name string  `json:"name" binding:"omitempty,max=100"`
	Bio  *string `json:"bio" binding:"omitempty,max=500"`
}

func writeUserError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "request failed"
	switch {
	case errors.Is(err, userapp.ErrUserNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, userapp.ErrUpdateFailed):
		status, msg = http.StatusBadRequest, "failed to update profile"
	case errors.Is(err, userapp.ErrStorageUnavailable):
		status, msg = http.StatusServiceUnavailable, "storage not configured"
	}
	response.Error[any](c, status, msg, nil)
}

// ByID GET /api/user?id=
func (h *UserHandler) ByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

// ByUsername GET /api/users/:username
func (h *UserHandler) ByUsername(c *gin.Context) {
	u, err := h.Svc.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), userapp.UpdateProfileInput{
		Name: strings.TrimSpace(req.Name),
		Bio:  req.Bio,
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		response.Error[any](c, http.StatusBadRequest, "file must be an image", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.UserID(c), f, fh.Filename, ct)
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar updated", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("user search failed")
		}
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "users", map[string]any{"count": len(hits)})
}

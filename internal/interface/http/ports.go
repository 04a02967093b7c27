package handlers

import (
	"context"
	"io"

	userapp "github.com/oksasatya/go-blog-platform/internal/application"
	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
)

// AuthUseCases is the part of application.AuthService the handlers call.
type AuthUseCases interface {
	Login(ctx context.Context, in userapp.LoginInput) (*userapp.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) bool
	Register(ctx context.Context, in userapp.RegisterInput) (*entity.UserDetail, error)
}

// UserUseCases is the part of application.UserService the handlers call.
type UserUseCases interface {
	GetProfile(ctx context.Context, userID int64) (*entity.UserDetail, error)
	FindByUsername(ctx context.Context, username string) (*entity.UserDetail, error)
	UpdateProfile(ctx context.Context, userID int64, in userapp.UpdateProfileInput) (*entity.UserDetail, error)
	UploadAvatar(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (*entity.UserDetail, error)
	SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error)
}

var (
	_ AuthUseCases = (*userapp.AuthService)(nil)
	_ UserUseCases = (*userapp.UserService)(nil)
)

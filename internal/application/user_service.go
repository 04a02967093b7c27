package application

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-platform/internal/domain/repository"
)

// UserService serves profile reads and edits.
type UserService struct {
	Repo    repo.UserRepository
	Files   repo.FileRepository
	Storage ObjectStorage
	Index   UserIndex
	Logger  *logrus.Logger
}

func NewUserService(users repo.UserRepository, files repo.FileRepository, storage ObjectStorage, index UserIndex, logger *logrus.Logger) *UserService {
	return &UserService{Repo: users, Files: files, Storage: storage, Index: index, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*entity.UserDetail, error) {
	u := s.Repo.FindByID(ctx, userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	d := u.Detail()
	return &d, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*entity.UserDetail, error) {
	d, ok := s.Repo.FindByUsername(ctx, username)
	if !ok {
		return nil, ErrUserNotFound
	}
	return d, nil
}

type UpdateProfileInput struct {
	Name string
	Bio  *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.UserDetail, error) {
	u := s.Repo.FindByID(ctx, userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		u.Bio = &bio
	}
	if !s.Repo.Save(ctx, u) {
		return nil, ErrUpdateFailed
	}
	s.reindex(ctx, u)
	d := u.Detail()
	return &d, nil
}

// UploadAvatar stores the image, records it as a file and points the profile at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (*entity.UserDetail, error) {
	if s.Storage == nil || s.Files == nil {
		return nil, ErrStorageUnavailable
	}
	u := s.Repo.FindByID(ctx, userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", strconv.FormatInt(userID, 10), uuid.NewString()+ext))
	url, err := s.Storage.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("avatar upload failed")
		}
		return nil, err
	}
	f := &entity.File{FilePath: url}
	if !s.Files.Create(ctx, f) {
		return nil, ErrUpdateFailed
	}
	u.ProfileImageID = &f.ID
	u.ProfileImage = f
	if !s.Repo.Save(ctx, u) {
		return nil, ErrUpdateFailed
	}
	s.reindex(ctx, u)
	d := u.Detail()
	return &d, nil
}

// SearchUsers performs a full-text search over public profiles.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.Search(ctx, q, size)
}

func (s *UserService) reindex(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

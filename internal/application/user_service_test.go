package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
)

func newUserFixture() (*UserService, *memUsers, *memFiles, *fakeStorage, *fakeIndex) {
	users := newMemUsers(&entity.User{Username: "johndoe", Name: "John Doe", Role: entity.RoleUser, Email: "1johndoe@example.com", Password: "x"})
	files := &memFiles{}
	storage := &fakeStorage{}
	index := &fakeIndex{}
	return NewUserService(users, files, storage, index, nil), users, files, storage, index
}

func TestUserService_GetProfile(t *testing.T) {
	svc, _, _, _, _ := newUserFixture()

	d, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", d.Username)

	_, err = svc.GetProfile(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_FindByUsername(t *testing.T) {
	svc, _, _, _, _ := newUserFixture()

	d, err := svc.FindByUsername(context.Background(), "johndoe")
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)

	_, err = svc.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, users, _, _, index := newUserFixture()
	bio := "  writes about Go  "

	d, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{Name: "John D.", Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "John D.", d.Name)
	require.NotNil(t, d.Bio)
	assert.Equal(t, "writes about Go", *d.Bio)
	assert.Equal(t, "x", users.password(1), "profile edits keep the credential")
	assert.Equal(t, []int64{1}, index.indexed)

	users.failSave = true
	_, err = svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{Name: "Other"})
	assert.ErrorIs(t, err, ErrUpdateFailed)
}

func TestUserService_UploadAvatar(t *testing.T) {
	svc, users, files, storage, _ := newUserFixture()

	d, err := svc.UploadAvatar(context.Background(), 1, strings.NewReader("png-bytes"), "Me.PNG", "image/png")
	require.NoError(t, err)
	require.Len(t, storage.paths, 1)
	assert.True(t, strings.HasPrefix(storage.paths[0], "avatars/1/"))
	assert.True(t, strings.HasSuffix(storage.paths[0], ".png"))
	require.NotNil(t, d.ProfileImageID)
	assert.Equal(t, files.files[*d.ProfileImageID].FilePath, d.ProfileImage.FilePath)
	assert.Equal(t, *d.ProfileImageID, *users.FindByID(context.Background(), 1).ProfileImageID)
}

func TestUserService_UploadAvatarErrors(t *testing.T) {
	svc, _, _, storage, _ := newUserFixture()

	storage.err = errors.New("bucket missing")
	_, err := svc.UploadAvatar(context.Background(), 1, strings.NewReader("x"), "a.png", "image/png")
	assert.EqualError(t, err, "bucket missing")

	_, err = svc.UploadAvatar(context.Background(), 42, strings.NewReader("x"), "a.png", "image/png")
	assert.ErrorIs(t, err, ErrUserNotFound)

	svc.Storage = nil
	_, err = svc.UploadAvatar(context.Background(), 1, strings.NewReader("x"), "a.png", "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestUserService_SearchUsers(t *testing.T) {
	svc, _, _, _, index := newUserFixture()
	index.hits = []map[string]any{{"username": "johndoe"}}

	hits, err := svc.SearchUsers(context.Background(), "john", 500)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, "john", index.lastQ)
	assert.Equal(t, 10, index.lastN, "oversized pages are clamped")

	svc.Index = nil
	hits, err = svc.SearchUsers(context.Background(), "john", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

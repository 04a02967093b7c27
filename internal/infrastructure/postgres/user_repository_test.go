package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
)

var userCols = []string{"id", "username", "name", "bio", "role", "email", "password", "profile_image_id", "created_at", "updated_at"}

const (
	selectByEmail    = `SELECT (.+) FROM users WHERE email = \$1`
	selectByUsername = `SELECT (.+) FROM users WHERE username = \$1`
	selectByID       = `SELECT (.+) FROM users WHERE id = \$1`
	selectFileByID   = `SELECT id, file_path, created_at FROM files WHERE id = \$1`
)

var created = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func newUserRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface, *logtest.Hook) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)

	logger, hook := logtest.NewNullLogger()
	files := NewFileRepository(mock, testPolicy(), logger)
	return NewUserRepository(mock, files, testPolicy(), logger), mock, hook
}

func johnRow(password string, imageID *int64) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).
		AddRow(int64(1), "johndoe", "John Doe", (*string)(nil), "user", "1johndoe@example.com", password, imageID, created, created)
}

func TestUserRepository_FindByEmailAndPassword(t *testing.T) {
	hash, err := helpers.HashPassword("s3cret-pass")
	require.NoError(t, err)
	imageID := int64(7)

	tests := []struct {
		name      string
		password  string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantOK    bool
		wantImage string
		wantLogs  int
	}{
		{
			name:     "legacy plain credential matches",
			password: "hashedpassword1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnRows(johnRow("hashedpassword1", nil))
			},
			wantOK:    true,
			wantImage: entity.PlaceholderFilePath,
		},
		{
			name:     "hashed credential matches and image resolved",
			password: "s3cret-pass",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnRows(johnRow(hash, &imageID))
				mock.ExpectQuery(selectFileByID).WithArgs(imageID).
					WillReturnRows(pgxmock.NewRows([]string{"id", "file_path", "created_at"}).AddRow(imageID, "avatars/1/a.png", created))
			},
			wantOK:    true,
			wantImage: "avatars/1/a.png",
		},
		{
			name:     "wrong password",
			password: "hashedpassword1x",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnRows(johnRow("hashedpassword1", nil))
			},
		},
		{
			name:     "unknown email",
			password: "hashedpassword1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnRows(pgxmock.NewRows(userCols))
			},
		},
		{
			name:     "store down after retry",
			password: "hashedpassword1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnError(errors.New("connection refused"))
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnError(errors.New("connection refused"))
			},
			wantLogs: 1,
		},
		{
			name:     "transient failure recovered by retry",
			password: "hashedpassword1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnError(errors.New("connection reset by peer"))
				mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
					WillReturnRows(johnRow("hashedpassword1", nil))
			},
			wantOK:    true,
			wantImage: entity.PlaceholderFilePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, hook := newUserRepo(t)
			tt.setupMock(mock)

			got, ok := repo.FindByEmailAndPassword(context.Background(), "1johndoe@example.com", tt.password)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, got)
				assert.Equal(t, int64(1), got.ID)
				assert.Equal(t, "1johndoe@example.com", got.Email)
				assert.Equal(t, tt.wantImage, got.ProfileImage.FilePath)

				b, err := json.Marshal(got)
				require.NoError(t, err)
				assert.NotContains(t, string(b), "password")
			} else {
				assert.Nil(t, got)
			}
			assert.Len(t, hook.AllEntries(), tt.wantLogs)
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_StoreFailureLogsWithoutPassword(t *testing.T) {
	repo, mock, hook := newUserRepo(t)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").
			WillReturnError(errors.New("connection refused"))
	}

	_, ok := repo.FindByEmailAndPassword(context.Background(), "1johndoe@example.com", "hashedpassword1")
	assert.False(t, ok)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "find by email and password", entry.Data["operation"])
	assert.Equal(t, "1johndoe@example.com", entry.Data["key"])
	for _, v := range entry.Data {
		assert.NotEqual(t, "hashedpassword1", v)
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	repo, mock, _ := newUserRepo(t)
	mock.ExpectQuery(selectByUsername).WithArgs("johndoe").WillReturnRows(johnRow("x", nil))
	mock.ExpectQuery(selectByUsername).WithArgs("ghost").WillReturnRows(pgxmock.NewRows(userCols))

	got, ok := repo.FindByUsername(context.Background(), "johndoe")
	require.True(t, ok)
	assert.Equal(t, "johndoe", got.Username)
	assert.Equal(t, "March 5, 2024", got.CreatedAt)

	got, ok = repo.FindByUsername(context.Background(), "ghost")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID(t *testing.T) {
	repo, mock, hook := newUserRepo(t)
	mock.ExpectQuery(selectByID).WithArgs(int64(1)).WillReturnRows(johnRow("hashedpassword1", nil))
	mock.ExpectQuery(selectByID).WithArgs(int64(2)).WillReturnRows(pgxmock.NewRows(userCols))

	u := repo.FindByID(context.Background(), 1)
	require.NotNil(t, u)
	assert.Equal(t, "hashedpassword1", u.Password, "record form keeps the credential for re-saving")
	assert.Equal(t, entity.RoleUser, u.Role)

	assert.Nil(t, repo.FindByID(context.Background(), 2))
	assert.Empty(t, hook.AllEntries(), "a miss is not logged")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_StoreError(t *testing.T) {
	repo, mock, hook := newUserRepo(t)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(selectByEmail).WithArgs("a@example.com").WillReturnError(errors.New("timeout"))
	}

	assert.Nil(t, repo.FindByEmail(context.Background(), "a@example.com"))
	assert.Len(t, hook.AllEntries(), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SaveInsertAssignsID(t *testing.T) {
	repo, mock, _ := newUserRepo(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ann", "Ann", pgxmock.AnyArg(), "user", "ann@example.com", "hash", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), created, created))

	u := entity.NewRegisteredUser("Ann", "ann", "ann@example.com", "hash")
	require.True(t, repo.Save(context.Background(), u))
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, created, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SaveInsertFailureNotReplayed(t *testing.T) {
	repo, mock, hook := newUserRepo(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ann", "Ann", pgxmock.AnyArg(), "user", "ann@example.com", "hash", pgxmock.AnyArg()).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	u := entity.NewRegisteredUser("Ann", "ann", "ann@example.com", "hash")
	assert.False(t, repo.Save(context.Background(), u))
	assert.False(t, u.IsPersisted())
	assert.Len(t, hook.AllEntries(), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SaveUpdateRefreshesTimestamp(t *testing.T) {
	repo, mock, _ := newUserRepo(t)
	later := created.Add(time.Hour)
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("johndoe", "John Doe", pgxmock.AnyArg(), "user", "1johndoe@example.com", "newhash", pgxmock.AnyArg(), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(later))

	u := &entity.User{ID: 1, Username: "johndoe", Name: "John Doe", Role: entity.RoleUser,
		Email: "1johndoe@example.com", Password: "newhash", UpdatedAt: created}
	require.True(t, repo.Save(context.Background(), u))
	assert.Equal(t, later, u.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SaveUpdateMissingRow(t *testing.T) {
	repo, mock, _ := newUserRepo(t)
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("x", "", pgxmock.AnyArg(), "user", "x@example.com", "", pgxmock.AnyArg(), int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))

	u := &entity.User{ID: 99, Username: "x", Email: "x@example.com"}
	assert.False(t, repo.Save(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SaveRejectsUnknownRole(t *testing.T) {
	repo, mock, hook := newUserRepo(t)

	u := &entity.User{ID: 1, Username: "johndoe", Email: "1johndoe@example.com", Role: entity.Role("root")}
	assert.False(t, repo.Save(context.Background(), u))
	assert.Len(t, hook.AllEntries(), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UnknownEmailSpendsCompare(t *testing.T) {
	repo, mock, _ := newUserRepo(t)
	var spent []string
	repo.spendCompare = func(plain string) { spent = append(spent, plain) }

	mock.ExpectQuery(selectByEmail).WithArgs("nobody@example.com").WillReturnRows(pgxmock.NewRows(userCols))
	mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").WillReturnError(errors.New("connection refused"))
	mock.ExpectQuery(selectByEmail).WithArgs("1johndoe@example.com").WillReturnError(errors.New("connection refused"))

	_, ok := repo.FindByEmailAndPassword(context.Background(), "nobody@example.com", "guess")
	assert.False(t, ok)
	_, ok = repo.FindByEmailAndPassword(context.Background(), "1johndoe@example.com", "guess")
	assert.False(t, ok)

	assert.Equal(t, []string{"guess"}, spent, "only a miss pays the dummy compare")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SaveNil(t *testing.T) {
	repo, _, _ := newUserRepo(t)
	assert.False(t, repo.Save(context.Background(), nil))
}

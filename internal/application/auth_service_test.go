package application

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-platform/config"
	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
	"github.com/oksasatya/go-blog-platform/pkg/mailer"
	tpl "github.com/oksasatya/go-blog-platform/pkg/mailer/templates"
)

var mailedPassword = regexp.MustCompile(`Your new password is: (\S+)`)

type authFixture struct {
	svc    *AuthService
	users  *memUsers
	mail   *fakeMailer
	pub    *fakePublisher
	index  *fakeIndex
	john   *entity.User
	logged *logtest.Hook
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	john := &entity.User{
		Username:  "johndoe",
		Name:      "John Doe",
		Role:      entity.RoleUser,
		Email:     "1johndoe@example.com",
		Password:  "hashedpassword1",
		CreatedAt: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC),
	}
	users := newMemUsers(john)
	mail := &fakeMailer{}
	pub := &fakePublisher{}
	index := &fakeIndex{}
	logger, hook := logtest.NewNullLogger()
	cfg := &config.Config{AppName: "Inkwell", ResetPasswordLength: 12, MailSendEnabled: true, MailTimeout: time.Second}
	jwt := helpers.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	return &authFixture{
		svc:    NewAuthService(users, jwt, mail, pub, index, cfg, logger),
		users:  users,
		mail:   mail,
		pub:    pub,
		index:  index,
		john:   john,
		logged: hook,
	}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Login(context.Background(), LoginInput{Email: "1johndoe@example.com", Password: "hashedpassword1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(1), res.User.ID)
	assert.Equal(t, "johndoe", res.User.Username)
	assert.Equal(t, entity.RoleUser, res.User.Role)
	assert.Equal(t, "1johndoe@example.com", res.User.Email)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &payload))
	require.Contains(t, payload, "user")
	var user map[string]any
	require.NoError(t, json.Unmarshal(payload["user"], &user))
	assert.Equal(t, "johndoe", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, string(b), "hashedpassword1")
}

func TestLogin_TokenUniquePerLogin(t *testing.T) {
	f := newAuthFixture(t)
	in := LoginInput{Email: "1johndoe@example.com", Password: "hashedpassword1"}

	a, err := f.svc.Login(context.Background(), in)
	require.NoError(t, err)
	b, err := f.svc.Login(context.Background(), in)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		down     bool
	}{
		{name: "wrong password", email: "1johndoe@example.com", password: "hashedpassword1x"},
		{name: "unknown email", email: "nobody@example.com", password: "hashedpassword1"},
		{name: "store unavailable", email: "1johndoe@example.com", password: "hashedpassword1", down: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.users.down = tt.down

			res, err := f.svc.Login(context.Background(), LoginInput{Email: tt.email, Password: tt.password})
			assert.Nil(t, res)
			assert.Same(t, ErrInvalidCredentials, err)
			assert.Empty(t, f.pub.jobs)
		})
	}
}

func TestLogin_PublishesNotification(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), LoginInput{Email: "1johndoe@example.com", Password: "hashedpassword1", IP: "10.0.0.1"})
	require.NoError(t, err)

	require.Len(t, f.pub.jobs, 1)
	job, ok := f.pub.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "1johndoe@example.com", job.To)
	assert.Equal(t, tpl.LoginNotification, job.Template)
	assert.Equal(t, "10.0.0.1", job.Data["IP"])
}

func TestLogin_NotificationFailureDoesNotFailLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.pub.err = errors.New("channel closed")

	res, err := f.svc.Login(context.Background(), LoginInput{Email: "1johndoe@example.com", Password: "hashedpassword1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestRequestPasswordReset_Success(t *testing.T) {
	f := newAuthFixture(t)
	before := f.users.password(f.john.ID)

	ok := f.svc.RequestPasswordReset(context.Background(), "1johndoe@example.com")
	require.True(t, ok)

	after := f.users.password(f.john.ID)
	assert.NotEqual(t, before, after)
	require.Equal(t, 1, f.mail.attempts())
	sent := f.mail.sent[0]
	assert.Equal(t, "1johndoe@example.com", sent.To)

	m := mailedPassword.FindStringSubmatch(sent.Text)
	require.Len(t, m, 2)
	newPassword := m[1]
	assert.Len(t, newPassword, 12)
	assert.NotEqual(t, newPassword, after, "credential is stored hashed")
	assert.True(t, helpers.ComparePassword(after, newPassword))

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "1johndoe@example.com", Password: "hashedpassword1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old credential is invalid")
	_, err = f.svc.Login(context.Background(), LoginInput{Email: "1johndoe@example.com", Password: newPassword})
	assert.NoError(t, err)
}

func TestRequestPasswordReset_MailFailureLeavesPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.err = errors.New("smtp unavailable")
	before := f.users.password(f.john.ID)

	ok := f.svc.RequestPasswordReset(context.Background(), "1johndoe@example.com")
	assert.False(t, ok)
	assert.Equal(t, 1, f.mail.attempts())
	assert.Equal(t, before, f.users.password(f.john.ID))
	assert.Zero(t, f.users.saveCalls)

	entry := f.logged.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "1johndoe@example.com", entry.Data["email"])
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	assert.False(t, f.svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Zero(t, f.mail.attempts())
	assert.Zero(t, f.users.saveCalls)
}

func TestRequestPasswordReset_StoreDown(t *testing.T) {
	f := newAuthFixture(t)
	f.users.down = true

	assert.False(t, f.svc.RequestPasswordReset(context.Background(), "1johndoe@example.com"))
	assert.Zero(t, f.mail.attempts())
}

func TestRequestPasswordReset_SaveFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.users.failSave = true
	before := f.users.password(f.john.ID)

	assert.False(t, f.svc.RequestPasswordReset(context.Background(), "1johndoe@example.com"))
	assert.Equal(t, 1, f.mail.attempts())
	assert.Equal(t, before, f.users.password(f.john.ID))
}

func TestRequestPasswordReset_NoMailer(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.Mailer = nil
	before := f.users.password(f.john.ID)

	assert.False(t, f.svc.RequestPasswordReset(context.Background(), "1johndoe@example.com"))
	assert.Equal(t, before, f.users.password(f.john.ID))
}

func TestRequestPasswordReset_ConcurrentLastWriterWins(t *testing.T) {
	f := newAuthFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, f.svc.RequestPasswordReset(context.Background(), "1johndoe@example.com"))
		}()
	}
	wg.Wait()

	stored := f.users.password(f.john.ID)
	matches := 0
	for _, m := range f.mail.sent {
		if helpers.ComparePassword(stored, mailedPassword.FindStringSubmatch(m.Text)[1]) {
			matches++
		}
	}
	assert.Equal(t, 1, matches, "exactly one mailed credential is live")
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	d, err := f.svc.Register(context.Background(), RegisterInput{Name: "Ann", Username: "ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotZero(t, d.ID)
	assert.Equal(t, entity.RoleUser, d.Role)
	assert.Equal(t, []int64{d.ID}, f.index.indexed)
	assert.True(t, helpers.IsPasswordHash(f.users.password(d.ID)))

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "ann@example.com", Password: "password123"})
	assert.NoError(t, err)

	_, err = f.svc.Register(context.Background(), RegisterInput{Name: "Ann", Username: "ann", Email: "ann@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrRegistrationFailed)
}

package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-platform/config"
	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-platform/internal/domain/repository"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
	"github.com/oksasatya/go-blog-platform/pkg/mailer"
	tpl "github.com/oksasatya/go-blog-platform/pkg/mailer/templates"
)

// AuthService verifies credentials, issues session tokens and runs the
// password reset flow.
type AuthService struct {
	Repo      repo.UserRepository
	Tokens    TokenIssuer
	Mailer    mailer.Mailer
	Passwords PasswordGenerator
	Pub       JobPublisher
	Index     UserIndex
	Cfg       *config.Config
	Logger    *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, tokens TokenIssuer, m mailer.Mailer, pub JobPublisher, index UserIndex, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Repo:      repo,
		Tokens:    tokens,
		Mailer:    m,
		Passwords: PasswordGenerator{Length: cfg.ResetPasswordLength},
		Pub:       pub,
		Index:     index,
		Cfg:       cfg,
		Logger:    logger,
	}
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	IP         string
	UserAgent  string
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"-"`
	User      entity.UserDetail `json:"user"`
}

// Login returns ErrInvalidCredentials for a wrong password, an unknown email
// and an unavailable store alike.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	u, ok := s.Repo.FindByEmailAndPassword(ctx, in.Email, in.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.Tokens.GenerateToken(u.ID, string(u.Role), in.RememberMe)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		}
		return nil, err
	}
	s.notifyLogin(ctx, u, in)
	return &LoginResult{Token: token, ExpiresAt: exp, User: *u}, nil
}

// notifyLogin enqueues a best-effort "new login" email. It never fails the login.
func (s *AuthService) notifyLogin(ctx context.Context, u *entity.UserDetail, in LoginInput) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	data := tpl.NewLoginNotificationData(s.Cfg, u.Name, u.Username, u.Email,
		tpl.WithTime(time.Now()),
		tpl.WithIP(in.IP),
		tpl.WithUserAgent(in.UserAgent),
	)
	job := mailer.EmailJob{To: u.Email, Template: tpl.LoginNotification, Data: data}
	c, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.Pub.PublishJSON(c, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish login notification")
	}
}

// RequestPasswordReset mails a fresh credential to the owner of email and
// persists it only once delivery succeeded. The credential is never returned.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) bool {
	log := s.logger().WithField("email", email)

	u := s.Repo.FindByEmail(ctx, email)
	if u == nil {
		log.Info("password reset requested for unknown email")
		return false
	}
	if s.Mailer == nil {
		log.WithError(mailer.ErrNotConfigured).Error("password reset unavailable")
		return false
	}

	newPassword, err := s.Passwords.Generate()
	if err != nil {
		log.WithError(err).Error("generate reset password failed")
		return false
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		log.WithError(err).Error("hash reset password failed")
		return false
	}
	subject, text, html, err := ComposeResetEmail(s.config(), u, newPassword)
	if err != nil {
		log.WithError(err).Error("render reset email failed")
		return false
	}

	if err := s.sendMail(ctx, u.Email, subject, text, html); err != nil {
		log.WithError(err).Error("send reset email failed")
		return false
	}

	u.Password = hash
	if !s.Repo.Save(ctx, u) {
		log.WithField("user_id", u.ID).Error("reset password mailed but not persisted")
		return false
	}
	log.WithField("user_id", u.ID).Info("password reset")
	return true
}

func (s *AuthService) sendMail(ctx context.Context, to, subject, text, html string) error {
	if s.Cfg != nil && s.Cfg.MailTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Cfg.MailTimeout)
		defer cancel()
	}
	return s.Mailer.Send(ctx, to, subject, text, html)
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates a user with a hashed credential.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.UserDetail, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := entity.NewRegisteredUser(in.Name, in.Username, in.Email, hash)
	if !s.Repo.Save(ctx, u) {
		return nil, ErrRegistrationFailed
	}
	if s.Index != nil {
		if err := s.Index.Index(ctx, u); err != nil {
			s.logger().WithError(err).WithField("user_id", u.ID).Warn("index user failed")
		}
	}
	d := u.Detail()
	return &d, nil
}

func (s *AuthService) logger() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}

func (s *AuthService) config() *config.Config {
	if s.Cfg != nil {
		return s.Cfg
	}
	return &config.Config{}
}

// Package services holds the client-side flows that keep the session store
// in step with the API.
package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-platform/internal/client/api"
	"github.com/oksasatya/go-blog-platform/internal/client/session"
	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
)

var (
	// ErrAuthenticationFailed is the only error a failed login reports.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotLoggedIn          = errors.New("not logged in")
)

// API is the subset of api.Client the flows use.
type API interface {
	Login(ctx context.Context, email, password string, remember bool) (*api.LoginResponse, error)
	Register(ctx context.Context, in api.RegisterRequest) (*entity.UserDetail, error)
	RequestReset(ctx context.Context, email string) (bool, error)
	Profile(ctx context.Context, token string) (*entity.UserDetail, error)
	Logout(ctx context.Context, token string) error
}

var _ API = (*api.Client)(nil)

type AuthService struct {
	API    API
	Store  *session.Store
	Logger *logrus.Logger
}

func NewAuthService(a API, store *session.Store, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{API: a, Store: store, Logger: logger}
}

// Login stores the session on success. Any failure clears the stored
// session, including one that existed before the attempt.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*session.Session, error) {
	res, err := s.API.Login(ctx, email, password, remember)
	if err != nil || res == nil || res.Token == "" {
		s.Logger.WithError(err).Debug("login rejected")
		s.clear(ctx)
		return nil, ErrAuthenticationFailed
	}
	sess := session.Session{Token: res.Token, User: res.User}
	if err := s.Store.Write(ctx, sess); err != nil {
		s.Logger.WithError(err).Error("persist session failed")
		s.clear(ctx)
		return nil, ErrAuthenticationFailed
	}
	return &sess, nil
}

// Logout tells the server and drops the local session either way.
func (s *AuthService) Logout(ctx context.Context) error {
	if snap := s.Store.Snapshot(); snap.Session != nil {
		if err := s.API.Logout(ctx, snap.Session.Token); err != nil && !errors.Is(err, api.ErrUnauthorized) {
			s.Logger.WithError(err).Warn("server logout failed")
		}
	}
	return s.Store.Clear(ctx)
}

// Whoami fetches the current profile. A rejected token clears the session.
func (s *AuthService) Whoami(ctx context.Context) (*entity.UserDetail, error) {
	snap := s.Store.Snapshot()
	if !snap.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	u, err := s.API.Profile(ctx, snap.Session.Token)
	if errors.Is(err, api.ErrUnauthorized) {
		s.clear(ctx)
		return nil, ErrNotLoggedIn
	}
	return u, err
}

func (s *AuthService) RequestReset(ctx context.Context, email string) (bool, error) {
	return s.API.RequestReset(ctx, email)
}

func (s *AuthService) Register(ctx context.Context, in api.RegisterRequest) (*entity.UserDetail, error) {
	return s.API.Register(ctx, in)
}

func (s *AuthService) clear(ctx context.Context) {
	if err := s.Store.Clear(ctx); err != nil {
		s.Logger.WithError(err).Warn("clear session failed")
	}
}

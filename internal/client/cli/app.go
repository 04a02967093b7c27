// Package cli implements the blogctl command tree.
package cli

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-platform/internal/client/api"
	"github.com/oksasatya/go-blog-platform/internal/client/services"
	"github.com/oksasatya/go-blog-platform/internal/client/session"
)

// Options are the global flags shared by every command.
type Options struct {
	Server      string
	SessionPath string
	Timeout     time.Duration
	Verbose     bool
}

// App is everything a command needs. The session store is created once here
// and handed to the services and the gate.
type App struct {
	Store *session.Store
	Auth  *services.AuthService

	close     func() error
	closeOnce sync.Once
	closeErr  error
}

// Close releases the session database. Calls after the first return its result.
func (a *App) Close() error {
	if a == nil || a.close == nil {
		return nil
	}
	a.closeOnce.Do(func() { a.closeErr = a.close() })
	return a.closeErr
}

// Opener builds an App for the given options.
type Opener func(ctx context.Context, o Options) (*App, error)

// OpenApp opens the local session database and loads the stored session.
func OpenApp(ctx context.Context, o Options) (*App, error) {
	kv, err := session.OpenSQLite(ctx, o.SessionPath)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if o.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	store := session.NewStore(kv)
	if err := store.Load(ctx); err != nil {
		logger.WithError(err).Warn("stored session unreadable, starting logged out")
	}
	client := api.New(o.Server, o.Timeout)
	return &App{
		Store: store,
		Auth:  services.NewAuthService(client, store, logger),
		close: kv.Close,
	}, nil
}

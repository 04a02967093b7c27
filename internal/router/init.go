package router

import (
	"github.com/oksasatya/go-blog-platform/internal/application"
	"github.com/oksasatya/go-blog-platform/internal/container"
	pginfra "github.com/oksasatya/go-blog-platform/internal/infrastructure/postgres"
	"github.com/oksasatya/go-blog-platform/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-blog-platform/internal/interface/http"
	"github.com/oksasatya/go-blog-platform/internal/router/modules"
)

type ModuleDeps struct {
	AuthService *application.AuthService
	UserService *application.UserService
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	policy := container.GetCallPolicy()

	files := pginfra.NewFileRepository(container.GetPGPool(), policy, logger)
	users := pginfra.NewUserRepository(container.GetPGPool(), files, policy, logger)
	index := search.NewUsersIndex(container.GetES(), cfg.ESUsersIndex)

	// optional collaborators stay untyped nil when not configured
	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var storage application.ObjectStorage
	if b := container.GetAvatarBucket(); b != nil {
		storage = b
	}

	authSvc := application.NewAuthService(users, container.GetJWT(), container.GetMailer(), pub, index, cfg, logger)
	userSvc := application.NewUserService(users, files, storage, index, logger)

	return ModuleDeps{
		AuthService: authSvc,
		UserService: userSvc,
		AuthHandler: handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		UserHandler: handlers.NewUserHandler(userSvc, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewAuthModule(deps.AuthHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

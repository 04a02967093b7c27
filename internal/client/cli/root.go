package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/oksasatya/go-blog-platform/internal/client/api"
	"github.com/oksasatya/go-blog-platform/internal/client/services"
	"github.com/oksasatya/go-blog-platform/internal/client/session"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "blogctl-session.db"
	}
	return filepath.Join(dir, "blogctl", "session.db")
}

// NewRootCmd creates the blogctl command tree. open is called once before
// any subcommand runs. The returned func closes what open produced; call it
// after Execute whatever the outcome, since cobra skips post-run hooks when a
// command fails.
func NewRootCmd(open Opener) (*cobra.Command, func() error) {
	opts := &Options{}
	var app *App

	cmd := &cobra.Command{
		Use:           "blogctl",
		Short:         "Command line client for the blog platform",
		Long:          `blogctl logs in to the blog platform API, keeps the session on disk and runs account commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if dir := filepath.Dir(opts.SessionPath); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return fmt.Errorf("create session dir: %w", err)
				}
			}
			a, err := open(cmd.Context(), *opts)
			if err != nil {
				return fmt.Errorf("open session: %w", err)
			}
			app = a
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", getenv("BLOG_API_URL", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.SessionPath, "session", getenv("BLOG_SESSION_DB", defaultSessionPath()), "session database path")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	appFn := func() *App { return app }
	cmd.AddCommand(newLoginCmd(appFn))
	cmd.AddCommand(newLogoutCmd(appFn))
	cmd.AddCommand(newWhoamiCmd(appFn))
	cmd.AddCommand(newResetPasswordCmd(appFn))
	cmd.AddCommand(newRegisterCmd(appFn))
	return cmd, func() error { return app.Close() }
}

func newLoginCmd(app func() *App) *cobra.Command {
	var email, password string
	var remember bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app().Auth.Login(cmd.Context(), email, password, remember)
			if err != nil {
				return err
			}
			cmd.Printf("logged in as %s\n", sess.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&remember, "remember", false, "request a long-lived session")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app().Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("logged out")
			return nil
		},
	}
}

// newWhoamiCmd is a protected view: it renders only through the session gate.
func newWhoamiCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			gate := session.Mount(a.Store)
			defer gate.Unmount()

			select {
			case <-gate.Ready():
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}

			if gate.Render().Outcome == session.RenderContent {
				u, err := a.Auth.Whoami(cmd.Context())
				if err != nil && !errors.Is(err, services.ErrNotLoggedIn) {
					return err
				}
				if err == nil {
					cmd.Printf("%s <%s> (%s)\n", u.Username, u.Email, u.Role)
					return nil
				}
			}
			d := gate.Render()
			cmd.Printf("not logged in, redirecting to %s\n", d.Location)
			return services.ErrNotLoggedIn
		},
	}
}

func newResetPasswordCmd(app func() *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Mail a new password to the account owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sent, err := app().Auth.RequestReset(cmd.Context(), email)
			if err != nil {
				return err
			}
			if !sent {
				return errors.New("password reset failed")
			}
			cmd.Println("a new password has been sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(app func() *App) *cobra.Command {
	var in api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := app().Auth.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("registered %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Username, "username", "", "username")
	cmd.Flags().StringVar(&in.Email, "email", "", "email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	for _, f := range []string{"name", "username", "email", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"quill-cli/internal/api"
	"quill-cli/internal/session"
	"quill-cli/internal/store"
	"quill-cli/internal/tui"

	"github.com/spf13/cobra"
)

const defaultServerURL = "http://127.0.0.1:5000"

type App struct {
	Dir        string
	Server     string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "quill",
		Short:        "Quill blog client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  quill

  # Scriptable commands
  quill posts list --page 2 --search cats
  quill login --email me@example.com --password 'Secret123'
  quill posts delete 7
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("QUILL_DIR", ""), "Path to client state dir (advanced; for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("QUILL_SERVER", ""), "Blog backend base URL (default: config, then "+defaultServerURL+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newPostsCmd(app))
	cmd.AddCommand(newContactCmd(app))
	cmd.AddCommand(newForgotPasswordCmd(app))
	cmd.AddCommand(newResetPasswordCmd(app))

	return cmd
}

func runTUI(app *App) error {
	st, err := store.Open(app.Dir)
	if err != nil {
		return err
	}
	return tui.Run(app.serverURL(st), st)
}

func (app *App) serverURL(st store.Store) string {
	if s := strings.TrimSpace(app.Server); s != "" {
		return s
	}
	if cfg, err := st.LoadConfig(); err == nil && strings.TrimSpace(cfg.ServerURL) != "" {
		return cfg.ServerURL
	}
	return defaultServerURL
}

// deps bundles the wiring every command needs.
type deps struct {
	store   store.Store
	client  *api.Client
	session *session.Manager
}

func (app *App) wire() (deps, error) {
	st, err := store.Open(app.Dir)
	if err != nil {
		return deps{}, err
	}
	return deps{
		store:   st,
		client:  api.NewClient(app.serverURL(st)),
		session: session.NewManager(st),
	}, nil
}

var errNotLoggedIn = errors.New("not logged in (run: quill login)")

// requireToken gates private commands: no token => fail before any request.
func (d deps) requireToken(ctx context.Context) (string, error) {
	tok, ok := d.session.Token(ctx)
	if !ok {
		return "", errNotLoggedIn
	}
	return tok, nil
}

// privateErr applies the global auth-failure policy to an error from a
// private endpoint: a 401 clears the session and tells the user to log in
// again; anything else passes through verbatim.
func (d deps) privateErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	redirect, clearErr := d.session.HandleAuthFailure(ctx, err)
	if !redirect {
		return err
	}
	if clearErr != nil {
		return fmt.Errorf("session expired, and clearing the stale token failed: %w (run: quill logout)", clearErr)
	}
	return errors.New("session expired; run: quill login")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

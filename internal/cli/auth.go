package cli

import (
	"errors"
	"fmt"

	"quill-cli/internal/form"
	"quill-cli/internal/format"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Client-side checks run first and block the request entirely.
			if !form.ValidEmail(email) {
				return errors.New("invalid email format")
			}
			if password == "" {
				return errors.New("password is required")
			}

			d, err := app.wire()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			token, err := d.client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := d.session.SetToken(ctx, token); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"loggedIn": true}, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Destroy the persisted session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.wire()
			if err != nil {
				return err
			}
			if err := d.session.Clear(cmd.Context()); err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"loggedIn": false}, app.PrettyJSON)
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated author's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.wire()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			token, err := d.requireToken(ctx)
			if err != nil {
				return err
			}
			user, err := d.client.Profile(ctx, token)
			if err != nil {
				return d.privateErr(ctx, err)
			}
			return format.WriteJSON(cmd.OutOrStdout(), user, app.PrettyJSON)
		},
	}
}

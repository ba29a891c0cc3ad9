package cli

import (
	"errors"

	"quill-cli/internal/api"
	"quill-cli/internal/form"
	"quill-cli/internal/format"

	"github.com/spf13/cobra"
)

func newRegisterCmd(app *App) *cobra.Command {
	var reg api.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new author account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !form.ValidEmail(reg.Email) {
				return errors.New("invalid email format")
			}
			if !form.ValidPassword(reg.Password) {
				return errors.New("password must be at least 8 characters, include a number and an uppercase letter")
			}

			d, err := app.wire()
			if err != nil {
				return err
			}
			if err := d.client.Register(cmd.Context(), reg); err != nil {
				// Field-scoped server errors print as a field=>message object.
				if fe, ok := api.AsFieldErrors(err); ok {
					return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"errors": fe}, app.PrettyJSON)
				}
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"registered": true}, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&reg.DOB, "dob", "", "Date of birth")
	cmd.Flags().StringVar(&reg.Place, "place", "", "Place")
	cmd.Flags().StringVar(&reg.Address, "address", "", "Address")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password")
	cmd.Flags().StringVar(&reg.ImagePath, "image", "", "Path to the profile image")
	for _, f := range []string{"name", "dob", "place", "address", "email", "password", "image"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newContactCmd(app *App) *cobra.Command {
	var msg api.ContactMessage

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the site owners",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.wire()
			if err != nil {
				return err
			}
			reply, err := d.client.Contact(cmd.Context(), msg)
			if err != nil {
				if fe, ok := api.AsFieldErrors(err); ok {
					return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"errors": fe}, app.PrettyJSON)
				}
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"message": reply}, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&msg.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&msg.Email, "email", "", "Your email")
	cmd.Flags().StringVar(&msg.Phone, "phone", "", "Your phone number")
	cmd.Flags().StringVar(&msg.Message, "message", "", "Message body")
	for _, f := range []string{"name", "email", "phone", "message"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newForgotPasswordCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !form.ValidEmail(email) {
				return errors.New("invalid email format")
			}
			d, err := app.wire()
			if err != nil {
				return err
			}
			if err := d.client.ForgotPassword(cmd.Context(), email); err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"sent": true}, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd(app *App) *cobra.Command {
	var newPassword, confirmPassword string

	cmd := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password using an emailed reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !form.ValidPassword(newPassword) {
				return errors.New("password must be at least 8 characters, include a number and an uppercase letter")
			}
			if newPassword != confirmPassword {
				return errors.New("passwords do not match")
			}

			d, err := app.wire()
			if err != nil {
				return err
			}
			if err := d.client.ResetPassword(cmd.Context(), args[0], newPassword, confirmPassword); err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{"reset": true}, app.PrettyJSON)
		},
	}

	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password")
	cmd.Flags().StringVar(&confirmPassword, "confirm-password", "", "Confirmation of the new password")
	_ = cmd.MarkFlagRequired("new-password")
	_ = cmd.MarkFlagRequired("confirm-password")
	return cmd
}

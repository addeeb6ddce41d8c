package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/api"
	"github.com/roach88/shopfront/internal/forms"
	"github.com/roach88/shopfront/internal/state"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var in api.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account and go to the login view.

Example:
  shopfront register --username ada --email ada@example.com --password secret1`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := forms.Registration(in)
			if err != nil {
				return failure(err)
			}
			return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
				res, err := a.Client.Register(ctx, reg)
				if err != nil {
					return failure(err)
				}
				a.Logger.Debug("registered", "user_id", res.User.ID)
				a.Store.Dispatch(state.SetView{View: state.ViewLogin})
				return a.Out.Success(Notice{Message: "Registration successful! Please log in."})
			})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "username (no spaces, at most 50 characters)")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (at least 6 characters)")

	return cmd
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var in api.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := forms.Login(in); err != nil {
				return failure(err)
			}
			return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
				res, err := a.Client.Login(ctx, in)
				if err != nil {
					return failure(err)
				}
				user := res.User
				a.Store.Dispatch(state.SetUser{User: &user, Token: res.AccessToken})
				a.Store.Dispatch(state.SetView{View: state.ViewHome})
				return a.Out.Success(Notice{Message: fmt.Sprintf("Logged in as %s.", user.Username)})
			})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "username")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(_ context.Context, a *App) error {
				a.Store.Dispatch(state.SetUser{})
				a.Store.Dispatch(state.SetView{View: state.ViewHome})
				return a.Out.Success(Notice{Message: "Logged out."})
			})
		},
	}
}

// NewForgotPasswordCommand creates the forgot-password command.
func NewForgotPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := forms.ForgotPassword(email); err != nil {
				return failure(err)
			}
			return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
				msg, err := a.Client.ForgotPassword(ctx, email)
				if err != nil {
					return failure(err)
				}
				a.Store.Dispatch(state.SetView{View: state.ViewForgotPassword})
				return a.Out.Success(Notice{Message: msg})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email address")

	return cmd
}

// NewResetPasswordCommand creates the reset-password command.
func NewResetPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using the token from the reset email",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := forms.ResetPassword(token, password); err != nil {
				return failure(err)
			}
			return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
				msg, err := a.Client.ResetPassword(ctx, token, password)
				if err != nil {
					return failure(err)
				}
				a.Store.Dispatch(state.SetView{View: state.ViewLogin})
				return a.Out.Success(Notice{Message: msg})
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "reset token")
	cmd.Flags().StringVar(&password, "password", "", "new password (at least 6 characters)")

	return cmd
}

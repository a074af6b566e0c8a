package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/planner-backend/internal/app"
	"github.com/Tomlord1122/planner-backend/internal/auth"
	"github.com/Tomlord1122/planner-backend/internal/database"
	"github.com/Tomlord1122/planner-backend/internal/service"
)

func (e *env) userCmd() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage household accounts",
	}

	var email, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := readPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = pw
			}
			return e.withDB(func(db database.Service) error {
				services := app.NewServices(app.NewRepositories(db.GetDB()), e.dates(), nil, e.cfg.SessionTTL)
				session, err := services.Auth.SignUp(cmd.Context(), service.CredentialsRequest{Email: email, Password: password})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(e.out, "%s %s (id %d)\n",
					successStyle.Render("✓ Created"), session.User.Email, session.User.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&email, "email", "", "account email address")
	add.Flags().StringVar(&password, "password", "", "initial password (prompted for when omitted)")
	_ = add.MarkFlagRequired("email")

	var resetEmail string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Issue a password reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(func(db database.Service) error {
				services := app.NewServices(app.NewRepositories(db.GetDB()), e.dates(), nil, e.cfg.SessionTTL)
				if err := services.Auth.RequestReset(cmd.Context(), service.ResetRequest{Email: resetEmail}); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(e.out, "Reset requested; the token is written to the server log.")
				return nil
			})
		},
	}
	reset.Flags().StringVar(&resetEmail, "email", "", "account email address")
	_ = reset.MarkFlagRequired("email")

	user.AddCommand(add, reset)
	return user
}

func hashPasswordCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the stored form of a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				pw, err := readPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = pw
			}
			if len([]rune(password)) < auth.MinPasswordLength {
				return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, hash)
			return nil
		},
	}
}

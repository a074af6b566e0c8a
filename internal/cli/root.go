// Package cli implements plannerctl, the maintenance command line for the
// planner database.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/planner-backend/internal/app"
	"github.com/Tomlord1122/planner-backend/internal/config"
	"github.com/Tomlord1122/planner-backend/internal/database"
	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
)

// Connector opens the database. Tests replace it.
type Connector func(cfg config.Config) (database.Service, error)

type env struct {
	cfg     config.Config
	connect Connector
	out     io.Writer
}

// NewRootCmd builds the command tree writing to out.
func NewRootCmd(cfg config.Config, connect Connector, out io.Writer) *cobra.Command {
	e := &env{cfg: cfg, connect: connect, out: out}

	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Maintain the household planner",
		Long:          `plannerctl runs migrations, manages accounts and prints the upcoming list straight from the planner database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(
		e.migrateCmd(),
		e.userCmd(),
		e.upcomingCmd(),
		e.exportCmd(),
		e.sessionsCmd(),
		hashPasswordCmd(out),
	)
	return root
}

// withDB opens the database for the duration of fn.
func (e *env) withDB(fn func(db database.Service) error) error {
	db, err := e.connect(e.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func (e *env) dates() *dates.Service {
	return dates.New(e.cfg.Timezone, e.cfg.Locale)
}

// findUser resolves an account by email address.
func findUser(ctx context.Context, repos app.Repositories, email string) (*domain.User, error) {
	user, err := repos.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return user, nil
}

func (e *env) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(func(db database.Service) error {
				if err := db.Migrate(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(e.out, successStyle.Render("✓ Database schema is up to date"))
				return nil
			})
		},
	}
}

func (e *env) sessionsCmd() *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Manage sign-in sessions",
	}
	sessions.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(func(db database.Service) error {
				repos := app.NewRepositories(db.GetDB())
				n, err := repos.Sessions.DeleteExpired(cmd.Context(), e.dates().Now())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(e.out, "Deleted %d expired session(s)\n", n)
				return nil
			})
		},
	})
	return sessions
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Tomlord1122/planner-backend/internal/app"
	"github.com/Tomlord1122/planner-backend/internal/database"
	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/export"
	"github.com/Tomlord1122/planner-backend/internal/service"
	"github.com/Tomlord1122/planner-backend/internal/upcoming"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	pastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var assignmentFlags = map[string]domain.Assignment{
	"all":    domain.AssignmentAll,
	"mine":   domain.AssignmentMine,
	"shared": domain.AssignmentShared,
}

var typeFlags = map[string]domain.EntryType{
	"":            0,
	"appointment": domain.EntryAppointment,
	"todo":        domain.EntryTodo,
}

func (e *env) upcomingCmd() *cobra.Command {
	var email, assignment, search, typ string
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Print the upcoming list of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ok := assignmentFlags[assignment]
			if !ok {
				return fmt.Errorf("unknown assignment %q (all, mine, shared)", assignment)
			}
			t, ok := typeFlags[typ]
			if !ok {
				return fmt.Errorf("unknown type %q (appointment, todo)", typ)
			}

			return e.withDB(func(db database.Service) error {
				repos := app.NewRepositories(db.GetDB())
				user, err := findUser(cmd.Context(), repos, email)
				if err != nil {
					return err
				}
				d := e.dates()
				services := app.NewServices(repos, d, nil, e.cfg.SessionTTL)
				groups, err := services.Upcoming.GetUpcoming(cmd.Context(), user.ID, service.UpcomingQuery{
					Assignment: a,
					Search:     search,
					Type:       t,
				})
				if err != nil {
					return err
				}
				RenderGroups(e.out, d, groups)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "user", "", "email of the account whose list to show")
	cmd.Flags().StringVar(&assignment, "assignment", "all", "all, mine or shared")
	cmd.Flags().StringVarP(&search, "search", "q", "", "only entries whose name contains this text")
	cmd.Flags().StringVar(&typ, "type", "", "appointment or todo")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// RenderGroups prints the grouped list, one heading per day.
func RenderGroups(w io.Writer, d *dates.Service, groups []upcoming.Group) {
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(w, "Nothing planned.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		heading := headerStyle.Render(groupLabel(d, g))
		if g.Date != nil {
			heading += " " + dateStyle.Render(g.Name)
		}
		_, _ = fmt.Fprintln(w, heading)
		_, _ = fmt.Fprintln(w, strings.Repeat("-", 30))

		for _, entry := range g.Entries {
			_, _ = fmt.Fprintln(w, renderEntry(entry))
		}
	}
}

// groupLabel is the Today/Tomorrow/weekday label of a dated group and the
// "no date" label otherwise.
func groupLabel(d *dates.Service, g upcoming.Group) string {
	if g.Date == nil {
		return d.NoDateLabel()
	}
	if g.DayName != "" {
		return g.DayName
	}
	return d.DayLabel(g.Date)
}

func renderEntry(e upcoming.Entry) string {
	marker := "•"
	if e.Type == domain.EntryTodo {
		marker = "[ ]"
		if e.Done {
			marker = "[x]"
		}
	}

	name := e.Name
	switch {
	case e.Done:
		name = doneStyle.Render(name)
	case e.Past:
		name = pastStyle.Render(name)
	}

	line := "  " + marker + " "
	if e.Time != nil {
		line += timeStyle.Render(*e.Time) + " "
	}
	line += name
	if e.UserID == nil {
		line += dateStyle.Render(" (shared)")
	}
	return line
}

func (e *env) exportCmd() *cobra.Command {
	var email, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an account's dated entries as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withDB(func(db database.Service) error {
				repos := app.NewRepositories(db.GetDB())
				user, err := findUser(cmd.Context(), repos, email)
				if err != nil {
					return err
				}
				d := e.dates()
				services := app.NewServices(repos, d, nil, e.cfg.SessionTTL)
				entries, err := services.Upcoming.CalendarEntries(cmd.Context(), user.ID)
				if err != nil {
					return err
				}

				w := e.out
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				cal := export.Calendar{Name: "Household planner", Location: d.Location(), Now: d.Now()}
				if err := export.WriteICS(w, cal, entries); err != nil {
					return err
				}
				if w != e.out {
					_, _ = fmt.Fprintf(e.out, "%s %d entries to %s\n", successStyle.Render("✓ Wrote"), len(entries), output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "user", "", "email of the account to export")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, - for standard output")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

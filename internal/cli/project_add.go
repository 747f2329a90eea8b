package cli

import (
	"fmt"
	"strings"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/spf13/cobra"
)

var projectAddCmd = LeafCommand{
	Use:   "add NAME",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "team", Shorthand: "t", Usage: "owning team (defaults to the first team)"},
		{Name: "status", Shorthand: "s", Usage: "in_progress, completed or on_hold", Default: record.StatusInProgress},
		{Name: "start", Usage: "start date (YYYY-MM-DD)"},
		{Name: "end", Usage: "end date (YYYY-MM-DD)"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		team, _ := cmd.Flags().GetString("team")
		status, _ := cmd.Flags().GetString("status")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		return runProjectAdd(cmd, env, record.Project{
			Name:      args[0],
			Team:      team,
			Status:    status,
			StartDate: start,
			EndDate:   end,
		})
	}),
}.Build()

func runProjectAdd(cmd *cobra.Command, env *appEnv, p record.Project) error {
	if err := env.authorize(auth.ActionManageProjects); err != nil {
		return err
	}

	if err := oneOfFlag("status", p.Status, record.ProjectStatuses); err != nil {
		return err
	}
	var err error
	if p.StartDate, err = parseDateFlag("start", p.StartDate); err != nil {
		return err
	}
	if p.EndDate, err = parseDateFlag("end", p.EndDate); err != nil {
		return err
	}

	if strings.TrimSpace(p.Team) == "" {
		teams, err := env.store.ListTeams()
		if err != nil {
			return err
		}
		if len(teams) == 0 {
			return fmt.Errorf("no teams yet; create one with 'evdash team add' or pass --team")
		}
		p.Team = teams[0].Name
	}

	created, err := env.store.CreateProject(p)
	if err != nil {
		return err
	}
	logging.Default().Debug("project created", logging.F("id", created.ID), logging.F("team", created.Team))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("project '%s' created (%s)", Primary(created.Name), Silent(idLabel(created.ID)))))
	return nil
}

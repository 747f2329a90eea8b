package cli

import (
	"fmt"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/spf13/cobra"
)

var teamCmd = GroupCommand{
	Use:     "team",
	Short:   "Manage teams",
	Aliases: []string{"teams"},
	Subcommands: []*cobra.Command{
		teamAddCmd,
		teamListCmd,
		teamEditCmd,
		teamRemoveCmd,
	},
}.Build()

var teamAddCmd = LeafCommand{
	Use:   "add NAME",
	Short: "Create a new team",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		return runTeamAdd(cmd, env, args[0])
	}),
}.Build()

var teamListCmd = LeafCommand{
	Use:     "list",
	Short:   "List teams with their project counts",
	Aliases: []string{"ls"},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		return runTeamList(cmd, env)
	}),
}.Build()

var teamEditCmd = LeafCommand{
	Use:   "edit ID NAME",
	Short: "Rename a team",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runTeamEdit(cmd, env, id, args[1])
	}),
}.Build()

var teamRemoveCmd = LeafCommand{
	Use:     "remove ID",
	Short:   "Delete a team",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	BoolFlags: []BoolFlag{
		{Name: "yes", Shorthand: "y", Usage: "skip confirmation prompt"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		return runTeamRemove(cmd, env, id, ResolveConfirmFunc(cmd, yes))
	}),
}.Build()

func runTeamAdd(cmd *cobra.Command, env *appEnv, name string) error {
	if err := env.authorize(auth.ActionManageTeams); err != nil {
		return err
	}
	created, err := env.store.CreateTeam(record.Team{Name: name})
	if err != nil {
		return err
	}
	logging.Default().Debug("team created", logging.F("id", created.ID))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("team '%s' created (%s)", Primary(created.Name), Silent(idLabel(created.ID)))))
	return nil
}

func runTeamList(cmd *cobra.Command, env *appEnv) error {
	ds, err := env.store.Snapshot()
	if err != nil {
		return err
	}
	if len(ds.Teams) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("No teams found."))
		return nil
	}

	counts := make(map[string]int, len(ds.Teams))
	for _, p := range ds.Projects {
		counts[p.Team]++
	}

	w := cmd.OutOrStdout()
	for _, t := range ds.Teams {
		_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
			Silent(fmt.Sprintf("%-5s", idLabel(t.ID))),
			Primary(t.Name),
			Silent(fmt.Sprintf("(%d project(s))", counts[t.Name])),
		)
	}
	return nil
}

func runTeamEdit(cmd *cobra.Command, env *appEnv, id int, name string) error {
	if err := env.authorize(auth.ActionManageTeams); err != nil {
		return err
	}
	updated, err := env.store.UpdateTeam(id, record.TeamPatch{Name: &name})
	if err != nil {
		return err
	}
	logging.Default().Debug("team updated", logging.F("id", updated.ID))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("team renamed to '%s' (%s)", Primary(updated.Name), Silent(idLabel(updated.ID)))))
	return nil
}

func runTeamRemove(cmd *cobra.Command, env *appEnv, id int, confirm ConfirmFunc) error {
	if err := env.authorize(auth.ActionManageTeams); err != nil {
		return err
	}
	team, err := env.store.GetTeam(id)
	if err != nil {
		return err
	}

	confirmed, err := confirm(fmt.Sprintf("Delete team '%s'?", team.Name))
	if err != nil {
		return err
	}
	if !confirmed {
		return errAborted
	}

	if _, err := env.store.DeleteTeam(id); err != nil {
		return err
	}
	logging.Default().Debug("team deleted", logging.F("id", id))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("team '%s' removed", Primary(team.Name))))
	return nil
}

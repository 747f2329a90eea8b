package cli

import (
	"fmt"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/spf13/cobra"
)

var projectRemoveCmd = LeafCommand{
	Use:     "remove ID",
	Short:   "Delete a project",
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
		return runProjectRemove(cmd, env, id, ResolveConfirmFunc(cmd, yes))
	}),
}.Build()

func runProjectRemove(cmd *cobra.Command, env *appEnv, id int, confirm ConfirmFunc) error {
	if err := env.authorize(auth.ActionManageProjects); err != nil {
		return err
	}

	p, err := env.store.GetProject(id)
	if err != nil {
		return err
	}

	confirmed, err := confirm(fmt.Sprintf("Delete project '%s'?", p.Name))
	if err != nil {
		return err
	}
	if !confirmed {
		return errAborted
	}

	if _, err := env.store.DeleteProject(id); err != nil {
		return err
	}
	logging.Default().Debug("project deleted", logging.F("id", id))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("project '%s' removed", Primary(p.Name))))
	return nil
}

package cli

import (
	"fmt"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/spf13/cobra"
)

var projectEditCmd = LeafCommand{
	Use:   "edit ID",
	Short: "Update fields of an existing project",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "name", Shorthand: "n", Usage: "new name"},
		{Name: "team", Shorthand: "t", Usage: "new owning team"},
		{Name: "status", Shorthand: "s", Usage: "in_progress, completed or on_hold"},
		{Name: "start", Usage: "new start date (YYYY-MM-DD)"},
		{Name: "end", Usage: "new end date (YYYY-MM-DD)"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runProjectEdit(cmd, env, id, projectPatchFromFlags(cmd))
	}),
}.Build()

func projectPatchFromFlags(cmd *cobra.Command) record.ProjectPatch {
	get := func(name string) *string {
		v, _ := cmd.Flags().GetString(name)
		return changedString(cmd.Flags().Changed(name), v)
	}
	return record.ProjectPatch{
		Name:      get("name"),
		Team:      get("team"),
		Status:    get("status"),
		StartDate: get("start"),
		EndDate:   get("end"),
	}
}

func runProjectEdit(cmd *cobra.Command, env *appEnv, id int, patch record.ProjectPatch) error {
	if err := env.authorize(auth.ActionManageProjects); err != nil {
		return err
	}
	if patch == (record.ProjectPatch{}) {
		return fmt.Errorf("nothing to change; pass at least one of --name, --team, --status, --start, --end")
	}

	if patch.Status != nil {
		if err := oneOfFlag("status", *patch.Status, record.ProjectStatuses); err != nil {
			return err
		}
	}
	for name, field := range map[string]**string{"start": &patch.StartDate, "end": &patch.EndDate} {
		if *field == nil {
			continue
		}
		v, err := parseDateFlag(name, **field)
		if err != nil {
			return err
		}
		*field = &v
	}

	updated, err := env.store.UpdateProject(id, patch)
	if err != nil {
		return err
	}
	logging.Default().Debug("project updated", logging.F("id", updated.ID))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("project '%s' updated (%s)", Primary(updated.Name), Silent(idLabel(updated.ID)))))
	return nil
}

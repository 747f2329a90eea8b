package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Flyrell/evdash/internal/analytics"
	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/export"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/spf13/cobra"
)

var milestoneCmd = GroupCommand{
	Use:     "milestone",
	Short:   "Manage milestones",
	Aliases: []string{"milestones", "ms"},
	Subcommands: []*cobra.Command{
		milestoneAddCmd,
		milestoneListCmd,
		milestoneEditCmd,
		milestoneRemoveCmd,
		milestoneExportCmd,
	},
}.Build()

var milestoneAddCmd = LeafCommand{
	Use:   "add TITLE",
	Short: "Create a new milestone",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "due", Shorthand: "d", Usage: "due date (YYYY-MM-DD)"},
		{Name: "status", Shorthand: "s", Usage: "upcoming or completed", Default: record.MilestoneUpcoming},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		due, _ := cmd.Flags().GetString("due")
		status, _ := cmd.Flags().GetString("status")
		return runMilestoneAdd(cmd, env, record.Milestone{Title: args[0], DueDate: due, Status: status})
	}),
}.Build()

var milestoneListCmd = LeafCommand{
	Use:     "list",
	Short:   "List milestones",
	Aliases: []string{"ls"},
	BoolFlags: []BoolFlag{
		{Name: "upcoming", Shorthand: "u", Usage: "only the next upcoming milestones, soonest first"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		upcoming, _ := cmd.Flags().GetBool("upcoming")
		return runMilestoneList(cmd, env, upcoming)
	}),
}.Build()

var milestoneEditCmd = LeafCommand{
	Use:   "edit ID",
	Short: "Update fields of an existing milestone",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "title", Usage: "new title"},
		{Name: "due", Shorthand: "d", Usage: "new due date (YYYY-MM-DD)"},
		{Name: "status", Shorthand: "s", Usage: "upcoming or completed"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		get := func(name string) *string {
			v, _ := cmd.Flags().GetString(name)
			return changedString(cmd.Flags().Changed(name), v)
		}
		return runMilestoneEdit(cmd, env, id, record.MilestonePatch{
			Title:   get("title"),
			DueDate: get("due"),
			Status:  get("status"),
		})
	}),
}.Build()

var milestoneRemoveCmd = LeafCommand{
	Use:     "remove ID",
	Short:   "Delete a milestone",
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
		return runMilestoneRemove(cmd, env, id, ResolveConfirmFunc(cmd, yes))
	}),
}.Build()

var milestoneExportCmd = LeafCommand{
	Use:   "export",
	Short: "Export milestones as an iCalendar file",
	StrFlags: []StringFlag{
		{Name: "output", Shorthand: "o", Usage: "output file", Default: export.DefaultICSName},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return runMilestoneExport(cmd, env, output)
	}),
}.Build()

func runMilestoneAdd(cmd *cobra.Command, env *appEnv, m record.Milestone) error {
	if err := env.authorize(auth.ActionManageMilestones); err != nil {
		return err
	}
	if err := oneOfFlag("status", m.Status, record.MilestoneStatuses); err != nil {
		return err
	}
	due, err := parseDateFlag("due", m.DueDate)
	if err != nil {
		return err
	}
	m.DueDate = due

	created, err := env.store.CreateMilestone(m)
	if err != nil {
		return err
	}
	logging.Default().Debug("milestone created", logging.F("id", created.ID))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("milestone '%s' created (%s)", Primary(created.Title), Silent(idLabel(created.ID)))))
	return nil
}

func runMilestoneList(cmd *cobra.Command, env *appEnv, upcomingOnly bool) error {
	milestones, err := env.store.ListMilestones()
	if err != nil {
		return err
	}
	if upcomingOnly {
		milestones = analytics.UpcomingMilestones(milestones, analytics.DefaultUpcomingLimit)
	}

	if len(milestones) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("No milestones found."))
		return nil
	}

	w := cmd.OutOrStdout()
	for _, m := range milestones {
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
			Silent(fmt.Sprintf("%-5s", idLabel(m.ID))),
			Text(fmt.Sprintf("%-10s", m.DueDate)),
			StatusBadge(fmt.Sprintf("%-9s", m.Status)),
			Primary(m.Title),
		)
	}
	return nil
}

func runMilestoneEdit(cmd *cobra.Command, env *appEnv, id int, patch record.MilestonePatch) error {
	if err := env.authorize(auth.ActionManageMilestones); err != nil {
		return err
	}
	if patch == (record.MilestonePatch{}) {
		return fmt.Errorf("nothing to change; pass at least one of --title, --due, --status")
	}
	if patch.Status != nil {
		if err := oneOfFlag("status", *patch.Status, record.MilestoneStatuses); err != nil {
			return err
		}
	}
	if patch.DueDate != nil {
		due, err := parseDateFlag("due", *patch.DueDate)
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}

	updated, err := env.store.UpdateMilestone(id, patch)
	if err != nil {
		return err
	}
	logging.Default().Debug("milestone updated", logging.F("id", updated.ID))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("milestone '%s' updated (%s)", Primary(updated.Title), Silent(idLabel(updated.ID)))))
	return nil
}

func runMilestoneRemove(cmd *cobra.Command, env *appEnv, id int, confirm ConfirmFunc) error {
	if err := env.authorize(auth.ActionManageMilestones); err != nil {
		return err
	}
	m, err := env.store.GetMilestone(id)
	if err != nil {
		return err
	}

	confirmed, err := confirm(fmt.Sprintf("Delete milestone '%s'?", m.Title))
	if err != nil {
		return err
	}
	if !confirmed {
		return errAborted
	}

	if _, err := env.store.DeleteMilestone(id); err != nil {
		return err
	}
	logging.Default().Debug("milestone deleted", logging.F("id", id))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("milestone '%s' removed", Primary(m.Title))))
	return nil
}

func runMilestoneExport(cmd *cobra.Command, env *appEnv, output string) error {
	milestones, err := env.store.ListMilestones()
	if err != nil {
		return err
	}

	var written int
	err = writeFile(output, func(w io.Writer) error {
		var err error
		written, err = export.WriteMilestonesICS(w, milestones, env.now())
		return err
	})
	if errors.Is(err, export.ErrNoMilestones) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("No milestones to export."))
		if len(milestones) > 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Warning(fmt.Sprintf("skipped %d milestone(s) without a valid due date", len(milestones))))
		}
		return nil
	}
	if err != nil {
		return err
	}
	logging.Default().Debug("milestones exported", logging.F("path", output), logging.F("events", written))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("exported %d milestone(s) to %s", written, Primary(output))))
	if skipped := len(milestones) - written; skipped > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Warning(fmt.Sprintf("skipped %d milestone(s) without a valid due date", skipped)))
	}
	return nil
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var seedCmd = LeafCommand{
	Use:   "seed FILE",
	Short: "Replace all data with a {projects, teams, milestones} JSON dataset",
	Args:  cobra.ExactArgs(1),
	Example: `  evdash seed fixtures.json --yes
  cat fixtures.json | evdash seed -`,
	BoolFlags: []BoolFlag{
		{Name: "yes", Shorthand: "y", Usage: "skip confirmation prompt"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return runSeed(cmd, env, args[0], ResolveConfirmFunc(cmd, yes))
	}),
}.Build()

func runSeed(cmd *cobra.Command, env *appEnv, path string, confirm ConfirmFunc) error {
	if err := env.authorize(auth.ActionManageProjects); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	var ds record.Dataset
	if err := sonic.Unmarshal(data, &ds); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	existing, err := env.store.Snapshot()
	if err != nil {
		return err
	}
	if len(existing.Projects)+len(existing.Teams)+len(existing.Milestones) > 0 {
		confirmed, err := confirm("Replace all existing projects, teams and milestones?")
		if err != nil {
			return err
		}
		if !confirmed {
			return errAborted
		}
	}

	if err := env.store.Seed(ds); err != nil {
		return err
	}
	logging.Default().Info("dataset seeded",
		logging.F("projects", len(ds.Projects)),
		logging.F("teams", len(ds.Teams)),
		logging.F("milestones", len(ds.Milestones)),
	)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("seeded %d project(s), %d team(s), %d milestone(s)",
		len(ds.Projects), len(ds.Teams), len(ds.Milestones))))
	return nil
}

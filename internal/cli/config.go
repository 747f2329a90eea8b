package cli

import (
	"fmt"
	"os"

	"github.com/Flyrell/evdash/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = GroupCommand{
	Use:   "config",
	Short: "Read and change evdash settings",
	Subcommands: []*cobra.Command{
		configGetCmd,
		configSetCmd,
		configShowCmd,
		configResetCmd,
	},
}.Build()

var configGetCmd = LeafCommand{
	Use:   "get KEY",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, cfgPath, err := configPaths(cmd)
		if err != nil {
			return err
		}
		return runConfigGet(cmd, homeDir, cfgPath, args[0])
	},
}.Build()

var configSetCmd = LeafCommand{
	Use:   "set KEY VALUE",
	Short: "Change a setting in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, cfgPath, err := configPaths(cmd)
		if err != nil {
			return err
		}
		return runConfigSet(cmd, homeDir, cfgPath, args[0], args[1])
	},
}.Build()

var configShowCmd = LeafCommand{
	Use:     "show",
	Short:   "Print every effective setting",
	Aliases: []string{"list"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, cfgPath, err := configPaths(cmd)
		if err != nil {
			return err
		}
		return runConfigShow(cmd, homeDir, cfgPath)
	},
}.Build()

var configResetCmd = LeafCommand{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	BoolFlags: []BoolFlag{
		{Name: "yes", Shorthand: "y", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, cfgPath, err := configPaths(cmd)
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		return runConfigReset(cmd, homeDir, cfgPath, ResolveConfirmFunc(cmd, yes))
	},
}.Build()

func init() {
	keys := func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.Default("").Keys(), cobra.ShellCompDirectiveNoFileComp
	}
	configGetCmd.ValidArgsFunction = keys
	configSetCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return keys(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

// configPaths resolves the home directory and the --config file location.
func configPaths(cmd *cobra.Command) (string, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = config.Path(homeDir)
	}
	return homeDir, cfgPath, nil
}

func runConfigGet(cmd *cobra.Command, homeDir, cfgPath, key string) error {
	cfg, err := config.Load(homeDir, cfgPath)
	if err != nil {
		return err
	}
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// runConfigSet edits the file contents only, so environment overrides are
// never persisted.
func runConfigSet(cmd *cobra.Command, homeDir, cfgPath, key, value string) error {
	cfg, err := config.Read(homeDir, cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Write(cfgPath, cfg); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("%s set to '%s'", Primary(key), stored)))
	return nil
}

func runConfigShow(cmd *cobra.Command, homeDir, cfgPath string) error {
	cfg, err := config.Load(homeDir, cfgPath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s\n", Silent("# "+cfgPath))
	for _, key := range cfg.Keys() {
		value, _ := cfg.Get(key)
		if value == "" {
			value = Silent("(unset)")
		}
		_, _ = fmt.Fprintf(w, "%s = %s\n", Primary(padRight(key, 20)), Text(value))
	}
	return nil
}

func runConfigReset(cmd *cobra.Command, homeDir, cfgPath string, confirm ConfirmFunc) error {
	confirmed, err := confirm("Reset all settings to their defaults?")
	if err != nil {
		return err
	}
	if !confirmed {
		return errAborted
	}
	if err := config.Write(cfgPath, config.Default(homeDir)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("settings reset (%s)", Silent(cfgPath))))
	return nil
}

package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "evdash",
	Short:        "EV engineering dashboard: projects, teams, milestones and timelines",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.evdash/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	rootCmd.AddCommand(
		projectCmd,
		teamCmd,
		milestoneCmd,
		timelineCmd,
		reportCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		themeCmd,
		serveCmd,
		seedCmd,
		configCmd,
		completionCmd,
		versionCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command, for tools that walk the command tree.
func Root() *cobra.Command {
	return rootCmd
}

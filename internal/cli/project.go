package cli

import "github.com/spf13/cobra"

var projectCmd = GroupCommand{
	Use:     "project",
	Short:   "Manage projects",
	Aliases: []string{"projects"},
	Subcommands: []*cobra.Command{
		projectAddCmd,
		projectListCmd,
		projectEditCmd,
		projectRemoveCmd,
	},
}.Build()

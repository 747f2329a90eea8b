package cli

import (
	"fmt"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/spf13/cobra"
)

var loginCmd = LeafCommand{
	Use:   "login [NAME]",
	Long:  "Sign in with a name and role. On a terminal, a missing name or role is prompted for.",
	Short: "Sign in with a name and role",
	Args:  cobra.MaximumNArgs(1),
	StrFlags: []StringFlag{
		{Name: "role", Shorthand: "r", Usage: "admin, manager or viewer (prompted when omitted on a terminal)"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		role, _ := cmd.Flags().GetString("role")
		var pk PromptKit
		if isInteractive(cmd) {
			pk = NewPromptKit()
		}
		return runLogin(cmd, env, name, role, pk)
	}),
}.Build()

var logoutCmd = LeafCommand{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		return runLogout(cmd, env)
	}),
}.Build()

var whoamiCmd = LeafCommand{
	Use:   "whoami",
	Short: "Show the signed-in user and role",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		return runWhoami(cmd, env)
	}),
}.Build()

var themeCmd = LeafCommand{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		value := ""
		if len(args) == 1 {
			value = args[0]
		}
		return runTheme(cmd, env, value)
	}),
}.Build()

func init() {
	_ = loginCmd.RegisterFlagCompletionFunc("role", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(auth.Roles))
		for i, r := range auth.Roles {
			names[i] = string(r)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func runLogin(cmd *cobra.Command, env *appEnv, name, role string, pk PromptKit) error {
	if name == "" && pk.Prompt != nil {
		answer, err := pk.Prompt("Your name")
		if err != nil {
			return err
		}
		name = answer
	}
	if role == "" && pk.Select != nil {
		labels := make([]string, len(auth.Roles))
		for i, r := range auth.Roles {
			labels[i] = r.Label()
		}
		idx, err := pk.Select("Select your role", labels)
		if err != nil {
			return err
		}
		role = string(auth.Roles[idx])
	}

	sess := auth.NewSession(name, role)
	if err := env.sessions.Save(sess); err != nil {
		return err
	}
	logging.Default().Debug("signed in", logging.F("role", string(sess.Role)))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("signed in as '%s' (%s)", Primary(sess.Name), Silent(sess.Role.Label()))))
	return nil
}

func runLogout(cmd *cobra.Command, env *appEnv) error {
	if env.sessions.Load() == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("not signed in"))
		return nil
	}
	if err := env.sessions.Clear(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), Text("signed out"))
	return nil
}

func runWhoami(cmd *cobra.Command, env *appEnv) error {
	sess := env.sessions.Load()
	if sess == nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Silent(fmt.Sprintf("not signed in (%s)", auth.RoleViewer.Label())))
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Primary(sess.Name), Silent("("+sess.Role.Label()+")"))
	return nil
}

func runTheme(cmd *cobra.Command, env *appEnv, value string) error {
	current := env.themes.Load()
	if value == "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("theme: %s", Primary(string(current)))))
		return nil
	}

	var next auth.Theme
	if value == "toggle" {
		next = auth.ThemeDark
		if current == auth.ThemeDark {
			next = auth.ThemeLight
		}
	} else {
		theme, ok := auth.ParseTheme(value)
		if !ok {
			return fmt.Errorf("invalid theme %q (expected light, dark or toggle)", value)
		}
		next = theme
	}

	if err := env.themes.Save(next); err != nil {
		return err
	}
	applyTheme(next)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("theme set to %s", Primary(string(next)))))
	return nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const completionComment = "# evdash shell completion"

// shellSetup is where a shell keeps its startup script and the line that
// loads evdash completions from it.
type shellSetup struct {
	rcFile string
	hook   string
}

var shellSetups = map[string]shellSetup{
	"bash":       {".bashrc", `eval "$(evdash completion generate bash)"`},
	"zsh":        {".zshrc", `eval "$(evdash completion generate zsh)"`},
	"fish":       {".config/fish/config.fish", `evdash completion generate fish | source`},
	"powershell": {".config/powershell/Microsoft.PowerShell_profile.ps1", `evdash completion generate powershell | Out-String | Invoke-Expression`},
}

var validShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = GroupCommand{
	Use:   "completion",
	Short: "Manage shell completions",
	Subcommands: []*cobra.Command{
		completionGenerateCmd,
		completionInstallCmd,
		completionUninstallCmd,
	},
}.Build()

var completionGenerateCmd = LeafCommand{
	Use:       "generate [SHELL]",
	Short:     "Print the completion script for a shell",
	Args:      cobra.RangeArgs(0, 1),
	ValidArgs: validShells,
	RunE: func(cmd *cobra.Command, args []string) error {
		shell, err := shellArg(args)
		if err != nil {
			return err
		}
		return runCompletion(cmd, shell)
	},
}.Build()

var completionInstallCmd = LeafCommand{
	Use:       "install [SHELL]",
	Short:     "Load completions from your shell startup file",
	Args:      cobra.RangeArgs(0, 1),
	ValidArgs: validShells,
	BoolFlags: []BoolFlag{
		{Name: "yes", Shorthand: "y", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		shell, err := shellArg(args)
		if err != nil {
			return err
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		return runCompletionInstall(cmd, shell, homeDir, ResolveConfirmFunc(cmd, yes))
	},
}.Build()

var completionUninstallCmd = LeafCommand{
	Use:       "uninstall [SHELL]",
	Short:     "Remove the completion hook from your shell startup file",
	Args:      cobra.RangeArgs(0, 1),
	ValidArgs: validShells,
	RunE: func(cmd *cobra.Command, args []string) error {
		shell, err := shellArg(args)
		if err != nil {
			return err
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		return runCompletionUninstall(cmd, shell, homeDir)
	},
}.Build()

// shellArg returns the explicit shell argument or the one named by $SHELL.
func shellArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if shell := detectShell(); shell != "" {
		return shell, nil
	}
	return "", fmt.Errorf("could not detect shell from $SHELL; pass one of: %s", strings.Join(validShells, ", "))
}

func detectShell() string {
	switch base := filepath.Base(os.Getenv("SHELL")); base {
	case "bash", "zsh", "fish":
		return base
	case "pwsh":
		return "powershell"
	}
	return ""
}

func runCompletion(cmd *cobra.Command, shell string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()

	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	}
	return fmt.Errorf("unsupported shell: %s (valid: %s)", shell, strings.Join(validShells, ", "))
}

func rcPath(shell, homeDir string) (string, shellSetup, error) {
	setup, ok := shellSetups[shell]
	if !ok {
		return "", shellSetup{}, fmt.Errorf("unsupported shell: %s (valid: %s)", shell, strings.Join(validShells, ", "))
	}
	return filepath.Join(homeDir, setup.rcFile), setup, nil
}

// completionInstalled reports whether the shell's startup file loads evdash completions.
func completionInstalled(shell, homeDir string) bool {
	path, setup, err := rcPath(shell, homeDir)
	if err != nil {
		return false
	}
	data, err := os.ReadFile(path)
	return err == nil && strings.Contains(string(data), setup.hook)
}

func runCompletionInstall(cmd *cobra.Command, shell, homeDir string, confirm ConfirmFunc) error {
	path, setup, err := rcPath(shell, homeDir)
	if err != nil {
		return err
	}
	display := filepath.Join("~", setup.rcFile)

	if completionInstalled(shell, homeDir) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("completions for %s already load from %s", Primary(shell), Primary(display))))
		return nil
	}

	ok, err := confirm(fmt.Sprintf("Add evdash completions for %s to %s?", shell, display))
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, writeErr := fmt.Fprintf(f, "\n%s\n%s\n", completionComment, setup.hook)
	if closeErr := f.Close(); closeErr != nil {
		return closeErr
	}
	if writeErr != nil {
		return writeErr
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("completions for %s installed in %s", Primary(shell), Primary(display))))
	return nil
}

func runCompletionUninstall(cmd *cobra.Command, shell, homeDir string) error {
	path, setup, err := rcPath(shell, homeDir)
	if err != nil {
		return err
	}
	display := filepath.Join("~", setup.rcFile)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	var kept []string
	removed := false
	for _, line := range strings.Split(string(data), "\n") {
		if line == completionComment || line == setup.hook {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Silent(fmt.Sprintf("no evdash completions found in %s", display)))
		return nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0644); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("completions for %s removed from %s", Primary(shell), Primary(display))))
	return nil
}

package cli

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// helpRule colors help lines matching re.
type helpRule struct {
	re     *regexp.Regexp
	render func(m []string) string
}

// Rules are tried in order; the first match wins.
var helpRules = []helpRule{
	{regexp.MustCompile(`^[A-Z][A-Za-z ]+:$`), func(m []string) string { return Info(m[0]) }},
	{regexp.MustCompile(`^Use ".*$`), func(m []string) string { return Silent(m[0]) }},
	{regexp.MustCompile(`^( +)(evdash .*)$`), func(m []string) string { return m[1] + Primary(m[2]) }},
	{regexp.MustCompile(`^( +)(-.+?)( {2,}.*)$`), func(m []string) string { return m[1] + Primary(m[2]) + Text(m[3]) }},
	{regexp.MustCompile(`^( {2})(\S+)(\s{2,}.*)$`), func(m []string) string { return m[1] + Primary(m[2]) + Text(m[3]) }},
}

// colorizedHelpFunc renders cobra's usage text through helpRules.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		origOut := cmd.OutOrStdout()

		var buf strings.Builder
		cmd.SetOut(&buf)
		cmd.InitDefaultHelpFlag()
		if cmd.Long != "" {
			buf.WriteString(cmd.Long + "\n\n")
		} else if cmd.Short != "" {
			buf.WriteString(cmd.Short + "\n\n")
		}
		_ = cmd.Usage()
		cmd.SetOut(origOut)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		for i, line := range lines {
			lines[i] = colorizeLine(line)
		}
		cmd.Print(strings.Join(lines, "\n") + "\n")
	}
}

func colorizeLine(line string) string {
	trimmed := strings.TrimSpace(line)
	for i, rule := range helpRules {
		subject := line
		if i < 2 {
			subject = trimmed
		}
		if m := rule.re.FindStringSubmatch(subject); m != nil {
			return rule.render(m)
		}
	}
	return Text(line)
}

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestColorizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"section header", "Available Commands:"},
		{"command listing", "  timeline    Show projects on a Gantt timeline"},
		{"flag line", "  -g, --granularity string   axis unit: day, week, month or year"},
		{"example", "  evdash project list --status on_hold"},
		{"footer", `Use "evdash [command] --help" for more information about a command.`},
		{"plain", "EV engineering dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.line, colorizeLine(tt.line))
		})
	}
}

func TestHelpRuleOrder(t *testing.T) {
	assert.NotNil(t, helpRules[0].re.FindStringSubmatch("Flags:"))
	assert.NotNil(t, helpRules[2].re.FindStringSubmatch("  evdash serve --addr :4000"))
	assert.Nil(t, helpRules[2].re.FindStringSubmatch("evdash serve"))
}

func TestColorizedHelpFuncProducesOutput(t *testing.T) {
	cmd := &cobra.Command{
		Use:   "test-app",
		Short: "A test CLI app",
	}
	cmd.AddCommand(&cobra.Command{Use: "sub", Short: "A subcommand", Run: func(*cobra.Command, []string) {}})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	colorizedHelpFunc()(cmd, nil)

	output := buf.String()
	assert.Contains(t, output, "A test CLI app\n\nUsage:")
	assert.Contains(t, output, "sub")
	assert.Contains(t, output, "Flags:")
	assert.True(t, strings.HasSuffix(output, `Use "test-app [command] --help" for more information about a command.`+"\n"), output)
}

func TestColorizedHelpFuncRestoresWriter(t *testing.T) {
	cmd := &cobra.Command{Use: "test-app", Short: "A test CLI app"}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	colorizedHelpFunc()(cmd, nil)

	buf.Reset()
	cmd.Print("test")
	assert.Equal(t, "test", buf.String())
}

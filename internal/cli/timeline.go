package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Flyrell/evdash/internal/analytics"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/timeline"
	"github.com/Flyrell/evdash/internal/watch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var timelineCmd = LeafCommand{
	Use:     "timeline",
	Short:   "Show projects on a Gantt timeline",
	Aliases: []string{"gantt"},
	Args:    cobra.NoArgs,
	Example: `  evdash timeline --granularity month
  evdash timeline --watch`,
	StrFlags: []StringFlag{
		{Name: "granularity", Shorthand: "g", Usage: "axis unit: day, week, month or year (default from config)"},
	},
	BoolFlags: []BoolFlag{
		{Name: "watch", Shorthand: "w", Usage: "redraw whenever the data directory changes"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		g, _ := cmd.Flags().GetString("granularity")
		if g == "" {
			g = env.cfg.Timeline.Granularity
		}
		watching, _ := cmd.Flags().GetBool("watch")
		return runTimeline(cmd, env, g, watching)
	}),
}.Build()

var granularityNames = []string{"day", "week", "month", "year"}

func init() {
	_ = timelineCmd.RegisterFlagCompletionFunc("granularity", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return granularityNames, cobra.ShellCompDirectiveNoFileComp
	})
}

func runTimeline(cmd *cobra.Command, env *appEnv, g string, watching bool) error {
	if g != "" {
		if err := oneOfFlag("granularity", g, granularityNames); err != nil {
			return err
		}
	}
	granularity := timeline.ParseGranularity(g)

	load := func() ([]timeline.Record, error) {
		projects, err := env.store.ListProjects()
		if err != nil {
			return nil, err
		}
		return analytics.TimelineRecords(projects), nil
	}
	records, err := load()
	if err != nil {
		return err
	}

	var w *watch.Watcher
	if watching {
		w, err = watch.New(env.store.Dir(), watch.DefaultDebounce)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
	}

	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		if err := printStaticTimeline(out, records, granularity, env.now(), terminalWidth(out)); err != nil {
			return err
		}
		if w == nil {
			return nil
		}
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return redrawOnChange(ctx, out, w.Changes(), load, granularity, env.now)
	}

	m := newTimelineModel(records, granularity, env.now)
	m.termWidth = terminalWidth(out)
	if w != nil {
		m.changes = w.Changes()
		m.reload = load
	}
	logging.Default().Debug("timeline started", logging.F("granularity", granularity.String()), logging.F("watch", watching))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(out), tea.WithInput(cmd.InOrStdin()))
	_, err = p.Run()
	return err
}

func printStaticTimeline(out io.Writer, records []timeline.Record, g timeline.Granularity, now time.Time, width int) error {
	vm := timeline.Build(records, g, now)
	_, err := fmt.Fprint(out, renderTimeline(timelineFrame{
		vm:          vm,
		now:         now,
		width:       width,
		visibleRows: len(vm.Bars),
		cursor:      -1,
	}))
	return err
}

// redrawOnChange prints a fresh static timeline every time changes fires,
// until ctx is done or changes is closed.
func redrawOnChange(ctx context.Context, out io.Writer, changes <-chan struct{}, load func() ([]timeline.Record, error), g timeline.Granularity, now func() time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			records, err := load()
			if err != nil {
				logging.Default().Warn("timeline reload failed", logging.F("error", err.Error()))
				continue
			}
			_, _ = fmt.Fprintln(out)
			if err := printStaticTimeline(out, records, g, now(), terminalWidth(out)); err != nil {
				return err
			}
		}
	}
}

// terminalWidth reports the width of out when it is a terminal.
func terminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultTermWidth
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

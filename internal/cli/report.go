package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Flyrell/evdash/internal/export"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/spf13/cobra"
)

var exportFormats = []string{"csv", "pdf", "html", "json"}

var defaultExportNames = map[string]string{
	"csv":  export.DefaultCSVName,
	"pdf":  export.DefaultPDFName,
	"html": export.DefaultHTMLName,
	"json": export.DefaultJSONName,
}

var reportCmd = LeafCommand{
	Use:   "report",
	Short: "Summarize project health or export a report",
	Args:  cobra.NoArgs,
	Example: `  evdash report
  evdash report --export pdf --output q1.pdf
  evdash report --export json --output -`,
	StrFlags: []StringFlag{
		{Name: "export", Shorthand: "e", Usage: "export format: csv, pdf, html or json"},
		{Name: "output", Shorthand: "o", Usage: "output file, '-' for stdout (default depends on format)"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		format, _ := cmd.Flags().GetString("export")
		output, _ := cmd.Flags().GetString("output")
		return runReport(cmd, env, format, output)
	}),
}.Build()

func init() {
	_ = reportCmd.RegisterFlagCompletionFunc("export", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return exportFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runReport(cmd *cobra.Command, env *appEnv, format, output string) error {
	ds, err := env.store.Snapshot()
	if err != nil {
		return err
	}
	report := export.BuildReport(ds, env.now())

	if format == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), renderReportSummary(report))
		return err
	}
	if err := oneOfFlag("export", format, exportFormats); err != nil {
		return err
	}

	if output == "" {
		output = defaultExportNames[format]
	}
	if output == "-" && format == "pdf" {
		return fmt.Errorf("pdf export needs a file; pass --output")
	}

	write := func(w io.Writer) error {
		switch format {
		case "csv":
			return export.WriteProjectsCSV(w, report.Projects)
		case "html":
			return export.RenderReportHTML(w, report)
		default:
			return export.WriteJSON(w, report)
		}
	}

	switch {
	case format == "pdf":
		if len(report.Projects) == 0 {
			err = export.ErrNoProjects
		} else {
			err = export.RenderReportPDF(report, output)
		}
	case output == "-":
		err = write(cmd.OutOrStdout())
	default:
		err = writeFile(output, write)
	}
	if errors.Is(err, export.ErrNoProjects) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("No projects to export."))
		return nil
	}
	if err != nil {
		return err
	}
	logging.Default().Debug("report exported", logging.F("format", format), logging.F("path", output))

	if output != "-" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("exported report to %s", Primary(output))))
	}
	return nil
}

func renderReportSummary(r export.Report) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("--- Dashboard report %s ---", r.GeneratedAt.Format("2006-01-02"))))
	b.WriteString("\n")
	b.WriteString(Text(fmt.Sprintf("Projects: %d  Teams: %d  Milestones: %d", r.Summary.Projects, r.Summary.Teams, r.Summary.Milestones)))
	b.WriteString("\n")
	b.WriteString(Text(fmt.Sprintf("In Progress: %d  Completed: %d  On Hold: %d", r.Counts.InProgress, r.Counts.Completed, r.Counts.OnHold)))
	b.WriteString("\n")
	b.WriteString(Text(fmt.Sprintf("Average health: %s", Primary(fmt.Sprintf("%d%%", r.AverageHealth)))))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Maintenance risk"))
	b.WriteString("\n")
	for _, bucket := range r.Buckets {
		b.WriteString(fmt.Sprintf("  %s %s\n", Text(padRight(bucket.Name, 18)), Silent(fmt.Sprintf("%d (%d%%)", bucket.Value, bucket.Percent))))
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Upcoming milestones"))
	b.WriteString("\n")
	if len(r.Upcoming) == 0 {
		b.WriteString(Silent("  none"))
		b.WriteString("\n")
	}
	for _, m := range r.Upcoming {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Text(fmt.Sprintf("%-10s", m.DueDate)), Primary(m.Title)))
	}
	return b.String()
}

package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// ReportMarkdown renders r as a Markdown document.
func ReportMarkdown(r Report) string {
	var b strings.Builder

	b.WriteString("# EV Dashboard report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.Format("2 January 2006 15:04"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Projects | Teams | Milestones | Average health |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d%% |\n\n",
		r.Summary.Projects, r.Summary.Teams, r.Summary.Milestones, r.AverageHealth)

	b.WriteString("## Project status\n\n")
	fmt.Fprintf(&b, "- %s: %d\n", StatusLabel("in_progress"), r.Counts.InProgress)
	fmt.Fprintf(&b, "- %s: %d\n", StatusLabel("completed"), r.Counts.Completed)
	fmt.Fprintf(&b, "- %s: %d\n\n", StatusLabel("on_hold"), r.Counts.OnHold)

	b.WriteString("## Maintenance risk\n\n")
	b.WriteString("| Bucket | Projects | Share |\n|---|---:|---:|\n")
	for _, bk := range r.Buckets {
		fmt.Fprintf(&b, "| %s | %d | %d%% |\n", cell(bk.Name), bk.Value, bk.Percent)
	}
	b.WriteString("\n")

	if len(r.Trend) > 0 {
		b.WriteString("## Health trend\n\n")
		b.WriteString("| Month | Health |\n|---|---:|\n")
		for _, p := range r.Trend {
			fmt.Fprintf(&b, "| %s | %d |\n", cell(p.Label), p.Health)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Projects\n\n")
	if len(r.Projects) == 0 {
		b.WriteString("No projects.\n\n")
	} else {
		b.WriteString("| ID | Name | Team | Status | Start | End |\n|---:|---|---|---|---|---|\n")
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
				p.ID, cell(p.Name), cell(p.Team), StatusLabel(p.Status), cell(p.StartDate), cell(p.EndDate))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Upcoming milestones\n\n")
	if len(r.Upcoming) == 0 {
		b.WriteString("No upcoming milestones.\n")
	}
	for _, m := range r.Upcoming {
		fmt.Fprintf(&b, "- **%s** due %s\n", inline(m.Title), inline(orDash(m.DueDate)))
	}

	return b.String()
}

// RenderReportHTML writes r as a standalone HTML page.
func RenderReportHTML(w io.Writer, r Report) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(ReportMarkdown(r)), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body{font-family:system-ui,sans-serif;max-width:60rem;margin:2rem auto;color:#1e293b}table{border-collapse:collapse}td,th{border:1px solid #cbd5e1;padding:.25rem .5rem}</style>
</head>
<body>
%s</body>
</html>
`, html.EscapeString("EV Dashboard report"), body.String())
	return err
}

// cell escapes a value for a Markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(inline(orDash(s)), "|", `\|`)
}

var inlineEscaper = strings.NewReplacer(
	"\n", " ",
	"\r", " ",
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
)

func inline(s string) string {
	return inlineEscaper.Replace(s)
}

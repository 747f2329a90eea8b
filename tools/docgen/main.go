// Command docgen writes the evdash command reference as markdown and HTML,
// plus an optional sitemap.xml.
package main

import (
	"bytes"
	"encoding/xml"
	"flag"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Flyrell/evdash/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// NavGroup is a sidebar group: a top-level command and its subcommands.
type NavGroup struct {
	Label string
	Items []NavItem
}

// NavItem is a single sidebar link.
type NavItem struct {
	Title string
	Path  string // .md path relative to the output directory
}

// Page is one generated reference page.
type Page struct {
	Command  *cobra.Command
	Path     string
	Markdown []byte
}

// PageData is the template data for rendering a page.
type PageData struct {
	Title    string
	Sidebar  template.HTML
	Content  template.HTML
	CSSPath  string
	RootPath string
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · evdash</title>
<link rel="stylesheet" href="{{.CSSPath}}">
</head>
<body>
<aside>
{{.Sidebar}}
</aside>
<main>
{{.Content}}
</main>
</body>
</html>
`

func main() {
	outDir := flag.String("out", "docs", "output directory")
	tmplPath := flag.String("template", "", "page template (default: built in)")
	baseURL := flag.String("base-url", "", "site URL; writes sitemap.xml when set")
	flag.Parse()

	tmplText := pageTemplate
	if *tmplPath != "" {
		data, err := os.ReadFile(*tmplPath)
		if err != nil {
			fatal("reading template: %v", err)
		}
		tmplText = string(data)
	}
	tmpl, err := template.New("page").Parse(tmplText)
	if err != nil {
		fatal("parsing template: %v", err)
	}

	root := cli.Root()
	pages := collectPages(root)
	groups := buildNav(root)

	md := newMarkdown()
	for _, page := range pages {
		mdFile := filepath.Join(*outDir, page.Path)
		if err := writeFile(mdFile, page.Markdown); err != nil {
			fatal("%v", err)
		}

		var content bytes.Buffer
		if err := md.Convert(page.Markdown, &content); err != nil {
			fatal("converting %s: %v", page.Path, err)
		}

		outPath := mdToHTMLPath(page.Path)
		cssPath, rootPath := relativePaths(outPath)
		data := PageData{
			Title:    page.Command.CommandPath(),
			Sidebar:  template.HTML(renderSidebar(groups, page.Path, rootPath)),
			Content:  template.HTML(rewriteLinks(content.String())),
			CSSPath:  cssPath,
			RootPath: rootPath,
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			fatal("executing template for %s: %v", page.Path, err)
		}
		if err := writeFile(filepath.Join(*outDir, outPath), buf.Bytes()); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("  generated %s\n", outPath)
	}

	if *baseURL != "" {
		var buf bytes.Buffer
		if err := writeSitemap(&buf, *baseURL, pages, time.Now()); err != nil {
			fatal("marshalling sitemap: %v", err)
		}
		if err := writeFile(filepath.Join(*outDir, "sitemap.xml"), buf.Bytes()); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("  sitemap: %d URLs\n", len(pages))
	}

	fmt.Printf("\n  %d pages generated\n", len(pages))
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Linkify,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// documented reports whether cmd gets its own page.
func documented(cmd *cobra.Command) bool {
	return cmd.IsAvailableCommand() && !cmd.IsAdditionalHelpTopicCommand()
}

// collectPages walks the tree depth first, root page first.
func collectPages(root *cobra.Command) []Page {
	var pages []Page
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		pages = append(pages, Page{
			Command:  cmd,
			Path:     commandPath(cmd),
			Markdown: commandMarkdown(cmd),
		})
		for _, child := range children(cmd) {
			walk(child)
		}
	}
	walk(root)
	return pages
}

func children(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if documented(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// commandPath maps a command to its .md path: README.md for the root,
// commands/<parent>_<name>.md otherwise.
func commandPath(cmd *cobra.Command) string {
	if !cmd.HasParent() {
		return "README.md"
	}
	parts := strings.Fields(cmd.CommandPath())[1:]
	return "commands/" + strings.Join(parts, "_") + ".md"
}

// relativeLink is the .md link from one page to another.
func relativeLink(from, to string) string {
	rel, err := filepath.Rel(filepath.Dir(from), to)
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}

func commandMarkdown(cmd *cobra.Command) []byte {
	var b strings.Builder
	self := commandPath(cmd)

	fmt.Fprintf(&b, "# %s\n\n", cmd.CommandPath())
	if cmd.Short != "" {
		fmt.Fprintf(&b, "%s\n\n", cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(&b, "%s\n\n", cmd.Long)
	}

	if cmd.Runnable() {
		fmt.Fprintf(&b, "## Usage\n\n```bash\n%s\n```\n\n", cmd.UseLine())
	}
	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&b, "Aliases: `%s`\n\n", strings.Join(cmd.Aliases, "`, `"))
	}
	if cmd.Example != "" {
		fmt.Fprintf(&b, "## Examples\n\n```bash\n%s\n```\n\n", strings.TrimRight(dedent(cmd.Example), "\n"))
	}

	if rows := flagRows(cmd.NonInheritedFlags()); len(rows) > 0 {
		b.WriteString("## Flags\n\n| Flag | Default | Description |\n|---|---|---|\n")
		for _, r := range rows {
			b.WriteString(r)
		}
		b.WriteString("\n")
	}
	if rows := flagRows(cmd.InheritedFlags()); len(rows) > 0 {
		b.WriteString("## Global flags\n\n| Flag | Default | Description |\n|---|---|---|\n")
		for _, r := range rows {
			b.WriteString(r)
		}
		b.WriteString("\n")
	}

	if subs := children(cmd); len(subs) > 0 {
		b.WriteString("## Commands\n\n")
		for _, sub := range subs {
			fmt.Fprintf(&b, "- [%s](%s): %s\n", sub.CommandPath(), relativeLink(self, commandPath(sub)), sub.Short)
		}
		b.WriteString("\n")
	}
	if cmd.HasParent() {
		parent := cmd.Parent()
		fmt.Fprintf(&b, "See also [%s](%s).\n", parent.CommandPath(), relativeLink(self, commandPath(parent)))
	}
	return []byte(b.String())
}

func flagRows(fs *pflag.FlagSet) []string {
	var rows []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		name := "`--" + f.Name + "`"
		if f.Shorthand != "" {
			name += ", `-" + f.Shorthand + "`"
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
			def = "`" + f.DefValue + "`"
		}
		rows = append(rows, fmt.Sprintf("| %s | %s | %s |\n", name, def, strings.ReplaceAll(f.Usage, "|", `\|`)))
	})
	return rows
}

// dedent strips the common leading indentation of cobra Example blocks.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.Join(lines, "\n")
}

// buildNav groups the tree for the sidebar: one group per top-level command.
func buildNav(root *cobra.Command) []NavGroup {
	groups := []NavGroup{{
		Label: "Overview",
		Items: []NavItem{{Title: root.Name(), Path: commandPath(root)}},
	}}
	for _, top := range children(root) {
		g := NavGroup{Label: top.Name()}
		g.Items = append(g.Items, NavItem{Title: top.CommandPath(), Path: commandPath(top)})
		for _, sub := range children(top) {
			g.Items = append(g.Items, NavItem{Title: sub.CommandPath(), Path: commandPath(sub)})
		}
		groups = append(groups, g)
	}
	return groups
}

// mdToHTMLPath converts a .md path to its .html output path.
// README.md becomes index.html.
func mdToHTMLPath(mdPath string) string {
	dir := filepath.Dir(mdPath)
	base := filepath.Base(mdPath)

	htmlName := strings.TrimSuffix(base, ".md") + ".html"
	if strings.EqualFold(base, "README.md") {
		htmlName = "index.html"
	}
	if dir == "." {
		return htmlName
	}
	return filepath.ToSlash(filepath.Join(dir, htmlName))
}

// relativePaths computes the stylesheet and root prefixes for outPath.
func relativePaths(outPath string) (cssPath, rootPath string) {
	dir := filepath.Dir(outPath)
	if dir == "." {
		return "_docs.css", ""
	}
	depth := strings.Count(filepath.ToSlash(dir), "/") + 1
	prefix := strings.Repeat("../", depth)
	return prefix + "_docs.css", prefix
}

// mdToLinkPath is the extensionless href for a .md path.
func mdToLinkPath(mdPath string) string {
	htmlPath := mdToHTMLPath(mdPath)
	if filepath.Base(htmlPath) == "index.html" {
		dir := filepath.Dir(htmlPath)
		if dir == "." {
			return "./"
		}
		return dir + "/"
	}
	return strings.TrimSuffix(htmlPath, ".html")
}

var linkHrefRe = regexp.MustCompile(`href="([^"]*\.md)(#[^"]*)?`)

// rewriteLinks turns .md hrefs in rendered HTML into extensionless links.
func rewriteLinks(htmlContent string) string {
	return linkHrefRe.ReplaceAllStringFunc(htmlContent, func(match string) string {
		m := linkHrefRe.FindStringSubmatch(match)
		return `href="` + mdToLinkPath(m[1]) + m[2]
	})
}

func renderSidebar(groups []NavGroup, currentPath, rootPath string) string {
	var b strings.Builder
	b.WriteString(`<nav class="sidebar-nav">` + "\n")
	for _, group := range groups {
		fmt.Fprintf(&b, `  <div class="nav-group-label">%s</div>`+"\n", template.HTMLEscapeString(group.Label))
		for _, item := range group.Items {
			active := ""
			if item.Path == currentPath {
				active = " active"
			}
			href := rootPath + mdToLinkPath(item.Path)
			fmt.Fprintf(&b, `  <a href="%s" class="nav-link%s">%s</a>`+"\n", href, active, template.HTMLEscapeString(item.Title))
		}
	}
	b.WriteString("</nav>\n")
	return b.String()
}

type urlEntry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// writeSitemap lists every page. The root page ranks highest, command
// groups next, leaf commands last.
func writeSitemap(w io.Writer, baseURL string, pages []Page, now time.Time) error {
	baseURL = strings.TrimRight(baseURL, "/") + "/"
	lastmod := now.Format("2006-01-02")

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages {
		prio, freq := "0.5", "monthly"
		switch {
		case !p.Command.HasParent():
			prio, freq = "1.0", "weekly"
		case p.Command.HasAvailableSubCommands():
			prio = "0.7"
		}
		loc := strings.TrimPrefix(mdToLinkPath(p.Path), "./")
		set.URLs = append(set.URLs, urlEntry{
			Loc:        baseURL + loc,
			LastMod:    lastmod,
			ChangeFreq: freq,
			Priority:   prio,
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "docgen: "+format+"\n", args...)
	os.Exit(1)
}

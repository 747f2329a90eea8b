package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Flyrell/evdash/internal/record"
	"github.com/spf13/cobra"
)

var projectListCmd = LeafCommand{
	Use:     "list",
	Short:   "List projects",
	Aliases: []string{"ls"},
	Example: `  evdash project list --status on_hold
  evdash project list --sort asc`,
	StrFlags: []StringFlag{
		{Name: "status", Shorthand: "s", Usage: "filter by status (all, in_progress, completed, on_hold)", Default: "all"},
		{Name: "sort", Usage: "sort by name: asc or desc (default: by id)"},
	},
	RunE: withEnv(func(cmd *cobra.Command, env *appEnv, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		order, _ := cmd.Flags().GetString("sort")
		return runProjectList(cmd, env, status, order)
	}),
}.Build()

func runProjectList(cmd *cobra.Command, env *appEnv, status, order string) error {
	if err := oneOfFlag("status", status, append([]string{"all"}, record.ProjectStatuses...)); err != nil {
		return err
	}
	if order != "" {
		if err := oneOfFlag("sort", order, []string{"asc", "desc"}); err != nil {
			return err
		}
	}

	projects, err := env.store.ListProjects()
	if err != nil {
		return err
	}
	projects = filterProjects(projects, status)
	sortProjects(projects, order)

	if len(projects) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("No projects found."))
		return nil
	}

	nameW, teamW := len("NAME"), len("TEAM")
	for _, p := range projects {
		nameW = max(nameW, min(displayWidth(p.Name), 32))
		teamW = max(teamW, min(displayWidth(p.Team), 20))
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s\n", Silent(fmt.Sprintf("%-5s  %s  %s  %-11s  %-10s  %-10s",
		"ID", padRight("NAME", nameW), padRight("TEAM", teamW), "STATUS", "START", "END")))
	for _, p := range projects {
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n",
			Silent(fmt.Sprintf("%-5s", idLabel(p.ID))),
			Primary(padRight(p.Name, nameW)),
			Text(padRight(p.Team, teamW)),
			StatusBadge(fmt.Sprintf("%-11s", p.Status)),
			Text(fmt.Sprintf("%-10s", p.StartDate)),
			Text(fmt.Sprintf("%-10s", p.EndDate)),
		)
	}
	return nil
}

func filterProjects(projects []record.Project, status string) []record.Project {
	if status == "" || status == "all" {
		return projects
	}
	out := projects[:0]
	for _, p := range projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

func sortProjects(projects []record.Project, order string) {
	switch order {
	case "asc":
		sort.SliceStable(projects, func(i, j int) bool {
			return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
		})
	case "desc":
		sort.SliceStable(projects, func(i, j int) bool {
			return strings.ToLower(projects[i].Name) > strings.ToLower(projects[j].Name)
		})
	}
}

package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/Flyrell/evdash/internal/record"
)

var csvHeader = []string{"id", "name", "team", "status", "startDate", "endDate"}

// WriteProjectsCSV writes projects as CSV with every cell quoted. Rows are
// separated by a single newline and the last row has no terminator.
func WriteProjectsCSV(w io.Writer, projects []record.Project) error {
	if len(projects) == 0 {
		return ErrNoProjects
	}

	lines := make([]string, 0, len(projects)+1)
	lines = append(lines, csvLine(csvHeader))
	for _, p := range projects {
		lines = append(lines, csvLine([]string{
			strconv.Itoa(p.ID), p.Name, p.Team, p.Status, p.StartDate, p.EndDate,
		}))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

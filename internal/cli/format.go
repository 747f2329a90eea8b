package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Flyrell/evdash/internal/timeline"
	"github.com/mattn/go-runewidth"
)

// padRight pads or truncates s to exactly width terminal cells.
func padRight(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return truncate(s, width)
	}
	return runewidth.FillRight(s, width)
}

// padCenter centers s within width terminal cells.
func padCenter(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return truncate(s, width)
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// parseID parses a record ID argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q (expected a positive number)", s)
	}
	return id, nil
}

// parseDateFlag checks that v is a date and returns it as YYYY-MM-DD.
func parseDateFlag(name, v string) (string, error) {
	t, ok := timeline.ParseDate(v, time.UTC)
	if !ok {
		return "", fmt.Errorf("invalid --%s value %q (expected YYYY-MM-DD)", name, v)
	}
	return t.Format("2006-01-02"), nil
}

// oneOfFlag validates an enumerated flag value.
func oneOfFlag(name, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("invalid --%s value %q (expected one of: %s)", name, v, strings.Join(allowed, ", "))
}

// changedString returns a pointer to the flag value when the flag was set.
func changedString(changed bool, v string) *string {
	if !changed {
		return nil
	}
	return &v
}

// idLabel renders a record ID the way listings show it.
func idLabel(id int) string {
	return fmt.Sprintf("#%d", id)
}

// displayWidth is the number of terminal cells s occupies.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// writeFile creates path (and its parent directory) and fills it with write.
func writeFile(path string, write func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

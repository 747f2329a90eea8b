package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Flyrell/evdash/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

const (
	labelColWidth    = 24
	minChartWidth    = 20
	defaultTermWidth = 100
	barRune          = '█'
	todayRune        = '│'
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
)

// timelineFrame is one render request.
type timelineFrame struct {
	vm          timeline.ViewModel
	now         time.Time
	width       int
	scrollY     int
	visibleRows int
	cursor      int // selected bar, -1 for none
	footer      string
}

// chartWidth is the number of cells left for bars once the label column
// and separator are drawn.
func chartWidth(termWidth int) int {
	return max(termWidth-labelColWidth-3, minChartWidth)
}

// column maps a percentage of the visible range onto a chart cell.
func column(percent float64, width int) int {
	c := int(math.Floor(percent / 100 * float64(width)))
	return min(max(c, 0), width-1)
}

// barSpan returns the [from, to) cells a bar covers. Every bar covers at
// least one cell.
func barSpan(b timeline.Bar, width int) (int, int) {
	from := column(b.LeftPercent, width)
	to := int(math.Ceil(b.EndPercent / 100 * float64(width)))
	to = min(max(to, from+1), width)
	return from, to
}

// axisLine lays tick labels out at their anchor columns, dropping labels
// that would overlap the previous one.
func axisLine(vm timeline.ViewModel, width int) string {
	cells := []rune(strings.Repeat(" ", width))
	next := 0
	for _, t := range vm.Ticks {
		col := column(vm.Range.Percent(t.Anchor), width)
		if col < next {
			continue
		}
		for i, r := range []rune(t.Label) {
			if col+i >= width {
				break
			}
			cells[col+i] = r
		}
		next = col + len([]rune(t.Label)) + 1
	}
	return string(cells)
}

// barLine draws one bar across the chart, with the today marker in the gaps.
func barLine(b timeline.Bar, width, today int) string {
	from, to := barSpan(b, width)
	var sb strings.Builder
	if from > 0 {
		sb.WriteString(gap(0, from, today))
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(b.ColorHint))
	sb.WriteString(style.Render(strings.Repeat(string(barRune), to-from)))
	if to < width {
		sb.WriteString(gap(to, width, today))
	}
	return sb.String()
}

func gap(from, to, today int) string {
	if today < from || today >= to {
		return strings.Repeat(" ", to-from)
	}
	return strings.Repeat(" ", today-from) + Silent(string(todayRune)) + strings.Repeat(" ", to-today-1)
}

// renderTimeline produces the Gantt chart for one frame.
func renderTimeline(f timelineFrame) string {
	var b strings.Builder
	cw := chartWidth(f.width)

	rng := f.vm.Range
	title := fmt.Sprintf("--- Timeline (%s) %s - %s ---", f.vm.Granularity, rng.Min.Format("2006-01-02"), rng.Max.Format("2006-01-02"))
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render(padRight("Project", labelColWidth)))
	b.WriteString(" | ")
	b.WriteString(headerStyle.Render(axisLine(f.vm, cw)))
	b.WriteString("\n")

	b.WriteString(strings.Repeat("-", labelColWidth))
	b.WriteString("-+-")
	b.WriteString(strings.Repeat("-", cw))
	b.WriteString("\n")

	if len(f.vm.Bars) == 0 {
		b.WriteString(Silent("No projects to show."))
		b.WriteString("\n")
	}

	today := -1
	if !f.now.Before(rng.Min) && f.now.Before(rng.Max) {
		today = column(rng.Percent(f.now), cw)
	}

	end := min(f.scrollY+f.visibleRows, len(f.vm.Bars))
	for i := f.scrollY; i < end; i++ {
		bar := f.vm.Bars[i]
		label := padRight(bar.Label, labelColWidth)
		if i == f.cursor {
			label = selectedStyle.Render(label)
		} else {
			label = Text(label)
		}
		b.WriteString(label)
		b.WriteString(" | ")
		b.WriteString(barLine(bar, cw, today))
		b.WriteString("\n")
	}

	if f.cursor >= 0 && f.cursor < len(f.vm.Bars) {
		bar := f.vm.Bars[f.cursor]
		b.WriteString("\n")
		b.WriteString(Text(fmt.Sprintf("%s: %s to %s", bar.Label, bar.Start.Format("2006-01-02"), bar.End.Format("2006-01-02"))))
		b.WriteString("\n")
	}

	if f.footer != "" {
		b.WriteString("\n")
		b.WriteString(footerStyle.Render(f.footer))
		b.WriteString("\n")
	}
	return b.String()
}

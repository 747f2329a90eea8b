package cli

import (
	"time"

	"github.com/Flyrell/evdash/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
)

const timelineKeys = "d/w/m/y: granularity  ↑/↓: select  q: quit"

// recordsMsg carries freshly loaded records after a store change.
type recordsMsg struct {
	records []timeline.Record
	err     error
}

type timelineModel struct {
	records     []timeline.Record
	granularity timeline.Granularity
	vm          timeline.ViewModel
	now         func() time.Time
	reload      func() ([]timeline.Record, error)
	changes     <-chan struct{}
	cursor      int
	scrollY     int
	termWidth   int
	termHeight  int
	footerMsg   string
}

func newTimelineModel(records []timeline.Record, g timeline.Granularity, now func() time.Time) timelineModel {
	m := timelineModel{
		records:     records,
		granularity: g,
		now:         now,
		termWidth:   defaultTermWidth,
		termHeight:  40,
	}
	return m.rebuild()
}

func (m timelineModel) rebuild() timelineModel {
	m.vm = timeline.Build(m.records, m.granularity, m.now())
	m.granularity = m.vm.Granularity
	if m.cursor >= len(m.vm.Bars) {
		m.cursor = max(len(m.vm.Bars)-1, 0)
	}
	return m.ensureCursorVisible()
}

func (m timelineModel) visibleRows() int {
	// title, header, separator, detail (2), footer (2)
	available := m.termHeight - 7
	return max(min(available, len(m.vm.Bars)), 1)
}

func (m timelineModel) ensureCursorVisible() timelineModel {
	if m.cursor < m.scrollY {
		m.scrollY = m.cursor
	}
	if m.cursor >= m.scrollY+m.visibleRows() {
		m.scrollY = m.cursor - m.visibleRows() + 1
	}
	maxScroll := max(len(m.vm.Bars)-m.visibleRows(), 0)
	m.scrollY = min(max(m.scrollY, 0), maxScroll)
	return m
}

// waitForChange blocks on the watcher and reloads the records once it fires.
func (m timelineModel) waitForChange() tea.Cmd {
	if m.changes == nil || m.reload == nil {
		return nil
	}
	changes, reload := m.changes, m.reload
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		records, err := reload()
		return recordsMsg{records: records, err: err}
	}
}

func (m timelineModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m = m.ensureCursorVisible()
	case recordsMsg:
		if msg.err != nil {
			m.footerMsg = "reload failed: " + msg.err.Error()
		} else {
			m.records = msg.records
			m = m.rebuild()
			m.footerMsg = "reloaded at " + m.now().Format("15:04:05")
		}
		return m, m.waitForChange()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "d":
			m.granularity = timeline.Day
			m = m.rebuild()
		case "w":
			m.granularity = timeline.Week
			m = m.rebuild()
		case "m":
			m.granularity = timeline.Month
			m = m.rebuild()
		case "y":
			m.granularity = timeline.Year
			m = m.rebuild()
		case "down", "j":
			if m.cursor < len(m.vm.Bars)-1 {
				m.cursor++
				m = m.ensureCursorVisible()
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m = m.ensureCursorVisible()
			}
		}
	}
	return m, nil
}

func (m timelineModel) View() string {
	footer := timelineKeys
	if m.footerMsg != "" {
		footer = m.footerMsg + "  " + footer
	}
	cursor := m.cursor
	if len(m.vm.Bars) == 0 {
		cursor = -1
	}
	return renderTimeline(timelineFrame{
		vm:          m.vm,
		now:         m.now(),
		width:       m.termWidth,
		scrollY:     m.scrollY,
		visibleRows: m.visibleRows(),
		cursor:      cursor,
		footer:      footer,
	})
}

package cli

import (
	"github.com/Flyrell/evdash/internal/auth"
	"github.com/charmbracelet/lipgloss"
)

// palette is one set of terminal colors.
type palette struct {
	primary, text, errorC, warning, info, silent string
}

var palettes = map[auth.Theme]palette{
	auth.ThemeLight: {
		primary: "#4F46E5",
		text:    "#1E293B",
		errorC:  "#DC2626",
		warning: "#CA8A04",
		info:    "#0891B2",
		silent:  "#64748B",
	},
	auth.ThemeDark: {
		primary: "#A5B4FC",
		text:    "#E2E8F0",
		errorC:  "#F87171",
		warning: "#FACC15",
		info:    "#22D3EE",
		silent:  "#94A3B8",
	},
}

var (
	activeTheme  = auth.ThemeLight
	primaryStyle lipgloss.Style
	textStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	infoStyle    lipgloss.Style
	silentStyle  lipgloss.Style
)

func init() {
	applyTheme(auth.ThemeLight)
}

// applyTheme switches every style to the palette for theme.
func applyTheme(theme auth.Theme) {
	p, ok := palettes[theme]
	if !ok {
		theme, p = auth.ThemeLight, palettes[auth.ThemeLight]
	}
	activeTheme = theme
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.primary))
	textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.text))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.errorC))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.warning))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.info))
	silentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(p.silent))
}

func Primary(text string) string { return primaryStyle.Render(text) }
func Text(text string) string    { return textStyle.Render(text) }
func Error(text string) string   { return errorStyle.Render(text) }
func Warning(text string) string { return warningStyle.Render(text) }
func Info(text string) string    { return infoStyle.Render(text) }
func Silent(text string) string  { return silentStyle.Render(text) }

// StatusBadge renders a status value in a color matching its risk.
func StatusBadge(status string) string {
	switch status {
	case "completed":
		return Info(status)
	case "on_hold":
		return Warning(status)
	default:
		return Primary(status)
	}
}

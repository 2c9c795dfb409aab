package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskman-go/internal/store"
	"github.com/nibzard/taskman-go/internal/task"
)

// styles is the palette for one theme.
type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	normal   lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	overdue  lipgloss.Style
	errorMsg lipgloss.Style
	info     lipgloss.Style
	dialog   lipgloss.Style
	label    lipgloss.Style
	status   map[task.Status]lipgloss.Style
}

type palette struct {
	fg, muted, accent, selFg, selBg, border, warn, ok, progress string
}

var palettes = map[store.Theme]palette{
	store.ThemeLight: {
		fg: "235", muted: "245", accent: "25", selFg: "255", selBg: "25",
		border: "250", warn: "160", ok: "28", progress: "130",
	},
	store.ThemeDark: {
		fg: "252", muted: "242", accent: "111", selFg: "235", selBg: "111",
		border: "238", warn: "203", ok: "114", progress: "221",
	},
}

func newStyles(theme store.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[store.ThemeLight]
	}
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg))
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.fg)),
		normal:   base,
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color(p.selFg)).Background(lipgloss.Color(p.selBg)),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		overdue:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.warn)),
		errorMsg: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.warn)),
		info:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.ok)),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		label: lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color(p.muted)),
		status: map[task.Status]lipgloss.Style{
			task.StatusNotDone:    base,
			task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color(p.progress)),
			task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.ok)),
		},
	}
}

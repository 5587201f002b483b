package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// styles is the lipgloss palette for one theme.
type styles struct {
	title    lipgloss.Style
	success  lipgloss.Style
	pending  lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	help     lipgloss.Style

	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	button      lipgloss.Style

	panel        lipgloss.Style
	inputBox     lipgloss.Style
	inputFocused lipgloss.Style
	alert        lipgloss.Style
}

func newStyles(theme string) styles {
	border := lipgloss.Color("8")
	accent := lipgloss.Color("12")
	title := lipgloss.NewStyle().Bold(true)
	switch strings.ToLower(theme) {
	case "neon":
		accent = lipgloss.Color("14")
		title = title.Foreground(lipgloss.Color("13"))
	case "mono":
		accent = lipgloss.Color("")
		border = lipgloss.Color("")
	}

	s := styles{
		title:    title,
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		accent:   lipgloss.NewStyle().Foreground(accent),
		muted:    lipgloss.NewStyle().Faint(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		selected: lipgloss.NewStyle().Bold(true),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		help:     lipgloss.NewStyle().Faint(true),

		tabActive:   lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 2),
		tabInactive: lipgloss.NewStyle().Padding(0, 2),
		button:      lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1),

		panel:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		inputBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		inputFocused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		alert:        lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 3),
	}
	if strings.ToLower(theme) == "mono" {
		s.success = lipgloss.NewStyle()
		s.pending = lipgloss.NewStyle()
		s.err = lipgloss.NewStyle().Bold(true)
	}
	return s
}

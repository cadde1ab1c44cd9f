// Package ui provides the interactive console for uecmd: a prompt with
// catalog-backed completion, browsable catalog/favourites/history panes, and a
// scrolling send log.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Palette
	colorAccent  = lipgloss.Color("#8BC34A") // lime
	colorPrimary = lipgloss.Color("#2196F3") // blue
	colorError   = lipgloss.Color("#e53935") // red
	colorWarning = lipgloss.Color("#FFC107") // yellow
	colorMuted   = lipgloss.Color("#6b7280") // gray
	colorBorder  = lipgloss.Color("#3b4252")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	deviceStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	noDeviceStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	okStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	paneTitleActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorPrimary).
			Padding(0, 1)

	paneTitleInactive = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

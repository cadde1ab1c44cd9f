package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// layout distributes the window between the list pane, the log, and the
// prompt/status rows.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// header(1) + prompt(1) + status(1) + help(1)
	body := m.height - 4
	if body < 6 {
		body = 6
	}
	listHeight := body * 3 / 5
	logHeight := body - listHeight - 2 // borders

	m.catalog.SetSize(m.width, listHeight)
	m.favourites.SetSize(m.width, listHeight)
	m.history.SetSize(m.width, listHeight)

	m.log.Width = m.width - 4
	m.log.Height = logHeight
	m.input.Width = m.width - 4
}

// View renders the whole console.
func (m Model) View() string {
	if !m.ready {
		return "Starting uecmd..."
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch m.pane {
	case paneCatalog:
		b.WriteString(m.catalog.View())
	case paneFavourites:
		b.WriteString(m.favourites.View())
	case paneHistory:
		b.WriteString(m.history.View())
	}
	b.WriteString("\n")

	b.WriteString(logStyle.Width(m.width - 2).Render(m.log.View()))
	b.WriteString("\n")

	prompt := m.input.View()
	if m.sending {
		prompt = m.spin.View() + " " + prompt
	}
	b.WriteString(prompt)
	b.WriteString("\n")

	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send · tab panes/complete · esc prompt · ctrl+f favourite · ctrl+x unfavourite · ctrl+d device · ctrl+c quit"))

	return b.String()
}

func (m Model) headerView() string {
	title := titleStyle.Render("uecmd")

	var device string
	if len(m.devices) == 0 {
		device = noDeviceStyle.Render("no device")
	} else {
		d := m.devices[m.deviceIdx]
		label := d.Serial
		if d.Model != "" {
			label = fmt.Sprintf("%s (%s)", d.Serial, d.Model)
		}
		device = deviceStyle.Render(label)
	}

	tabs := make([]string, 0, 3)
	for _, p := range []pane{paneCatalog, paneFavourites, paneHistory} {
		style := paneTitleInactive
		if p == m.pane {
			style = paneTitleActive
		}
		tabs = append(tabs, style.Render(p.String()))
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(tabs, " "))
	right := device
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

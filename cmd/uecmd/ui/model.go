package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"uecmd/internal/adb"
	"uecmd/internal/catalog"
	"uecmd/internal/config"
	"uecmd/internal/store"
)

// deviceRefreshInterval matches the desktop original's auto-refresh timer.
const deviceRefreshInterval = 15 * time.Second

// maxLogLines bounds the in-memory send log.
const maxLogLines = 500

// Deps wires the console to the rest of the application.
type Deps struct {
	Config *config.Config
	Client *adb.Client
	Store  *store.Store
}

// pane identifies the browsable list on screen.
type pane int

const (
	paneCatalog pane = iota
	paneFavourites
	paneHistory
)

func (p pane) String() string {
	switch p {
	case paneCatalog:
		return "Catalog"
	case paneFavourites:
		return "Favourites"
	case paneHistory:
		return "History"
	}
	return "?"
}

// Messages

type devicesMsg struct {
	devices []adb.Device
	err     error
}

type deviceTickMsg struct{}

type sendDoneMsg struct {
	command string
	serial  string
	output  string
	err     error
}

type catalogMsg struct {
	commands []catalog.Command
	live     bool // true when delivered by the file watcher
}

// Model is the interactive console model. Update and View are pure; anything
// that touches adb or the filesystem runs inside a tea.Cmd.
type Model struct {
	deps Deps

	input      textinput.Model
	log        viewport.Model
	spin       spinner.Model
	catalog    list.Model
	favourites list.Model
	history    list.Model

	pane        pane
	listFocused bool
	width       int
	height      int
	ready       bool

	devices   []adb.Device
	deviceIdx int
	sending   bool

	commands []catalog.Command
	logLines []string
	status   string

	reloadCh chan []catalog.Command
}

// NewModel builds the initial console model.
func NewModel(deps Deps, reloadCh chan []catalog.Command) Model {
	input := textinput.New()
	input.Placeholder = "Type an Unreal console command"
	input.Prompt = "> "
	input.ShowSuggestions = true
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	mkList := func(title string) list.Model {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.Title = title
		l.SetShowTitle(false)
		l.SetShowHelp(false)
		l.SetShowStatusBar(false)
		l.DisableQuitKeybindings()
		return l
	}

	m := Model{
		deps:       deps,
		input:      input,
		spin:       spin,
		catalog:    mkList("Catalog"),
		favourites: mkList("Favourites"),
		history:    mkList("History"),
		status:     "Initializing...",
		reloadCh:   reloadCh,
	}
	m.refreshFavourites()
	m.refreshHistory()
	return m
}

// Init starts the device poll, the initial catalog load, and the watcher pump.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.refreshDevicesCmd(),
		m.loadCatalogCmd(),
		textinput.Blink,
	}
	if m.reloadCh != nil {
		cmds = append(cmds, waitForReload(m.reloadCh))
	}
	return tea.Batch(cmds...)
}

func (m Model) refreshDevicesCmd() tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		devices, err := client.Devices(context.Background())
		return devicesMsg{devices: devices, err: err}
	}
}

func deviceTick() tea.Cmd {
	return tea.Tick(deviceRefreshInterval, func(time.Time) tea.Msg {
		return deviceTickMsg{}
	})
}

func (m Model) loadCatalogCmd() tea.Cmd {
	path := m.deps.Config.Catalog.Path
	return func() tea.Msg {
		return catalogMsg{commands: catalog.LoadCommands(path)}
	}
}

func waitForReload(ch chan []catalog.Command) tea.Cmd {
	return func() tea.Msg {
		commands, ok := <-ch
		if !ok {
			return nil
		}
		return catalogMsg{commands: commands, live: true}
	}
}

func (m Model) sendCmd(serial, command string) tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		out, err := client.SendConsoleCommand(context.Background(), serial, command)
		return sendDoneMsg{command: command, serial: serial, output: out, err: err}
	}
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case devicesMsg:
		if msg.err != nil {
			m.devices = nil
			m.status = "ADB unavailable: " + msg.err.Error()
		} else {
			m.devices = connectedOnly(msg.devices)
			if m.deviceIdx >= len(m.devices) {
				m.deviceIdx = 0
			}
			if len(m.devices) == 0 {
				m.status = "No devices connected."
			} else {
				m.status = fmt.Sprintf("%d device(s) available.", len(m.devices))
			}
		}
		return m, deviceTick()

	case deviceTickMsg:
		return m, m.refreshDevicesCmd()

	case catalogMsg:
		m.commands = msg.commands
		m.catalog.SetItems(catalogItems(msg.commands))
		m.input.SetSuggestions(commandNames(msg.commands))
		switch {
		case msg.live:
			m.appendLog(okStyle.Render(fmt.Sprintf("Catalog reloaded: %d commands.", len(msg.commands))))
		case len(msg.commands) == 0:
			m.appendLog(statusStyle.Render("ConsoleHelp.html not found or unreadable; autocomplete limited to favourites."))
			m.input.SetSuggestions(m.favouriteCommands())
		default:
			m.appendLog(statusStyle.Render(fmt.Sprintf("Loaded %d commands from the help dump.", len(msg.commands))))
		}
		// The watcher pump is re-armed per delivery; the initial load's pump
		// was already started by Init.
		if msg.live && m.reloadCh != nil {
			return m, waitForReload(m.reloadCh)
		}
		return m, nil

	case sendDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.appendLog(errorStyle.Render(fmt.Sprintf("ERROR %s: %v", msg.command, msg.err)))
			m.status = fmt.Sprintf("Failed %q", msg.command)
			return m, nil
		}
		m.appendLog(okStyle.Render(fmt.Sprintf("Sent %s", msg.command)) + statusStyle.Render(" "+firstLine(msg.output)))
		m.status = fmt.Sprintf("Sent %q", msg.command)
		if err := m.deps.Store.AddHistory(msg.command, msg.serial); err == nil {
			m.refreshHistory()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.sending {
			return m, cmd
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.listFocused {
			m.pane = (m.pane + 1) % 3
			return m, nil
		}
		if m.input.Value() != "" {
			// Let the prompt accept its completion suggestion.
			return m.updateFocused(msg)
		}
		m.listFocused = true
		m.input.Blur()
		return m, nil

	case "esc":
		if m.listFocused {
			m.listFocused = false
			return m, m.input.Focus()
		}
		return m, nil

	case "ctrl+d":
		if len(m.devices) > 1 {
			m.deviceIdx = (m.deviceIdx + 1) % len(m.devices)
			m.status = "Target device: " + m.devices[m.deviceIdx].Serial
		}
		return m, nil

	case "ctrl+f":
		command := strings.TrimSpace(m.input.Value())
		if command == "" {
			m.status = "No command to save"
			return m, nil
		}
		added, err := m.deps.Store.AddFavourite(command)
		switch {
		case err != nil:
			m.appendLog(errorStyle.Render("Favourite save failed: " + err.Error()))
		case added:
			m.appendLog(okStyle.Render(fmt.Sprintf("Saved %q to favourites.", command)))
			m.refreshFavourites()
		default:
			m.status = fmt.Sprintf("%q already in favourites", command)
		}
		return m, nil

	case "ctrl+x":
		if m.listFocused && m.pane == paneFavourites {
			if item, ok := m.favourites.SelectedItem().(favouriteItem); ok {
				if removed, err := m.deps.Store.RemoveFavourite(item.command); err == nil && removed {
					m.appendLog(statusStyle.Render(fmt.Sprintf("Removed favourite %q.", item.command)))
					m.refreshFavourites()
				}
			}
		}
		return m, nil

	case "enter":
		if m.listFocused {
			// Copy the selection into the prompt for argument editing.
			if command := m.selectedCommand(); command != "" {
				m.input.SetValue(command)
				m.input.CursorEnd()
				m.listFocused = false
				m.status = fmt.Sprintf("Prepared %q, edit arguments and press enter", command)
				return m, m.input.Focus()
			}
			return m, nil
		}
		return m.submitInput()
	}

	return m.updateFocused(msg)
}

// submitInput dispatches the prompt content to the selected device.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	command := strings.TrimSpace(m.input.Value())
	if command == "" {
		return m, nil
	}
	if len(m.devices) == 0 {
		m.appendLog(errorStyle.Render("No ADB devices connected."))
		return m, nil
	}
	serial := m.devices[m.deviceIdx].Serial
	m.sending = true
	m.input.SetValue("")
	m.appendLog(statusStyle.Render(fmt.Sprintf("Sending %s to %s...", command, serial)))
	return m, tea.Batch(m.spin.Tick, m.sendCmd(serial, command))
}

// updateFocused routes remaining messages to the focused widget.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.listFocused {
		switch m.pane {
		case paneCatalog:
			m.catalog, cmd = m.catalog.Update(msg)
		case paneFavourites:
			m.favourites, cmd = m.favourites.Update(msg)
		case paneHistory:
			m.history, cmd = m.history.Update(msg)
		}
		cmds = append(cmds, cmd)
	} else {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.log, cmd = m.log.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) selectedCommand() string {
	switch m.pane {
	case paneCatalog:
		if item, ok := m.catalog.SelectedItem().(catalogItem); ok {
			return item.cmd.Name
		}
	case paneFavourites:
		if item, ok := m.favourites.SelectedItem().(favouriteItem); ok {
			return item.command
		}
	case paneHistory:
		if item, ok := m.history.SelectedItem().(historyItem); ok {
			return item.entry.Command
		}
	}
	return ""
}

func (m *Model) refreshFavourites() {
	if favs, err := m.deps.Store.Favourites(); err == nil {
		m.favourites.SetItems(favouriteItems(favs))
	}
}

func (m *Model) refreshHistory() {
	if entries, err := m.deps.Store.History(); err == nil {
		m.history.SetItems(historyItems(entries))
	}
}

func (m *Model) favouriteCommands() []string {
	favs, err := m.deps.Store.Favourites()
	if err != nil {
		return nil
	}
	return favs
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
	m.log.SetContent(strings.Join(m.logLines, "\n"))
	m.log.GotoBottom()
}

func connectedOnly(devices []adb.Device) []adb.Device {
	var out []adb.Device
	for _, d := range devices {
		if d.Connected() {
			out = append(out, d)
		}
	}
	return out
}

func commandNames(cmds []catalog.Command) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

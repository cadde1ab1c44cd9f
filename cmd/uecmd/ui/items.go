package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"uecmd/internal/catalog"
	"uecmd/internal/store"
)

// catalogItem adapts a catalog entry to the list widget.
type catalogItem struct {
	cmd catalog.Command
}

func (i catalogItem) Title() string { return i.cmd.Name }
func (i catalogItem) Description() string {
	if i.cmd.Help == "" {
		return i.cmd.Type
	}
	if i.cmd.Type == "" {
		return i.cmd.Help
	}
	return fmt.Sprintf("[%s] %s", i.cmd.Type, i.cmd.Help)
}
func (i catalogItem) FilterValue() string { return i.cmd.Name + " " + i.cmd.Help }

// favouriteItem is one favourite command.
type favouriteItem struct {
	command string
}

func (i favouriteItem) Title() string       { return i.command }
func (i favouriteItem) Description() string { return "favourite" }
func (i favouriteItem) FilterValue() string { return i.command }

// historyItem is one history entry.
type historyItem struct {
	entry store.Entry
}

func (i historyItem) Title() string { return i.entry.Command }
func (i historyItem) Description() string {
	when := i.entry.SentAt.Format("15:04:05")
	if i.entry.DeviceSerial == "" {
		return when
	}
	return fmt.Sprintf("%s → %s", when, i.entry.DeviceSerial)
}
func (i historyItem) FilterValue() string { return i.entry.Command }

func catalogItems(cmds []catalog.Command) []list.Item {
	items := make([]list.Item, len(cmds))
	for i, c := range cmds {
		items[i] = catalogItem{cmd: c}
	}
	return items
}

func favouriteItems(favs []string) []list.Item {
	items := make([]list.Item, len(favs))
	for i, f := range favs {
		items[i] = favouriteItem{command: f}
	}
	return items
}

func historyItems(entries []store.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = historyItem{entry: e}
	}
	return items
}

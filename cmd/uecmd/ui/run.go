package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"uecmd/internal/catalog"
)

// Run starts the interactive console and blocks until the user quits. The
// catalog watcher feeds live reloads into the model for as long as the program
// runs; a watcher that cannot start only costs live reload, never the console.
func Run(deps Deps) error {
	reloadCh := make(chan []catalog.Command, 1)

	watcher, err := catalog.NewWatcher(deps.Config.Catalog.Path, func(commands []catalog.Command) {
		// Drop stale reloads rather than blocking the watcher goroutine.
		select {
		case reloadCh <- commands:
		default:
		}
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err == nil {
		if startErr := watcher.Start(ctx); startErr == nil {
			defer watcher.Stop()
		}
	}

	model := NewModel(deps, reloadCh)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uecmd/cmd/uecmd/ui"
	"uecmd/internal/adb"
	"uecmd/internal/config"
	"uecmd/internal/logging"
	"uecmd/internal/store"
)

var (
	// Global flags
	verbose     bool
	configDir   string
	catalogPath string

	// Resolved at PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command. Without arguments it launches the
// interactive console.
var rootCmd = &cobra.Command{
	Use:   "uecmd",
	Short: "uecmd - Unreal Engine console commands over ADB",
	Long: `uecmd dispatches Unreal Engine console commands to Android devices
through the debug bridge.

Commands are delivered as a broadcast intent that the engine-side receiver
plugin turns into a console command. The full command catalog is read from the
ConsoleHelp.html dump the engine's in-game Help command exports, and powers
autocomplete and browsing.

Run without arguments to start the interactive console.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := configDir
		if dir == "" {
			dir = config.DefaultDir()
		}
		var err error
		cfg, err = config.Load(dir)
		if err != nil {
			return err
		}
		if catalogPath != "" {
			cfg.Catalog.Path = catalogPath
		}
		if verbose {
			cfg.Logging.Debug = true
		}

		// The interactive console owns the terminal; keep the logger quiet there.
		if cmd.Name() == "uecmd" {
			logger = logging.Nop()
			return nil
		}
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default: ~/.uecmd)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to ConsoleHelp.html (default: engine Saved export)")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// effectiveConfigDir is the directory the store and config live in.
func effectiveConfigDir() string {
	if configDir != "" {
		return configDir
	}
	return config.DefaultDir()
}

// newClient builds the adb client from config.
func newClient() *adb.Client {
	return adb.New(
		adb.WithBinary(cfg.ADB.Binary),
		adb.WithBroadcast(cfg.ADB.BroadcastAction, cfg.ADB.ExtraKey),
		adb.WithTimeout(cfg.ADBTimeout()),
		adb.WithLogger(logger),
	)
}

// openStore opens the favourites/history database.
func openStore() (*store.Store, error) {
	return store.Open(config.DatabasePath(effectiveConfigDir()), store.Options{
		HistoryLimit:   cfg.History.Limit,
		SeedFavourites: cfg.Favourites,
		Logger:         logger,
	})
}

// runInteractive launches the TUI console.
func runInteractive() error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	return ui.Run(ui.Deps{
		Config: cfg,
		Client: newClient(),
		Store:  st,
	})
}

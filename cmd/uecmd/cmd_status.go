package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"uecmd/internal/catalog"
	"uecmd/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bridge, catalog, and config status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("uecmd status")
	fmt.Println("============")
	fmt.Printf("Config dir:  %s\n", effectiveConfigDir())
	fmt.Printf("Database:    %s\n", config.DatabasePath(effectiveConfigDir()))
	fmt.Printf("ADB binary:  %s\n", cfg.ADB.Binary)
	fmt.Printf("Broadcast:   %s (-e %s)\n", cfg.ADB.BroadcastAction, cfg.ADB.ExtraKey)
	fmt.Println()

	n, err := newClient().EnsureAvailable(context.Background())
	if err != nil {
		fmt.Printf("✗ ADB: %v\n", err)
	} else if n == 0 {
		fmt.Println("✗ ADB reachable but no devices connected")
	} else {
		fmt.Printf("✓ ADB: %d device(s) connected\n", n)
	}

	dumpPath := catalog.ResolvePath(cfg.Catalog.Path)
	entries := catalog.LoadCommands(cfg.Catalog.Path)
	if len(entries) == 0 {
		fmt.Printf("✗ Catalog: no entries at %s\n", dumpPath)
	} else {
		fmt.Printf("✓ Catalog: %d commands from %s\n", len(entries), dumpPath)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices known to the debug bridge",
	RunE:  runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	devices, err := newClient().Devices(context.Background())
	if err != nil {
		return err
	}
	logger.Debug("device list fetched", zap.Int("count", len(devices)))

	if len(devices) == 0 {
		fmt.Println("No devices attached.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SERIAL\tSTATE\tMODEL\tPRODUCT")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Serial, d.State, d.Model, d.Product)
	}
	return w.Flush()
}
